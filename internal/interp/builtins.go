package interp

import (
	"fmt"
	"log/slog"

	"utcl/internal/lexer"
	"utcl/internal/token"
	"utcl/internal/value"
)

// registerBuiltins installs the full built-in command set on a fresh
// interpreter. Procs registered later prepend, so a script can shadow any
// of these by name.
func registerBuiltins(i *Interp) {
	i.Register("set", 2, 3, cmdSet, nil)
	i.Register("unset", 2, -1, cmdUnset, nil)
	i.Register("global", 2, -1, cmdGlobal, nil)
	i.Register("incr", 2, 3, cmdIncr, nil)
	i.Register("append", 3, -1, cmdAppend, nil)
	i.Register("proc", 4, 4, cmdProc, nil)
	i.Register("expr", 2, -1, cmdExpr, nil)
	i.Register("subst", 2, 2, cmdSubst, nil)
	i.Register("puts", 2, 2, cmdPuts, nil)
	i.Register("array", 3, 5, cmdArray, nil)
	i.Register("info", 2, 3, cmdInfo, nil)
	i.Register("return", 1, 2, cmdReturn, nil)
	i.Register("break", 1, 1, cmdBreak, nil)
	i.Register("continue", 1, 1, cmdContinue, nil)
	i.Register("exit", 1, 2, cmdExit, nil)
	registerFlowBuiltins(i)
	registerListBuiltins(i)
	registerStringBuiltins(i)
}

func cmdSet(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	if value.ListLength(args) == 3 {
		val := value.ListIndex(args, 2)
		res := value.Dup(val)
		if fl := i.writeVar(name, val); fl != FlowNormal {
			return fl
		}
		return i.SetResult(res)
	}
	v, fl := i.readVar(name)
	if fl != FlowNormal {
		return fl
	}
	return i.SetResult(v)
}

func cmdUnset(i *Interp, args *value.Value, _ any) Flow {
	for _, name := range value.ListItems(args)[1:] {
		if fl := i.unsetVar(name.String()); fl != FlowNormal {
			return fl
		}
	}
	return i.SetResult(value.Empty())
}

func cmdGlobal(i *Interp, args *value.Value, _ any) Flow {
	for _, name := range value.ListItems(args)[1:] {
		if fl := i.declareGlobal(name.String()); fl != FlowNormal {
			return fl
		}
	}
	return i.SetResult(value.Empty())
}

func cmdIncr(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	delta := int64(1)
	if value.ListLength(args) == 3 {
		delta = value.ListIndex(args, 2).Int()
	}
	v, fl := i.readVar(name)
	if fl != FlowNormal {
		return fl
	}
	n := v.Int() + delta
	if fl := i.writeVar(name, value.FromInt(n)); fl != FlowNormal {
		return fl
	}
	return i.SetResult(value.FromInt(n))
}

func cmdAppend(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	v := value.Empty()
	if i.existsVar(name) {
		var fl Flow
		if v, fl = i.readVar(name); fl != FlowNormal {
			return fl
		}
	}
	for _, item := range value.ListItems(args)[2:] {
		v.Append(item)
	}
	res := value.Dup(v)
	if fl := i.writeVar(name, v); fl != FlowNormal {
		return fl
	}
	return i.SetResult(res)
}

// procData is the registration payload of a script-defined command: its
// formal parameter list, its body text and the offset of the declaring
// statement, so errors inside the body report against the declaration
// site.
type procData struct {
	params  *value.Value
	body    *value.Value
	declPos int
}

func cmdProc(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	params := value.ListIndex(args, 2)
	s := i.scope()
	data := &procData{
		params:  params,
		body:    value.ListIndex(args, 3),
		declPos: s.base + s.stmt,
	}
	arity := 1 + value.ListLength(params)
	i.Register(name, arity, arity, cmdProcCall, data)
	slog.Debug("proc defined", slog.String("name", name), slog.Int("arity", arity))
	return i.SetResult(value.Empty())
}

// cmdProcCall runs a script-defined command: a fresh scope, formals bound
// positionally, the stored body evaluated against its declaration offset.
// A return from the body completes the call; break or continue escaping
// the body is a scope violation.
func cmdProcCall(i *Interp, args *value.Value, data any) Flow {
	p := data.(*procData)
	i.pushScope()
	for k, formal := range value.ListItems(p.params) {
		i.writeVar(formal.String(), value.ListIndex(args, k+1))
	}
	fl := i.eval(p.body.Bytes(), p.declPos)
	i.popScope()
	switch fl {
	case FlowReturn, FlowNormal:
		return FlowNormal
	case FlowBreak, FlowAgain:
		return i.Fail(CodeScope, value.ListIndex(args, 0).String())
	}
	return fl
}

func cmdExpr(i *Interp, args *value.Value, _ any) Flow {
	text := ""
	for k, item := range value.ListItems(args)[1:] {
		if k > 0 {
			text += " "
		}
		text += item.String()
	}
	n, fl := i.evalExpr(text)
	if fl != FlowNormal {
		return fl
	}
	return i.SetResult(value.FromInt(n))
}

// cmdSubst expands substitutions in its argument without running it as a
// script: each field is substituted in place and the whitespace between
// fields survives unchanged.
func cmdSubst(i *Interp, args *value.Value, _ any) Flow {
	raw := value.ListIndex(args, 1).Bytes()
	org := i.scope().base + i.scope().stmt
	out := value.Empty()
	lx := lexer.New(raw)
	last := 0
	for {
		t := lx.Next()
		switch t.Kind {
		case token.PART, token.FIELD:
			for _, c := range raw[last:t.From] {
				switch c {
				case ' ', '\t', '\r', '\n', ';':
					out.AppendByte(c)
				}
			}
			piece, fl := i.subst(raw[t.From:t.To], org)
			if fl != FlowNormal {
				return fl
			}
			out.Append(piece)
			last = t.To
		case token.POINT:
			// separator text is carried over by the gap copy above
		case token.DONE:
			for _, c := range raw[last:] {
				switch c {
				case ' ', '\t', '\r', '\n', ';':
					out.AppendByte(c)
				}
			}
			return i.SetResult(out)
		default:
			return i.Fail(CodeSyntax, "")
		}
	}
}

func cmdPuts(i *Interp, args *value.Value, _ any) Flow {
	text := value.ListIndex(args, 1)
	fmt.Println(text.String())
	return i.SetResult(text)
}

func cmdArray(i *Interp, args *value.Value, _ any) Flow {
	sub := value.ListIndex(args, 1).String()
	name := value.ListIndex(args, 2).String()
	v := i.findVar(name)
	switch sub {
	case "length", "size":
		if v == nil {
			return i.SetResult(value.FromInt(0))
		}
		return i.SetResult(value.FromInt(int64(len(v.elems))))
	case "exists":
		if v == nil {
			return i.SetResult(value.FromInt(0))
		}
		return i.SetResult(value.FromInt(1))
	case "slice":
		if value.ListLength(args) != 5 {
			return i.Fail(CodeBadParam, "array")
		}
		from := int(value.ListIndex(args, 3).Int())
		to := int(value.ListIndex(args, 4).Int())
		out := value.Empty()
		if v != nil {
			for k := from; k <= to && k >= 0; k++ {
				if k >= len(v.elems) {
					break
				}
				value.ListAppend(out, value.Dup(v.elems[k]))
			}
		}
		return i.SetResult(out)
	}
	return i.Fail(CodeBadParam, "array")
}

func cmdInfo(i *Interp, args *value.Value, _ any) Flow {
	switch sub := value.ListIndex(args, 1).String(); sub {
	case "exists":
		name := value.ListIndex(args, 2).String()
		if i.existsVar(name) {
			return i.SetResult(value.FromInt(1))
		}
		return i.SetResult(value.FromInt(0))
	case "tclversion":
		return i.SetResult(value.New("1.0"))
	}
	return i.Fail(CodeBadParam, "info")
}

func cmdReturn(i *Interp, args *value.Value, _ any) Flow {
	if value.ListLength(args) == 2 {
		i.SetResult(value.ListIndex(args, 1))
	} else {
		i.SetResult(value.Empty())
	}
	return FlowReturn
}

func cmdBreak(i *Interp, _ *value.Value, _ any) Flow { return FlowBreak }

func cmdContinue(i *Interp, _ *value.Value, _ any) Flow { return FlowAgain }

func cmdExit(i *Interp, args *value.Value, _ any) Flow {
	if value.ListLength(args) == 2 {
		i.SetResult(value.ListIndex(args, 1))
	} else {
		i.SetResult(value.FromInt(0))
	}
	return FlowExit
}
