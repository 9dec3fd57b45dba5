package interp

import (
	"utcl/internal/value"
)

func registerFlowBuiltins(i *Interp) {
	i.Register("if", 3, -1, cmdIf, nil)
	i.Register("while", 3, 3, cmdWhile, nil)
	i.Register("for", 5, 5, cmdFor, nil)
	i.Register("foreach", 4, 4, cmdForeach, nil)
	i.Register("switch", 3, -1, cmdSwitch, nil)
}

// cmdIf walks the condition/body pairs of
// if cond body ?elseif cond body ...? ?else body? and runs the first body
// whose condition is true. Conditions are arithmetic expressions.
func cmdIf(i *Interp, args *value.Value, _ any) Flow {
	items := value.ListItems(args)
	k := 1
	for {
		if k+1 >= len(items) {
			return i.Fail(CodeBadParam, "if")
		}
		n, fl := i.evalExpr(items[k].String())
		if fl != FlowNormal {
			return fl
		}
		if n != 0 {
			return i.evalBlock(items[k+1])
		}
		k += 2
		if k >= len(items) {
			return i.SetResult(value.Empty())
		}
		switch items[k].String() {
		case "elseif":
			k++
		case "else":
			if k+1 != len(items)-1 {
				return i.Fail(CodeBadParam, "if")
			}
			return i.evalBlock(items[k+1])
		default:
			return i.Fail(CodeBadParam, "if")
		}
	}
}

// loopBody runs one iteration body and folds its flow: break stops the
// loop, continue moves to the next iteration, anything else propagates.
func loopBody(i *Interp, body *value.Value) (done bool, fl Flow) {
	switch fl = i.evalBlock(body); fl {
	case FlowNormal, FlowAgain:
		return false, FlowNormal
	case FlowBreak:
		return true, FlowNormal
	}
	return true, fl
}

func cmdWhile(i *Interp, args *value.Value, _ any) Flow {
	cond := value.ListIndex(args, 1)
	body := value.ListIndex(args, 2)
	for {
		n, fl := i.evalExpr(cond.String())
		if fl != FlowNormal {
			return fl
		}
		if n == 0 {
			return i.SetResult(value.Empty())
		}
		if done, fl := loopBody(i, body); done {
			if fl != FlowNormal {
				return fl
			}
			return i.SetResult(value.Empty())
		}
	}
}

func cmdFor(i *Interp, args *value.Value, _ any) Flow {
	init := value.ListIndex(args, 1)
	cond := value.ListIndex(args, 2)
	next := value.ListIndex(args, 3)
	body := value.ListIndex(args, 4)
	if fl := i.evalBlock(init); fl != FlowNormal {
		return fl
	}
	for {
		n, fl := i.evalExpr(cond.String())
		if fl != FlowNormal {
			return fl
		}
		if n == 0 {
			return i.SetResult(value.Empty())
		}
		if done, fl := loopBody(i, body); done {
			if fl != FlowNormal {
				return fl
			}
			return i.SetResult(value.Empty())
		}
		if fl := i.evalBlock(next); fl != FlowNormal {
			return fl
		}
	}
}

func cmdForeach(i *Interp, args *value.Value, _ any) Flow {
	name := value.ListIndex(args, 1).String()
	items := value.ListItems(value.ListIndex(args, 2))
	body := value.ListIndex(args, 3)
	for _, item := range items {
		if fl := i.writeVar(name, item); fl != FlowNormal {
			return fl
		}
		if done, fl := loopBody(i, body); done {
			if fl != FlowNormal {
				return fl
			}
			break
		}
	}
	return i.SetResult(value.Empty())
}

// cmdSwitch matches its subject against glob patterns in order and runs
// the body of the first match. The pattern "default" always matches; a
// body of "-" falls through to the next body. Pattern/body pairs arrive
// either as separate arguments or as one braced block.
func cmdSwitch(i *Interp, args *value.Value, _ any) Flow {
	subject := value.ListIndex(args, 1).String()
	items := value.ListItems(args)[2:]
	if len(items) == 1 {
		items = value.ListItems(items[0])
	}
	if len(items)%2 != 0 {
		return i.Fail(CodeBadParam, "switch")
	}
	for k := 0; k < len(items); k += 2 {
		pat := items[k].String()
		if pat != "default" && !globMatch(pat, subject) {
			continue
		}
		for k < len(items) && items[k+1].String() == "-" {
			k += 2
		}
		if k >= len(items) {
			return i.Fail(CodeBadParam, "switch")
		}
		return i.evalBlock(items[k+1])
	}
	return i.SetResult(value.Empty())
}

// globMatch implements the pattern language used by switch and string
// match: * matches any run, ? any one byte, [a-z] a byte range or set,
// backslash escapes the next pattern byte.
func globMatch(pat, s string) bool {
	p, q := 0, 0
	starP, starQ := -1, 0
	for q < len(s) {
		if p < len(pat) {
			switch c := pat[p]; c {
			case '*':
				starP, starQ = p, q
				p++
				continue
			case '?':
				p++
				q++
				continue
			case '[':
				if n, ok := matchSet(pat[p:], s[q]); ok {
					p += n
					q++
					continue
				}
			case '\\':
				if p+1 < len(pat) && pat[p+1] == s[q] {
					p += 2
					q++
					continue
				}
			default:
				if c == s[q] {
					p++
					q++
					continue
				}
			}
		}
		if starP < 0 {
			return false
		}
		starQ++
		p, q = starP+1, starQ
	}
	for p < len(pat) && pat[p] == '*' {
		p++
	}
	return p == len(pat)
}

// matchSet matches one byte against a leading [...] set and returns the
// set's length in the pattern.
func matchSet(pat string, c byte) (int, bool) {
	end := 1
	neg := false
	if end < len(pat) && (pat[end] == '^' || pat[end] == '!') {
		neg = true
		end++
	}
	hit := false
	for end < len(pat) && pat[end] != ']' {
		lo := pat[end]
		if end+2 < len(pat) && pat[end+1] == '-' && pat[end+2] != ']' {
			if c >= lo && c <= pat[end+2] {
				hit = true
			}
			end += 3
		} else {
			if c == lo {
				hit = true
			}
			end++
		}
	}
	if end >= len(pat) {
		return 0, false // unterminated set never matches
	}
	return end + 1, hit != neg
}
