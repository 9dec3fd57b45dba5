package interp

import (
	"bytes"

	"utcl/internal/lexer"
	"utcl/internal/token"
	"utcl/internal/value"
)

// subst expands one lexed field into its Value. org is the absolute offset
// of raw within the top-level script, used for error positions of nested
// evaluation. Substitution never mutates the environment except through the
// nested-script path, whose side effects are those of ordinary command
// execution.
func (i *Interp) subst(raw []byte, org int) (*value.Value, Flow) {
	if len(raw) == 0 {
		return value.Empty(), FlowNormal
	}
	switch raw[0] {
	case '{':
		if !bracedWhole(raw) {
			return nil, i.Fail(CodeBraces, "")
		}
		return value.FromBytes(raw[1 : len(raw)-1]), FlowNormal
	case '$':
		return i.substVariable(raw, org)
	case '[':
		if len(raw) < 2 || raw[len(raw)-1] != ']' {
			return nil, i.Fail(CodeSyntax, "")
		}
		if fl := i.eval(raw[1:len(raw)-1], org+1); fl != FlowNormal {
			return nil, fl
		}
		return value.Dup(i.result), FlowNormal
	case '\\':
		return i.substEscape(raw)
	default:
		return value.FromBytes(raw), FlowNormal
	}
}

// substVariable resolves a '$' field: the sigil is stripped, one level of
// recursive '$' handles the doubled-sigil form, a brace or bracket wrapper
// yields the variable name dynamically, and a parenthesized index has its
// own contents substituted before the final lookup. The lookup is read
// only.
func (i *Interp) substVariable(raw []byte, org int) (*value.Value, Flow) {
	name := raw[1:]
	if len(name) == 0 {
		return nil, i.Fail(CodeVarName, "")
	}
	switch name[0] {
	case '$', '[':
		nv, fl := i.subst(name, org+1)
		if fl != FlowNormal {
			return nil, fl
		}
		return i.readVar(nv.String())
	case '{':
		if !bracedWhole(name) {
			return nil, i.Fail(CodeBraces, "")
		}
		return i.readVar(string(name[1 : len(name)-1]))
	}
	if open := bytes.IndexByte(name, '('); open >= 0 && name[len(name)-1] == ')' {
		idx, fl := i.substIndex(name[open+1:len(name)-1], org+1+open+1)
		if fl != FlowNormal {
			return nil, fl
		}
		return i.readVar(string(name[:open+1]) + idx.String() + ")")
	}
	return i.readVar(string(name))
}

// substIndex expands the contents of an array index: each piece is
// substituted and the results concatenated into the final index text.
func (i *Interp) substIndex(raw []byte, org int) (*value.Value, Flow) {
	out := value.Empty()
	lx := lexer.New(raw)
	for {
		t := lx.Next()
		switch {
		case t.Word():
			piece, fl := i.subst(raw[t.From:t.To], org+t.From)
			if fl != FlowNormal {
				return nil, fl
			}
			out.Append(piece)
		case t.Is(token.DONE):
			return out, FlowNormal
		case t.Is(token.POINT):
			// separators inside an index carry no meaning
		default:
			return nil, i.Fail(CodeSyntax, "")
		}
	}
}

// substEscape decodes exactly one backslash escape.
func (i *Interp) substEscape(raw []byte) (*value.Value, Flow) {
	if len(raw) < 2 {
		return nil, i.Fail(CodeSyntax, "")
	}
	var c byte
	switch raw[1] {
	case 'n':
		c = '\n'
	case 'r':
		c = '\r'
	case 't':
		c = '\t'
	case '\n':
		c = ' ' // escaped line break folds to a space
	case 'x':
		if len(raw) >= 4 {
			c = hexNibble(raw[2])<<4 | hexNibble(raw[3])
		} else {
			c = 'x'
		}
	default:
		c = raw[1]
	}
	out := value.Empty()
	out.AppendByte(c)
	return out, FlowNormal
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// bracedWhole reports whether raw is one balanced brace pair covering the
// whole field, with backslash-escaped braces not counted toward depth.
func bracedWhole(raw []byte) bool {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return false
	}
	depth := 0
	for j := 0; j < len(raw); j++ {
		switch raw[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && j != len(raw)-1 {
				return false
			}
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
