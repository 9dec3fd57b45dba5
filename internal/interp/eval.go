package interp

import (
	"utcl/internal/lexer"
	"utcl/internal/token"
	"utcl/internal/value"
)

// eval drives the lexer over src, assembling substituted fields into words,
// words into argument lists, and dispatching each completed command. org is
// the offset of src within the top-level script (0 for the top level
// itself), carried into the scope's position context for error reporting.
//
// Loops, procs and bracket substitutions all re-enter here; the depth guard
// turns runaway recursion into a reported error instead of a stack
// overflow.
func (i *Interp) eval(src []byte, org int) Flow {
	i.depth++
	defer func() { i.depth-- }()
	if i.depth > i.MaxDepth {
		return i.Fail(CodeDepth, "")
	}

	s := i.scope()
	prevStmt, prevBase := s.stmt, s.base
	defer func() { s.stmt, s.base = prevStmt, prevBase }()

	// Lexing errors abort before anything runs: an unbalanced brace in the
	// last command must not leave the first commands half-executed.
	if at, ok := scanBuffer(src); !ok {
		s.stmt, s.base = at, org
		return i.Fail(CodeSyntax, "")
	}

	lx := lexer.New(src)
	args := value.Empty()
	var word *value.Value
	anchor := true // the next word starts a new statement

	for {
		t := lx.Next()
		if anchor && t.Word() {
			s.stmt, s.base = t.From, org
			anchor = false
		}
		switch t.Kind {
		case token.ERROR:
			return i.Fail(CodeSyntax, "")
		case token.PART, token.FIELD:
			piece, fl := i.subst(src[t.From:t.To], org+t.From)
			if fl != FlowNormal {
				return fl
			}
			if word == nil {
				word = piece
			} else {
				word.Append(piece)
			}
			if t.Kind == token.FIELD {
				value.ListAppend(args, word)
				word = nil
			}
		case token.POINT, token.DONE:
			if value.ListLength(args) > 0 {
				fl := i.dispatch(args)
				args = value.Empty()
				if fl != FlowNormal {
					return fl
				}
			}
			anchor = true
			if t.Kind == token.DONE {
				return FlowNormal
			}
		}
	}
}

// scanBuffer lexes src without executing it. On a lexing failure it
// reports the offset of the statement containing the failure.
func scanBuffer(src []byte) (int, bool) {
	lx := lexer.New(src)
	stmt := 0
	anchor := true
	for {
		t := lx.Next()
		switch t.Kind {
		case token.ERROR:
			return stmt, false
		case token.DONE:
			return 0, true
		case token.POINT:
			anchor = true
		default:
			if anchor {
				stmt = t.From
				anchor = false
			}
		}
	}
}

// evalBlock evaluates stored block text (a control-flow arm). Errors inside
// the block report the position of the statement that supplied it.
func (i *Interp) evalBlock(block *value.Value) Flow {
	s := i.scope()
	return i.eval(block.Bytes(), s.base+s.stmt)
}
