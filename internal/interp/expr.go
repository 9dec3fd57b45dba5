package interp

import (
	"strings"

	"utcl/internal/value"
)

// exprParser walks an arithmetic expression left to right after variable
// and bracket substitution has already produced the final text. All
// arithmetic is signed 64-bit with truncating division.
type exprParser struct {
	i   *Interp
	src string
	pos int
	err Flow
}

// evalExpr evaluates expr text and returns the numeric result. On any
// parse or arithmetic error the interpreter's error state is latched and
// the returned Flow is FlowError.
func (i *Interp) evalExpr(text string) (int64, Flow) {
	p := &exprParser{i: i, src: text, err: FlowNormal}
	n := p.ternary()
	if p.err != FlowNormal {
		return 0, p.err
	}
	p.skip()
	if p.pos < len(p.src) {
		return 0, p.fail("trailing characters")
	}
	return n, FlowNormal
}

func (p *exprParser) fail(sym string) Flow {
	if p.err == FlowNormal {
		p.err = p.i.Fail(CodeExpr, sym)
	}
	return p.err
}

func (p *exprParser) skip() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) peek() byte {
	p.skip()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// accept consumes op if it is next, refusing when the operator would run
// into a longer one (so "<" is not taken from "<<" or "<=").
func (p *exprParser) accept(op string) bool {
	p.skip()
	if !strings.HasPrefix(p.src[p.pos:], op) {
		return false
	}
	rest := p.src[p.pos+len(op):]
	if len(rest) > 0 {
		switch op {
		case "<", ">":
			if rest[0] == op[0] || rest[0] == '=' {
				return false
			}
		case "&", "|":
			if rest[0] == op[0] {
				return false
			}
		case "*":
			if rest[0] == '*' {
				return false
			}
		case "=", "!":
			if rest[0] == '=' {
				return false
			}
		}
	}
	p.pos += len(op)
	return true
}

func truth(n int64) bool { return n != 0 }

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ternary is right associative: a ? b : c ? d : e groups as
// a ? b : (c ? d : e). Both arms are evaluated; selection happens after.
func (p *exprParser) ternary() int64 {
	cond := p.orOr()
	if p.err != FlowNormal || !p.accept("?") {
		return cond
	}
	yes := p.ternary()
	if p.err != FlowNormal {
		return 0
	}
	if !p.accept(":") {
		p.fail("missing :")
		return 0
	}
	no := p.ternary()
	if truth(cond) {
		return yes
	}
	return no
}

func (p *exprParser) orOr() int64 {
	n := p.andAnd()
	for p.err == FlowNormal && p.accept("||") {
		m := p.andAnd()
		n = b2i(truth(n) || truth(m))
	}
	return n
}

func (p *exprParser) andAnd() int64 {
	n := p.bitOr()
	for p.err == FlowNormal && p.accept("&&") {
		m := p.bitOr()
		n = b2i(truth(n) && truth(m))
	}
	return n
}

func (p *exprParser) bitOr() int64 {
	n := p.bitXor()
	for p.err == FlowNormal && p.accept("|") {
		n |= p.bitXor()
	}
	return n
}

func (p *exprParser) bitXor() int64 {
	n := p.bitAnd()
	for p.err == FlowNormal && p.accept("^") {
		n ^= p.bitAnd()
	}
	return n
}

func (p *exprParser) bitAnd() int64 {
	n := p.equality()
	for p.err == FlowNormal && p.accept("&") {
		n &= p.equality()
	}
	return n
}

func (p *exprParser) equality() int64 {
	n := p.relational()
	for p.err == FlowNormal {
		switch {
		case p.accept("=="):
			n = b2i(n == p.relational())
		case p.accept("!="):
			n = b2i(n != p.relational())
		default:
			return n
		}
	}
	return n
}

func (p *exprParser) relational() int64 {
	n := p.shift()
	for p.err == FlowNormal {
		switch {
		case p.accept("<="):
			n = b2i(n <= p.shift())
		case p.accept(">="):
			n = b2i(n >= p.shift())
		case p.accept("<"):
			n = b2i(n < p.shift())
		case p.accept(">"):
			n = b2i(n > p.shift())
		default:
			return n
		}
	}
	return n
}

func (p *exprParser) shift() int64 {
	n := p.additive()
	for p.err == FlowNormal {
		switch {
		case p.accept("<<"):
			n <<= uint64(p.additive())
		case p.accept(">>"):
			n >>= uint64(p.additive())
		default:
			return n
		}
	}
	return n
}

func (p *exprParser) additive() int64 {
	n := p.multiplicative()
	for p.err == FlowNormal {
		switch {
		case p.accept("+"):
			n += p.multiplicative()
		case p.accept("-"):
			n -= p.multiplicative()
		default:
			return n
		}
	}
	return n
}

func (p *exprParser) multiplicative() int64 {
	n := p.power()
	for p.err == FlowNormal {
		switch {
		case p.accept("*"):
			n *= p.power()
		case p.accept("/"):
			m := p.power()
			if p.err != FlowNormal {
				return 0
			}
			if m == 0 {
				p.fail("division by zero")
				return 0
			}
			n /= m
		case p.accept("%"):
			m := p.power()
			if p.err != FlowNormal {
				return 0
			}
			if m == 0 {
				p.fail("division by zero")
				return 0
			}
			n %= m
		default:
			return n
		}
	}
	return n
}

// power is right associative: 2**3**2 is 2**(3**2). Negative exponents
// yield zero.
func (p *exprParser) power() int64 {
	n := p.unary()
	if p.err != FlowNormal || !p.accept("**") {
		return n
	}
	e := p.power()
	if p.err != FlowNormal {
		return 0
	}
	if e < 0 {
		return 0
	}
	r := int64(1)
	for ; e > 0; e-- {
		r *= n
	}
	return r
}

func (p *exprParser) unary() int64 {
	switch p.peek() {
	case '-':
		p.pos++
		return -p.unary()
	case '+':
		p.pos++
		return p.unary()
	case '!':
		if p.accept("!") {
			return b2i(!truth(p.unary()))
		}
	case '~':
		p.pos++
		return ^p.unary()
	}
	return p.primary()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *exprParser) primary() int64 {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		n := p.ternary()
		if p.err != FlowNormal {
			return 0
		}
		if !p.accept(")") {
			p.fail("missing )")
			return 0
		}
		return n
	case c == '{':
		// A braced group reads as a parenthesized sub-expression.
		p.pos++
		n := p.ternary()
		if p.err != FlowNormal {
			return 0
		}
		if !p.accept("}") {
			p.fail("missing }")
			return 0
		}
		return n
	case c == '[':
		return p.command()
	case c == '$':
		p.pos++
		return p.variable()
	case isDigit(c):
		return p.number()
	case isAlpha(c):
		return p.variable()
	}
	p.fail("expected operand")
	return 0
}

func (p *exprParser) number() int64 {
	start := p.pos
	neg := false
	n := int64(0)
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		neg = true
		p.pos++
	}
	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.pos += 2
		ok := false
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			var d int64
			switch {
			case isDigit(c):
				d = int64(c - '0')
			case c >= 'a' && c <= 'f':
				d = int64(c-'a') + 10
			case c >= 'A' && c <= 'F':
				d = int64(c-'A') + 10
			default:
				goto hexDone
			}
			n = n<<4 | d
			ok = true
			p.pos++
		}
	hexDone:
		if !ok {
			p.pos = start
			p.fail("malformed number")
			return 0
		}
	} else {
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			n = n*10 + int64(p.src[p.pos]-'0')
			p.pos++
		}
	}
	// Reject a number running straight into letters or a decimal point,
	// like 12.5 or 3foo.
	if p.pos < len(p.src) {
		c := p.src[p.pos]
		if isAlpha(c) || c == '.' || c == ',' {
			p.fail("malformed number")
			return 0
		}
	}
	if neg {
		return -n
	}
	return n
}

// command evaluates a balanced [script] operand and reads its result as a
// number. Braces shield brackets from field substitution, so expressions
// like {[cmd] * 2} arrive here with the brackets intact.
func (p *exprParser) command() int64 {
	depth := 0
	end := -1
	for k := p.pos; k < len(p.src); k++ {
		switch p.src[k] {
		case '\\':
			k++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				end = k
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		p.fail("missing ]")
		return 0
	}
	inner := p.src[p.pos+1 : end]
	p.pos = end + 1
	s := p.i.scope()
	if fl := p.i.eval([]byte(inner), s.base+s.stmt); fl != FlowNormal {
		p.err = fl
		return 0
	}
	return p.i.result.Int()
}

// variable reads a name, with an optional (index) whose contents are a
// full sub-expression, and returns the numeric value of that variable.
func (p *exprParser) variable() int64 {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if isAlpha(c) || isDigit(c) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		p.fail("expected operand")
		return 0
	}
	name := p.src[start:p.pos]
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		p.pos++
		idx := p.ternary()
		if p.err != FlowNormal {
			return 0
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			p.fail("missing )")
			return 0
		}
		p.pos++
		name = name + "(" + value.FromInt(idx).String() + ")"
	}
	v, fl := p.i.readVar(name)
	if fl != FlowNormal {
		p.err = fl
		return 0
	}
	return v.Int()
}
