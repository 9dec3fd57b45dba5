package lexer

import (
	"utcl/internal/token"
)

// Lexer splits a script buffer into classified fields. It is context
// sensitive: double-quote mode, variable-name mode and comment permission
// live in the lexer state rather than in the grammar, and a lexing failure
// is terminal (every later call keeps returning ERROR without consuming
// input).
type Lexer struct {
	src     []byte
	pos     int
	quote   bool // inside a double-quoted section
	varname bool // lexing a variable name after '$'
	comment bool // '#' opens a comment at this position
	failed  bool
}

func New(src []byte) *Lexer {
	return &Lexer{src: src, comment: true}
}

// Pos returns the current byte offset into the buffer.
func (l *Lexer) Pos() int { return l.pos }

func (l *Lexer) fail() token.Token {
	l.failed = true
	return token.Token{Kind: token.ERROR, From: l.pos, To: l.pos}
}

// Next returns the next field of the buffer. Word text is delivered as a run
// of PART fragments closed by a FIELD; a POINT terminates the command in
// progress.
func (l *Lexer) Next() token.Token {
	if l.failed {
		return token.Token{Kind: token.ERROR, From: l.pos, To: l.pos}
	}
	if !l.quote {
		for l.pos < len(l.src) && isBlank(l.src[l.pos]) {
			l.pos++
		}
		if l.comment && !l.varname && l.pos < len(l.src) && l.src[l.pos] == '#' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		}
	}
	from := l.pos
	if l.pos >= len(l.src) {
		if l.quote {
			return l.fail()
		}
		return token.Token{Kind: token.DONE, From: from, To: from}
	}
	c := l.src[l.pos]
	if c == 0 {
		// a stray NUL acts as an implicit terminator
		if l.quote {
			return l.fail()
		}
		l.pos++
		l.comment = true
		return token.Token{Kind: token.POINT, From: from, To: l.pos}
	}
	if !l.quote && isTerm(c) {
		l.pos++
		l.comment = true
		return token.Token{Kind: token.POINT, From: from, To: l.pos}
	}
	switch {
	case c == '$':
		return l.lexVariable(from)
	case c == '[' || (!l.quote && c == '{'):
		return l.lexRegion(from)
	case c == '"':
		return l.lexQuote(from)
	case c == '\\':
		return l.lexEscape(from)
	case !l.quote && (c == ']' || c == '}'):
		return l.fail()
	default:
		return l.lexWord(from)
	}
}

// lexVariable covers '$name', '$$name', '${name}', '$[cmd]' and
// '$name(index)' as a single token beginning at the sigil. The name itself
// is lexed by re-entering Next in variable-name mode.
func (l *Lexer) lexVariable(from int) token.Token {
	i := l.pos + 1
	if i < len(l.src) && l.src[i] == '$' && !l.varname {
		i++ // double dereference
	}
	if i >= len(l.src) || isBlank(l.src[i]) || l.src[i] == '"' {
		return l.fail()
	}
	wasQuote, wasVar := l.quote, l.varname
	l.quote = false
	l.varname = true
	l.pos = i
	t := l.Next()
	l.quote = wasQuote
	l.varname = wasVar
	if t.Kind == token.ERROR {
		return t
	}
	t.From = from
	if wasQuote && t.Kind == token.FIELD {
		t.Kind = token.PART
	}
	return t
}

// lexRegion scans a balanced bracket or brace region. Backslash-escaped
// open/close characters do not count toward nesting depth.
func (l *Lexer) lexRegion(from int) token.Token {
	open := l.src[l.pos]
	close := byte(']')
	if open == '{' {
		close = '}'
	}
	i := l.pos + 1
	depth := 1
	for i < len(l.src) && depth > 0 {
		switch l.src[i] {
		case '\\':
			i++
		case open:
			depth++
		case close:
			depth--
		}
		i++
	}
	if depth != 0 {
		return l.fail()
	}
	l.pos = i
	return l.wordEnd(from)
}

// lexQuote toggles quote mode. The spans it returns are empty: the quote
// characters themselves never reach the substitution engine.
func (l *Lexer) lexQuote(from int) token.Token {
	l.quote = !l.quote
	l.pos++
	l.comment = false
	if l.quote {
		return token.Token{Kind: token.PART, From: l.pos, To: l.pos}
	}
	// a closing quote must sit on a word boundary
	if l.pos < len(l.src) && !isBlank(l.src[l.pos]) && !isTerm(l.src[l.pos]) {
		return l.fail()
	}
	return token.Token{Kind: token.FIELD, From: l.pos, To: l.pos}
}

// lexEscape consumes one backslash escape verbatim: two characters, or four
// for \x followed by two hex digits. Decoding happens during substitution.
func (l *Lexer) lexEscape(from int) token.Token {
	n := 2
	if l.pos+3 < len(l.src) && l.src[l.pos+1] == 'x' &&
		isHex(l.src[l.pos+2]) && isHex(l.src[l.pos+3]) {
		n = 4
	}
	if l.pos+n > len(l.src) {
		return l.fail()
	}
	l.pos += n
	return l.wordEnd(from)
}

func (l *Lexer) lexWord(from int) token.Token {
	i := l.pos
	if l.varname {
		for i < len(l.src) && isName(l.src[i]) {
			i++
		}
		if i == l.pos {
			return l.fail()
		}
		if i < len(l.src) && l.src[i] == '(' {
			j, ok := l.matchIndex(i)
			if !ok {
				return l.fail()
			}
			i = j
		}
		l.pos = i
		return l.wordEnd(from)
	}
	for i < len(l.src) {
		c := l.src[i]
		if !l.quote && (isBlank(c) || isTerm(c)) {
			break
		}
		if isSpecial(c, l.quote) {
			break
		}
		i++
	}
	l.pos = i
	return l.wordEnd(from)
}

// matchIndex scans the parenthesized array-index region opening at 'at',
// honoring nesting and backslash escapes, and returns the offset just past
// the closing parenthesis.
func (l *Lexer) matchIndex(at int) (int, bool) {
	depth := 0
	i := at
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}

// wordEnd classifies the chunk ending at the current position: FIELD on a
// word boundary, PART when the word is still open.
func (l *Lexer) wordEnd(from int) token.Token {
	l.comment = false
	if l.quote {
		return token.Token{Kind: token.PART, From: from, To: l.pos}
	}
	if l.pos >= len(l.src) || isBlank(l.src[l.pos]) || isTerm(l.src[l.pos]) {
		return token.Token{Kind: token.FIELD, From: from, To: l.pos}
	}
	return token.Token{Kind: token.PART, From: from, To: l.pos}
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func isTerm(c byte) bool { return c == '\n' || c == '\r' || c == ';' || c == 0 }

func isName(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// isSpecial reports whether c ends the current raw run of word characters.
func isSpecial(c byte, quoted bool) bool {
	switch c {
	case '[', ']', '"', '\\', '$', 0:
		return true
	case '{', '}', ';', '\r', '\n':
		return !quoted
	}
	return false
}
