package token

// Kind classifies one lexed field of a script buffer.
type Kind string

const (
	// ERROR marks a lexing failure. The lexer latches this state and keeps
	// returning it without consuming further input.
	ERROR = "ERROR"

	// POINT is an execution point: an unquoted newline, carriage return,
	// semicolon or NUL terminated the current command.
	POINT = "POINT"

	// FIELD is a complete word ending on a word boundary.
	FIELD = "FIELD"

	// PART is a word fragment; the word continues with the next token.
	PART = "PART"

	// DONE marks the end of the buffer.
	DONE = "DONE"
)

// Token is one classified field: the half-open byte range [From,To) of the
// source buffer it covers.
type Token struct {
	Kind Kind
	From int
	To   int
}

func (t Token) Is(k Kind) bool { return t.Kind == k }

// Word reports whether the token contributes text to the current word.
func (t Token) Word() bool { return t.Kind == FIELD || t.Kind == PART }
