package lexer

import (
	"testing"

	"utcl/internal/token"
)

type lexStep struct {
	kind token.Kind
	text string
}

func runLexer(t *testing.T, input string, want []lexStep) {
	t.Helper()
	src := []byte(input)
	l := New(src)
	for k, step := range want {
		tok := l.Next()
		if tok.Kind != step.kind {
			t.Fatalf("token %d: kind = %s, want %s (input %q)", k, tok.Kind, step.kind, input)
		}
		if got := string(src[tok.From:tok.To]); got != step.text {
			t.Fatalf("token %d: text = %q, want %q (input %q)", k, got, step.text, input)
		}
	}
}

func TestSimpleCommand(t *testing.T) {
	runLexer(t, "set x 1", []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "x"},
		{token.FIELD, "1"},
		{token.DONE, ""},
	})
}

func TestTerminators(t *testing.T) {
	runLexer(t, "a;b\nc", []lexStep{
		{token.FIELD, "a"},
		{token.POINT, ";"},
		{token.FIELD, "b"},
		{token.POINT, "\n"},
		{token.FIELD, "c"},
		{token.DONE, ""},
	})
}

func TestComments(t *testing.T) {
	runLexer(t, "# leading comment\nset x 1", []lexStep{
		{token.POINT, "\n"},
		{token.FIELD, "set"},
		{token.FIELD, "x"},
		{token.FIELD, "1"},
		{token.DONE, ""},
	})
}

func TestHashInsideWordIsNotComment(t *testing.T) {
	// '#' only opens a comment where a command could start
	runLexer(t, "set x a#b", []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "x"},
		{token.FIELD, "a#b"},
		{token.DONE, ""},
	})
}

func TestQuotedWord(t *testing.T) {
	runLexer(t, `set b "val=$a"`, []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "b"},
		{token.PART, ""},
		{token.PART, "val="},
		{token.PART, "$a"},
		{token.FIELD, ""},
		{token.DONE, ""},
	})
}

func TestBracedRegion(t *testing.T) {
	runLexer(t, "while {$i < 3} {incr i}", []lexStep{
		{token.FIELD, "while"},
		{token.FIELD, "{$i < 3}"},
		{token.FIELD, "{incr i}"},
		{token.DONE, ""},
	})
}

func TestBracketRegion(t *testing.T) {
	runLexer(t, "set c [expr {1+1}]", []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "c"},
		{token.FIELD, "[expr {1+1}]"},
		{token.DONE, ""},
	})
}

func TestVariableWithIndex(t *testing.T) {
	runLexer(t, "set y $a(3)", []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "y"},
		{token.FIELD, "$a(3)"},
		{token.DONE, ""},
	})
}

func TestWordFragments(t *testing.T) {
	// a word glued together from literal, variable and literal pieces
	runLexer(t, "set z ab$x!cd", []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "z"},
		{token.PART, "ab"},
		{token.PART, "$x"},
		{token.FIELD, "!cd"},
		{token.DONE, ""},
	})
}

func TestEscapes(t *testing.T) {
	runLexer(t, `set nl \n`, []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "nl"},
		{token.FIELD, `\n`},
		{token.DONE, ""},
	})
	runLexer(t, `set b \x41`, []lexStep{
		{token.FIELD, "set"},
		{token.FIELD, "b"},
		{token.FIELD, `\x41`},
		{token.DONE, ""},
	})
}

func TestErrorIsSticky(t *testing.T) {
	l := New([]byte("set x {unbalanced"))
	for {
		tok := l.Next()
		if tok.Kind == token.ERROR {
			break
		}
		if tok.Kind == token.DONE {
			t.Fatal("expected an error token before DONE")
		}
	}
	for k := 0; k < 3; k++ {
		if tok := l.Next(); tok.Kind != token.ERROR {
			t.Fatalf("lexer recovered from error state: %s", tok.Kind)
		}
	}
}

func TestLexErrors(t *testing.T) {
	bad := []string{
		"set x {oops",     // unbalanced brace
		"set x [oops",     // unbalanced bracket
		`set x "oops`,     // unterminated quote
		`set x "a"b`,      // closing quote not on a word boundary
		"set x }",         // stray close brace
		"set x ]",         // stray close bracket
		"set x $",         // dangling sigil
		"set x $ y",       // sigil before a blank
	}
	for _, input := range bad {
		l := New([]byte(input))
		sawError := false
		for k := 0; k < 32; k++ {
			tok := l.Next()
			if tok.Kind == token.ERROR {
				sawError = true
				break
			}
			if tok.Kind == token.DONE {
				break
			}
		}
		if !sawError {
			t.Errorf("input %q lexed without an error", input)
		}
	}
}

func TestNulActsAsTerminator(t *testing.T) {
	runLexer(t, "a\x00b", []lexStep{
		{token.FIELD, "a"},
		{token.POINT, "\x00"},
		{token.FIELD, "b"},
		{token.DONE, ""},
	})
}
