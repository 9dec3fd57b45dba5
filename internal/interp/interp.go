package interp

import (
	"log/slog"

	"utcl/internal/value"
)

// Flow is the control-flow signal produced by evaluating a command or block.
type Flow int

const (
	FlowNormal Flow = iota
	FlowBreak
	FlowAgain
	FlowReturn
	FlowExit
	FlowError
)

var flowNames = [...]string{"normal", "break", "continue", "return", "exit", "error"}

func (f Flow) String() string {
	if int(f) < len(flowNames) {
		return flowNames[f]
	}
	return "unknown"
}

// Code identifies the kind of the first error recorded during a top-level
// evaluation.
type Code int

const (
	CodeNone Code = iota
	CodeGeneral
	CodeSyntax
	CodeBraces
	CodeExpr
	CodeCmdUnknown
	CodeVarUnknown
	CodeVarName
	CodeBadParam
	CodeScope
	CodeDepth
)

var codeNames = [...]string{
	"none",
	"general error",
	"syntax error",
	"unbalanced braces",
	"expression error",
	"unknown command",
	"unknown variable",
	"invalid variable name",
	"bad parameter",
	"scope violation",
	"recursion depth exceeded",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// DefaultMaxDepth bounds nested evaluation. Bracket substitutions, proc
// calls and control-flow bodies all recurse through eval, so a runaway
// script would otherwise exhaust the goroutine stack instead of reporting a
// resource failure.
const DefaultMaxDepth = 200

// Interp is one interpreter instance: it owns its scope stack, its command
// registry and the single last-result Value that every evaluation step
// overwrites. Instances are independent; nothing is shared between them.
type Interp struct {
	scopes   []*scope
	cmds     []*command
	result   *value.Value
	top      []byte // the current top-level script, for line numbers
	depth    int
	MaxDepth int

	errCode Code
	errPos  int
	errSym  string
}

// New creates an interpreter with the built-in command set registered.
func New() *Interp {
	i := &Interp{
		scopes:   []*scope{newScope()},
		result:   value.Empty(),
		MaxDepth: DefaultMaxDepth,
	}
	registerBuiltins(i)
	return i
}

// Close tears the interpreter down; the instance must not be used again.
func (i *Interp) Close() {
	i.scopes = nil
	i.cmds = nil
	i.result = nil
	i.top = nil
}

// Eval runs a script and returns its final flow signal. Error details stay
// available from ErrorInfo until the next Eval.
func (i *Interp) Eval(script string) Flow {
	src := []byte(script)
	i.top = src
	i.errCode = CodeNone
	i.errPos = 0
	i.errSym = ""
	slog.Debug("evaluating script", slog.Int("bytes", len(src)))
	return i.eval(src, 0)
}

// Result returns the interpreter's last result. The Value stays owned by
// the interpreter; callers wanting to retain it must Dup it.
func (i *Interp) Result() *value.Value { return i.result }

// SetResult installs v as the interpreter result, consuming it, and returns
// FlowNormal for use as a handler tail call.
func (i *Interp) SetResult(v *value.Value) Flow {
	i.result = v
	return FlowNormal
}

// Fail records the first error of the current evaluation: the code and the
// position of the executing statement are latched and later errors during
// unwinding do not overwrite them. The result becomes an empty Value.
func (i *Interp) Fail(code Code, sym string) Flow {
	if i.errCode == CodeNone {
		i.errCode = code
		i.errSym = sym
		s := i.scope()
		i.errPos = s.base + s.stmt
		slog.Debug("script error",
			slog.String("code", code.String()),
			slog.String("symbol", sym),
			slog.Int("offset", i.errPos))
	}
	i.result = value.Empty()
	return FlowError
}

// ErrorInfo reports the first error recorded by the last Eval: its code, a
// 1-based line number within the evaluated script and the symbol (command
// or variable name) involved, when one applies.
func (i *Interp) ErrorInfo() (Code, int, string) {
	if i.errCode == CodeNone {
		return CodeNone, 0, ""
	}
	return i.errCode, i.errLine(), i.errSym
}

// errLine converts the recorded byte offset into a 1-based line number,
// counting a CRLF pair as one break.
func (i *Interp) errLine() int {
	line := 1
	end := i.errPos
	if end > len(i.top) {
		end = len(i.top)
	}
	for j := 0; j < end; j++ {
		switch i.top[j] {
		case '\n':
			line++
		case '\r':
			if j+1 < len(i.top) && i.top[j+1] == '\n' {
				j++
			}
			line++
		}
	}
	return line
}

// Var returns a copy of a variable's value, or nil when it is undefined.
func (i *Interp) Var(name string) *value.Value {
	v, fl := i.readVar(name)
	if fl != FlowNormal {
		i.errCode = CodeNone
		i.errSym = ""
		return nil
	}
	return v
}

// SetVar writes a variable in the current scope, creating it as needed.
func (i *Interp) SetVar(name, val string) {
	i.writeVar(name, value.New(val))
}
