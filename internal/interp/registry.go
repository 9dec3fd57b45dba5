package interp

import (
	"log/slog"

	"utcl/internal/value"
)

// CmdFunc is a command handler. args is the full argument list (args[0] is
// the command name itself); data carries whatever was registered alongside
// the command. Handlers deliver results through SetResult and report
// non-normal control flow in the returned Flow.
type CmdFunc func(i *Interp, args *value.Value, data any) Flow

type command struct {
	name    string
	minArgs int
	maxArgs int // < 0 means unbounded
	fn      CmdFunc
	data    any
}

// Register installs a command under an inclusive [minArgs,maxArgs] arity
// window (counting the command name itself; maxArgs < 0 means unbounded).
// Registration prepends, so a later command shadows an earlier one with an
// overlapping window. Commands are never removed before teardown.
func (i *Interp) Register(name string, minArgs, maxArgs int, fn CmdFunc, data any) {
	c := &command{name: name, minArgs: minArgs, maxArgs: maxArgs, fn: fn, data: data}
	i.cmds = append([]*command{c}, i.cmds...)
}

// lookup finds the first command whose name matches and whose arity window
// contains argc. An argc of 0 matches any arity; that form is only used for
// administrative lookups such as finding a proc's own registration.
func (i *Interp) lookup(name string, argc int) *command {
	for _, c := range i.cmds {
		if c.name != name {
			continue
		}
		if argc == 0 || (argc >= c.minArgs && (c.maxArgs < 0 || argc <= c.maxArgs)) {
			return c
		}
	}
	return nil
}

// dispatch resolves and invokes the command named by args[0], consuming
// args. A name/arity combination with no registration fails with exactly
// one unknown-command error.
func (i *Interp) dispatch(args *value.Value) Flow {
	argc := value.ListLength(args)
	if argc == 0 {
		return FlowNormal
	}
	name := value.ListIndex(args, 0).String()
	cmd := i.lookup(name, argc)
	if cmd == nil {
		return i.Fail(CodeCmdUnknown, name)
	}
	slog.Debug("dispatching command",
		slog.String("name", name),
		slog.Int("argc", argc))
	return cmd.fn(i, args, cmd.data)
}
