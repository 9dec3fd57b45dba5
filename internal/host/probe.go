// Package host is the probe side of the embedding contract: the commands a
// debug-probe process registers into an interpreter so that bring-up
// scripts can reach the target and archive their results. The transports
// behind these commands (GDB RSP, trace decoding) live outside this
// repository; here they are reduced to the Target interface.
package host

import (
	"fmt"
	"log/slog"

	"utcl/internal/interp"
	"utcl/internal/value"
)

// Target is the interpreter's view of a debug target. Implementations are
// synchronous; the interpreter calls them from the dispatching goroutine
// and blocks until they return.
type Target interface {
	ReadReg(name string) (uint64, error)
	WriteReg(name string, v uint64) error
	ReadMem(addr uint64, n int) ([]byte, error)
	WriteMem(addr uint64, data []byte) error
	Halt() error
	Resume() error
	Reset() error
}

// RegisterTarget installs the target access commands on an interpreter:
//
//	reg name ?value?            read or write a register
//	mem read addr count         read count bytes, result is a list of bytes
//	mem write addr byte...      write bytes starting at addr
//	target halt|resume|reset    run control
//
// Register and memory values render as 0x-prefixed hex; numeric arguments
// accept any base the expression language does.
func RegisterTarget(i *interp.Interp, t Target) {
	i.Register("reg", 2, 3, cmdReg, t)
	i.Register("mem", 3, -1, cmdMem, t)
	i.Register("target", 2, 2, cmdTarget, t)
}

func hostFail(i *interp.Interp, err error) interp.Flow {
	slog.Warn("target command failed", slog.String("error", err.Error()))
	return i.Fail(interp.CodeGeneral, err.Error())
}

func hexValue(v uint64) *value.Value {
	return value.New(fmt.Sprintf("0x%x", v))
}

func cmdReg(i *interp.Interp, args *value.Value, data any) interp.Flow {
	t := data.(Target)
	name := value.ListIndex(args, 1).String()
	if value.ListLength(args) == 3 {
		v := uint64(value.ListIndex(args, 2).Int())
		if err := t.WriteReg(name, v); err != nil {
			return hostFail(i, err)
		}
		return i.SetResult(hexValue(v))
	}
	v, err := t.ReadReg(name)
	if err != nil {
		return hostFail(i, err)
	}
	return i.SetResult(hexValue(v))
}

func cmdMem(i *interp.Interp, args *value.Value, data any) interp.Flow {
	t := data.(Target)
	addr := uint64(value.ListIndex(args, 2).Int())
	switch sub := value.ListIndex(args, 1).String(); sub {
	case "read":
		if value.ListLength(args) != 4 {
			return i.Fail(interp.CodeBadParam, "mem")
		}
		n := int(value.ListIndex(args, 3).Int())
		buf, err := t.ReadMem(addr, n)
		if err != nil {
			return hostFail(i, err)
		}
		out := value.Empty()
		for _, b := range buf {
			value.ListAppend(out, hexValue(uint64(b)))
		}
		return i.SetResult(out)
	case "write":
		if value.ListLength(args) < 4 {
			return i.Fail(interp.CodeBadParam, "mem")
		}
		items := value.ListItems(args)[3:]
		buf := make([]byte, len(items))
		for k, item := range items {
			buf[k] = byte(item.Int())
		}
		if err := t.WriteMem(addr, buf); err != nil {
			return hostFail(i, err)
		}
		return i.SetResult(value.FromInt(int64(len(buf))))
	}
	return i.Fail(interp.CodeBadParam, "mem")
}

func cmdTarget(i *interp.Interp, args *value.Value, data any) interp.Flow {
	t := data.(Target)
	var err error
	switch sub := value.ListIndex(args, 1).String(); sub {
	case "halt":
		err = t.Halt()
	case "resume":
		err = t.Resume()
	case "reset":
		err = t.Reset()
	default:
		return i.Fail(interp.CodeBadParam, "target")
	}
	if err != nil {
		return hostFail(i, err)
	}
	return i.SetResult(value.Empty())
}

// MockTarget is an in-memory Target for tests and the CLI's offline mode:
// registers are a name map, memory is a sparse byte map, run control flips
// a halted flag.
type MockTarget struct {
	Regs   map[string]uint64
	Mem    map[uint64]byte
	Halted bool
	Resets int
}

func NewMockTarget() *MockTarget {
	return &MockTarget{
		Regs: make(map[string]uint64),
		Mem:  make(map[uint64]byte),
	}
}

func (m *MockTarget) ReadReg(name string) (uint64, error) {
	v, ok := m.Regs[name]
	if !ok {
		return 0, fmt.Errorf("no such register %q", name)
	}
	return v, nil
}

func (m *MockTarget) WriteReg(name string, v uint64) error {
	m.Regs[name] = v
	return nil
}

func (m *MockTarget) ReadMem(addr uint64, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	buf := make([]byte, n)
	for k := range buf {
		buf[k] = m.Mem[addr+uint64(k)]
	}
	return buf, nil
}

func (m *MockTarget) WriteMem(addr uint64, data []byte) error {
	for k, b := range data {
		m.Mem[addr+uint64(k)] = b
	}
	return nil
}

func (m *MockTarget) Halt() error {
	m.Halted = true
	return nil
}

func (m *MockTarget) Resume() error {
	if !m.Halted {
		return fmt.Errorf("target is not halted")
	}
	m.Halted = false
	return nil
}

func (m *MockTarget) Reset() error {
	m.Resets++
	m.Halted = false
	return nil
}
