package host

import (
	"testing"

	"utcl/internal/interp"
)

func newTargetInterp(t *testing.T) (*interp.Interp, *MockTarget) {
	t.Helper()
	i := interp.New()
	t.Cleanup(i.Close)
	target := NewMockTarget()
	RegisterTarget(i, target)
	return i, target
}

func eval(t *testing.T, i *interp.Interp, script string) string {
	t.Helper()
	if fl := i.Eval(script); fl != interp.FlowNormal {
		code, line, sym := i.ErrorInfo()
		t.Fatalf("eval %q: flow %s (code %s, line %d, sym %q)", script, fl, code, line, sym)
	}
	return i.Result().String()
}

func TestRegReadWrite(t *testing.T) {
	i, target := newTargetInterp(t)
	target.Regs["pc"] = 0x8000
	if got := eval(t, i, "reg pc"); got != "0x8000" {
		t.Errorf("reg pc = %q, want 0x8000", got)
	}
	eval(t, i, "reg sp 0x20001000")
	if target.Regs["sp"] != 0x20001000 {
		t.Errorf("sp = %#x, want 0x20001000", target.Regs["sp"])
	}
}

func TestRegUnknownFails(t *testing.T) {
	i, _ := newTargetInterp(t)
	if fl := i.Eval("reg bogus"); fl != interp.FlowError {
		t.Fatalf("flow %s, want error", fl)
	}
	if code, _, _ := i.ErrorInfo(); code != interp.CodeGeneral {
		t.Errorf("code = %s, want %s", code, interp.CodeGeneral)
	}
}

func TestMemReadWrite(t *testing.T) {
	i, target := newTargetInterp(t)
	eval(t, i, "mem write 0x100 0xde 0xad 0xbe 0xef")
	if target.Mem[0x101] != 0xad {
		t.Errorf("mem[0x101] = %#x, want 0xad", target.Mem[0x101])
	}
	if got := eval(t, i, "mem read 0x100 4"); got != "0xde 0xad 0xbe 0xef" {
		t.Errorf("mem read = %q", got)
	}
}

func TestMemFromScriptExpression(t *testing.T) {
	i, target := newTargetInterp(t)
	eval(t, i, "set base 0x200; mem write [expr {$base + 4}] 0x7f")
	if target.Mem[0x204] != 0x7f {
		t.Errorf("mem[0x204] = %#x, want 0x7f", target.Mem[0x204])
	}
}

func TestTargetRunControl(t *testing.T) {
	i, target := newTargetInterp(t)
	eval(t, i, "target halt")
	if !target.Halted {
		t.Error("target not halted")
	}
	eval(t, i, "target resume")
	if target.Halted {
		t.Error("target still halted after resume")
	}
	eval(t, i, "target reset")
	if target.Resets != 1 {
		t.Errorf("resets = %d, want 1", target.Resets)
	}
}

func TestResumeWithoutHaltFails(t *testing.T) {
	i, _ := newTargetInterp(t)
	if fl := i.Eval("target resume"); fl != interp.FlowError {
		t.Fatalf("flow %s, want error", fl)
	}
}

func TestBringupScript(t *testing.T) {
	i, target := newTargetInterp(t)
	target.Regs["ctrl"] = 0
	script := `
target halt
proc setbit {name bit} {
  reg $name [expr {[reg $name] | (1 << $bit)}]
}
setbit ctrl 3
setbit ctrl 0
target resume`
	eval(t, i, script)
	if target.Regs["ctrl"] != 0b1001 {
		t.Errorf("ctrl = %#b, want 0b1001", target.Regs["ctrl"])
	}
}
