package interp

import "testing"

func TestProcLocalsAreInvisibleAfterReturn(t *testing.T) {
	i := New()
	defer i.Close()
	if fl := i.Eval("proc p {} { set local 9 }; p"); fl != FlowNormal {
		t.Fatalf("flow %s", fl)
	}
	if fl := i.Eval("set local"); fl != FlowError {
		t.Fatalf("proc local leaked into the top scope")
	}
	if code, _, _ := i.ErrorInfo(); code != CodeVarUnknown {
		t.Errorf("code = %s, want %s", code, CodeVarUnknown)
	}
}

func TestGlobalAliasSharesStorage(t *testing.T) {
	script := `
set x 1
proc bump {} { global x; incr x }
bump
bump
set x`
	if got := run(t, script); got != "3" {
		t.Errorf("x = %q, want 3", got)
	}
}

func TestGlobalCreatesMissingRootVariable(t *testing.T) {
	script := `
proc init {} { global cfg; set cfg ready }
init
set cfg`
	if got := run(t, script); got != "ready" {
		t.Errorf("cfg = %q, want ready", got)
	}
}

func TestGlobalOverLocalIsNameCollision(t *testing.T) {
	code := runErr(t, "proc p {} { set x 1; global x }; p")
	if code != CodeVarName {
		t.Errorf("code = %s, want %s", code, CodeVarName)
	}
}

func TestArrayElements(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"set a(1) one; set a(1)", "one"},
		{"set a(1) one; set a(5) five; set a(5)", "five"},
		{"set a 0; set a(3) x; set a", "0"},
		{"set a(2) two; array length a", "3"},
		{"array length nothing", "0"},
		{"set a(0) z; set idx 0; set a($idx)", "z"},
		{"set a(0) x; set a(1) y; set a(2) z; array slice a 1 2", "y z"},
		{"set a 1; array exists a", "1"},
		{"array exists nope", "0"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}

func TestBadArrayIndexIsInvalidName(t *testing.T) {
	if code := runErr(t, "set a(bogus) 1"); code != CodeVarName {
		t.Errorf("code = %s, want %s", code, CodeVarName)
	}
}

func TestReadingMissingElementFails(t *testing.T) {
	if code := runErr(t, "set a(1) x; set a(9)"); code != CodeVarUnknown {
		t.Errorf("code = %s, want %s", code, CodeVarUnknown)
	}
}

func TestUnset(t *testing.T) {
	i := New()
	defer i.Close()
	if fl := i.Eval("set a 1; unset a"); fl != FlowNormal {
		t.Fatalf("flow %s", fl)
	}
	if v := i.Var("a"); v != nil {
		t.Errorf("a survived unset: %q", v.String())
	}
	if code := runErr(t, "unset never_set"); code != CodeVarUnknown {
		t.Errorf("code = %s, want %s", code, CodeVarUnknown)
	}
}

func TestUnsetAliasRemovesRootStorage(t *testing.T) {
	script := `
set g 1
proc drop {} { global g; unset g }
drop
info exists g`
	if got := run(t, script); got != "0" {
		t.Errorf("info exists g = %q, want 0", got)
	}
}

func TestInfoExists(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"info exists nope", "0"},
		{"set yes 1; info exists yes", "1"},
		{"set a(2) x; info exists a(2)", "1"},
		{"set a(2) x; info exists a(7)", "0"},
		{"info tclversion", "1.0"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}

func TestIncrAndAppend(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"set n 5; incr n", "6"},
		{"set n 5; incr n 10; set n", "15"},
		{"set n 5; incr n -2", "3"},
		{"set s ab; append s cd ef; set s", "abcdef"},
		{"append fresh xy; set fresh", "xy"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}

func TestIncrUndefinedFails(t *testing.T) {
	if code := runErr(t, "incr missing"); code != CodeVarUnknown {
		t.Errorf("code = %s, want %s", code, CodeVarUnknown)
	}
}
