package interp

import "testing"

func TestWhileLoop(t *testing.T) {
	if got := run(t, "set i 0; while {$i < 3} {incr i}; set i"); got != "3" {
		t.Errorf("i = %q, want 3", got)
	}
}

func TestWhileBreak(t *testing.T) {
	script := "set i 0; while {1} { incr i; if {$i >= 5} { break } }; set i"
	if got := run(t, script); got != "5" {
		t.Errorf("i = %q, want 5", got)
	}
}

func TestWhileContinue(t *testing.T) {
	script := `
set i 0
set even 0
while {$i < 10} {
  incr i
  if {$i % 2} { continue }
  incr even
}
set even`
	if got := run(t, script); got != "5" {
		t.Errorf("even = %q, want 5", got)
	}
}

func TestForLoop(t *testing.T) {
	script := "set sum 0; for {set i 1} {$i <= 4} {incr i} { incr sum $i }; set sum"
	if got := run(t, script); got != "10" {
		t.Errorf("sum = %q, want 10", got)
	}
}

func TestForBreakSkipsPostStep(t *testing.T) {
	// break leaves the loop before the post-step of that iteration runs
	script := "for {set i 0} {$i < 10} {incr i} { if {$i == 3} { break } }; set i"
	if got := run(t, script); got != "3" {
		t.Errorf("i = %q, want 3", got)
	}
}

func TestForeach(t *testing.T) {
	script := "set sum 0; foreach n {1 2 3 4} { incr sum $n }; set sum"
	if got := run(t, script); got != "10" {
		t.Errorf("sum = %q, want 10", got)
	}
}

func TestForeachBreak(t *testing.T) {
	script := "set last {}; foreach n {a b stop c} { if {[string equal $n stop]} { break }; set last $n }; set last"
	if got := run(t, script); got != "b" {
		t.Errorf("last = %q, want b", got)
	}
}

func TestIfElseifElse(t *testing.T) {
	tests := []struct {
		n    string
		want string
	}{
		{"1", "one"},
		{"2", "two"},
		{"9", "many"},
	}
	for _, tt := range tests {
		script := "set n " + tt.n + `
if {$n == 1} { set r one } elseif {$n == 2} { set r two } else { set r many }
set r`
		if got := run(t, script); got != tt.want {
			t.Errorf("n=%s: r = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestIfNoBranchTaken(t *testing.T) {
	if got := run(t, "if {0} { set r yes }"); got != "" {
		t.Errorf("result = %q, want empty", got)
	}
}

func TestSwitch(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"r0", "register"},
		{"r15", "register"},
		{"sp", "stack"},
		{"lr", "stack"},
		{"flash", "other"},
	}
	for _, tt := range tests {
		src := "set subject " + tt.subject + "\n" +
			"switch $subject {\n" +
			"  r* { set r register }\n" +
			"  sp -\n" +
			"  lr { set r stack }\n" +
			"  default { set r other }\n" +
			"}\nset r"
		if got := run(t, src); got != tt.want {
			t.Errorf("switch %s = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func TestSwitchNoMatch(t *testing.T) {
	if got := run(t, "switch zz { a { set r 1 } b { set r 2 } }"); got != "" {
		t.Errorf("result = %q, want empty", got)
	}
}

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pat, s string
		want   bool
	}{
		{"*", "", true},
		{"*", "anything", true},
		{"r?", "r0", true},
		{"r?", "r10", false},
		{"r[0-9]", "r5", true},
		{"r[0-9]", "rx", false},
		{"mem_*_ok", "mem_read_ok", true},
		{"a*b*c", "axxbyyc", true},
		{"a*b*c", "axxbyy", false},
		{`\*`, "*", true},
		{`\*`, "x", false},
	}
	for _, tt := range tests {
		if got := globMatch(tt.pat, tt.s); got != tt.want {
			t.Errorf("globMatch(%q, %q) = %v, want %v", tt.pat, tt.s, got, tt.want)
		}
	}
}
