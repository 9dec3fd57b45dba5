package interp

import "testing"

func TestStringSubcommands(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"string length hello", "5"},
		{"string length {}", "0"},
		{"string tolower HeLLo", "hello"},
		{"string toupper HeLLo", "HELLO"},
		{"string trim {  padded  }", "padded"},
		{"string trim xxcorexx x", "core"},
		{"string trimleft {  padded  }", "padded  "},
		{"string trimright {  padded  }", "  padded"},
		{"string compare abc abd", "-1"},
		{"string compare abc abc", "0"},
		{"string compare abd abc", "1"},
		{"string equal abc abc", "1"},
		{"string equal abc abd", "0"},
		{"string first cd abcdef", "2"},
		{"string first zz abcdef", "-1"},
		{"string last ab abcabc", "3"},
		{"string index abcdef 2", "c"},
		{"string index abcdef 99", ""},
		{"string match {r[0-9]*} r12", "1"},
		{"string match {r[0-9]*} sp", "0"},
		{"string range abcdef 1 3", "bcd"},
		{"string range abcdef 4 99", "ef"},
		{"string replace abcdef 1 3 X", "aXef"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"format {reg=%d} 42", "reg=42"},
		{"format %x 255", "ff"},
		{"format %X 255", "FF"},
		{"format %o 8", "10"},
		{"format %c 65", "A"},
		{"format {%s:%d} addr 16", "addr:16"},
		{"format %08x 4096", "00001000"},
		{"format {%5d} 42", "   42"},
		{"format {%-5d|} 42", "42   |"},
		{"format {100%%} ", "100%"},
		{"format %u -1", "18446744073709551615"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	tests := []struct {
		script string
		want   string
	}{
		{"scan {addr 0200} {addr %x} v; set v", "512"},
		{"scan 42 %d v; set v", "42"},
		{"scan -17 %d v; set v", "-17"},
		{"scan A %c v; set v", "65"},
		{"scan junk %d v", "0"},
	}
	for _, tt := range tests {
		if got := run(t, tt.script); got != tt.want {
			t.Errorf("eval %q = %q, want %q", tt.script, got, tt.want)
		}
	}
}
