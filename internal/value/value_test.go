package value

import "testing"

func TestFromIntAndBack(t *testing.T) {
	tests := []struct {
		n    int64
		text string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
	}
	for _, tt := range tests {
		v := FromInt(tt.n)
		if v.String() != tt.text {
			t.Errorf("FromInt(%d).String() = %q, want %q", tt.n, v.String(), tt.text)
		}
		if v.Int() != tt.n {
			t.Errorf("FromInt(%d).Int() = %d", tt.n, v.Int())
		}
	}
}

func TestIntParsesHex(t *testing.T) {
	if n := New("0x20").Int(); n != 32 {
		t.Errorf("0x20 parsed as %d, want 32", n)
	}
	if n := New("junk").Int(); n != 0 {
		t.Errorf("non-number parsed as %d, want 0", n)
	}
}

func TestDupIsIndependent(t *testing.T) {
	a := New("abc")
	b := Dup(a)
	a.AppendString("def")
	if b.String() != "abc" {
		t.Errorf("dup changed with the original: %q", b.String())
	}
	if a.String() != "abcdef" {
		t.Errorf("original = %q, want abcdef", a.String())
	}
}

func TestAppendConsumes(t *testing.T) {
	a := New("foo")
	b := New("bar")
	a.Append(b)
	if a.String() != "foobar" {
		t.Errorf("append result = %q", a.String())
	}
	if b.Len() != 0 {
		t.Errorf("consumed value still holds %d bytes", b.Len())
	}
}
