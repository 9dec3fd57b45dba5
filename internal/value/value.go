package value

import (
	"strconv"
)

// Value is the single unit of interpreter data: an owned, mutable,
// length-tracked byte buffer. Lists are Values whose bytes follow the
// brace/space quoting convention (see list.go).
//
// Values are never shared. A function documented as consuming a Value takes
// ownership of it and invalidates the caller's copy; anything a caller wants
// to retain must be an explicit Dup with its own backing storage.
type Value struct {
	b []byte
}

func Empty() *Value { return &Value{} }

func New(s string) *Value { return &Value{b: []byte(s)} }

// FromBytes copies p into a fresh Value.
func FromBytes(p []byte) *Value {
	b := make([]byte, len(p))
	copy(b, p)
	return &Value{b: b}
}

func FromInt(n int64) *Value {
	return &Value{b: strconv.AppendInt(nil, n, 10)}
}

// Dup returns an independent copy of v.
func Dup(v *Value) *Value {
	return FromBytes(v.b)
}

func (v *Value) Len() int { return len(v.b) }

func (v *Value) String() string { return string(v.b) }

// Bytes returns the backing storage, valid until the next mutation.
func (v *Value) Bytes() []byte { return v.b }

// Int parses the value as an integer (0x prefix selects hex) and returns 0
// when the text is not a number.
func (v *Value) Int() int64 {
	n, err := strconv.ParseInt(string(v.b), 0, 64)
	if err != nil {
		return 0
	}
	return n
}

func (v *Value) AppendString(s string) {
	v.b = append(v.b, s...)
}

func (v *Value) AppendByte(c byte) {
	v.b = append(v.b, c)
}

// Append appends o's bytes to v. It consumes o.
func (v *Value) Append(o *Value) {
	v.b = append(v.b, o.b...)
	o.b = nil
}

func (v *Value) Reset() {
	v.b = v.b[:0]
}
