package value

import (
	"strings"

	"utcl/internal/lexer"
	"utcl/internal/token"
)

// A list is not a distinct type: it is a Value whose elements are separated
// by single spaces, with any element containing whitespace or syntax
// characters wrapped in one layer of braces and the empty element encoded as
// {}. Splitting a list reuses the lexer's field rule, so whatever
// ListAppend encoded comes back out of ListIndex byte-for-byte.

func needsBrace(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\r\n;{}[]$\"\\#")
}

// ListAppend appends item as one element of list, quoting it as needed.
// It consumes item.
func ListAppend(list, item *Value) {
	if list.Len() > 0 {
		list.AppendByte(' ')
	}
	if needsBrace(item.String()) {
		list.AppendByte('{')
		list.Append(item)
		list.AppendByte('}')
	} else {
		list.Append(item)
	}
}

// split returns the byte ranges of the elements of list.
func split(list *Value) [][2]int {
	var items [][2]int
	lx := lexer.New(list.Bytes())
	from := -1
	to := 0
	for {
		t := lx.Next()
		switch t.Kind {
		case token.FIELD, token.PART:
			if from < 0 {
				from = t.From
			}
			to = t.To
			if t.Kind == token.FIELD {
				items = append(items, [2]int{from, to})
				from = -1
			}
		case token.POINT:
			// terminators inside a list are treated as separators
		default:
			if from >= 0 {
				items = append(items, [2]int{from, to})
			}
			return items
		}
	}
}

// elem copies one element out of list, removing the quoting layer that
// ListAppend added.
func elem(list *Value, r [2]int) *Value {
	raw := list.Bytes()[r[0]:r[1]]
	if len(raw) >= 2 && raw[0] == '{' && raw[len(raw)-1] == '}' {
		raw = raw[1 : len(raw)-1]
	}
	return FromBytes(raw)
}

func ListLength(list *Value) int {
	return len(split(list))
}

// ListIndex returns a copy of element i, or an empty Value when i is out of
// range.
func ListIndex(list *Value, i int) *Value {
	rs := split(list)
	if i < 0 || i >= len(rs) {
		return Empty()
	}
	return elem(list, rs[i])
}

// ListItems returns copies of every element of list.
func ListItems(list *Value) []*Value {
	rs := split(list)
	items := make([]*Value, len(rs))
	for i, r := range rs {
		items[i] = elem(list, r)
	}
	return items
}
