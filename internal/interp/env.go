package interp

import (
	"strconv"
	"strings"

	"utcl/internal/value"
)

// variable owns a small dynamic array of element Values: element 0 for
// scalars, element n for name(n) access. The element array only ever grows.
// An alias variable owns no storage; lookups forward to the root scope.
type variable struct {
	elems []*value.Value
	alias bool
}

// scope is one level of variable bindings plus the source-position context
// of the statement it is currently executing. Scopes live in a stack owned
// by the interpreter; the parent of scope n is scope n-1 and scope 0 is the
// root.
type scope struct {
	vars map[string]*variable
	stmt int // offset of the executing statement within its buffer
	base int // offset of that buffer within the top-level script
}

func newScope() *scope {
	return &scope{vars: make(map[string]*variable)}
}

func (i *Interp) scope() *scope { return i.scopes[len(i.scopes)-1] }

func (i *Interp) root() *scope { return i.scopes[0] }

func (i *Interp) pushScope() { i.scopes = append(i.scopes, newScope()) }

// popScope destroys the current scope. Owned variables die with it; storage
// reached through a global alias stays in the root scope.
func (i *Interp) popScope() { i.scopes = i.scopes[:len(i.scopes)-1] }

// splitIndex splits "name(idx)" into base name and element index; a bare
// name selects element 0. A non-integer index is an invalid variable name.
func splitIndex(name string) (string, int, bool) {
	open := strings.IndexByte(name, '(')
	if open < 0 {
		return name, 0, true
	}
	if !strings.HasSuffix(name, ")") {
		return name, 0, false
	}
	idx := strings.TrimSpace(name[open+1 : len(name)-1])
	if idx == "" {
		return name[:open], 0, true
	}
	n, err := strconv.ParseInt(idx, 0, 32)
	if err != nil || n < 0 {
		return name[:open], 0, false
	}
	return name[:open], int(n), true
}

// findVar resolves a base name in the current scope, following a global
// alias to root storage. It creates nothing.
func (i *Interp) findVar(base string) *variable {
	v, ok := i.scope().vars[base]
	if !ok {
		return nil
	}
	if v.alias {
		return i.root().vars[base]
	}
	return v
}

// lookupOrCreate resolves base, creating an empty scalar when it is
// missing. This is the create-for-write path used by set and friends.
func (i *Interp) lookupOrCreate(base string) *variable {
	if v := i.findVar(base); v != nil {
		return v
	}
	fresh := &variable{elems: []*value.Value{value.Empty()}}
	if v, ok := i.scope().vars[base]; ok && v.alias {
		// alias placeholder whose root storage was unset meanwhile
		i.root().vars[base] = fresh
	} else {
		i.scope().vars[base] = fresh
	}
	return fresh
}

// readVar returns a copy of element idx of the named variable. Reading an
// undeclared variable or element is an error.
func (i *Interp) readVar(name string) (*value.Value, Flow) {
	base, idx, ok := splitIndex(name)
	if !ok {
		return nil, i.Fail(CodeVarName, name)
	}
	v := i.findVar(base)
	if v == nil {
		return nil, i.Fail(CodeVarUnknown, base)
	}
	if idx >= len(v.elems) {
		return nil, i.Fail(CodeVarUnknown, name)
	}
	return value.Dup(v.elems[idx]), FlowNormal
}

// writeVar stores val as element idx of the named variable, creating the
// variable and growing its element array as needed. It consumes val.
func (i *Interp) writeVar(name string, val *value.Value) Flow {
	base, idx, ok := splitIndex(name)
	if !ok {
		return i.Fail(CodeVarName, name)
	}
	v := i.lookupOrCreate(base)
	for len(v.elems) <= idx {
		v.elems = append(v.elems, value.Empty())
	}
	v.elems[idx] = val
	return FlowNormal
}

// existsVar reports whether the named variable (and element) is defined.
func (i *Interp) existsVar(name string) bool {
	base, idx, ok := splitIndex(name)
	if !ok {
		return false
	}
	v := i.findVar(base)
	return v != nil && idx < len(v.elems)
}

// unsetVar removes the variable from the scope it resolves in. Removing an
// alias removes the root storage as well as the local placeholder.
func (i *Interp) unsetVar(name string) Flow {
	base, _, ok := splitIndex(name)
	if !ok {
		return i.Fail(CodeVarName, name)
	}
	s := i.scope()
	v, here := s.vars[base]
	if !here {
		return i.Fail(CodeVarUnknown, base)
	}
	if v.alias {
		delete(i.root().vars, base)
	}
	delete(s.vars, base)
	return FlowNormal
}

// declareGlobal aliases name into the current scope so reads and writes hit
// root storage. Shadowing an existing local is a name collision.
func (i *Interp) declareGlobal(name string) Flow {
	s := i.scope()
	if s == i.root() {
		return FlowNormal
	}
	if v, ok := s.vars[name]; ok && !v.alias {
		return i.Fail(CodeVarName, name)
	}
	if _, ok := i.root().vars[name]; !ok {
		i.root().vars[name] = &variable{elems: []*value.Value{value.Empty()}}
	}
	s.vars[name] = &variable{alias: true}
	return FlowNormal
}
