// environment.go — the lexical scope chain.
//
// An Env is a single scope node: a name→Value table plus a parent
// link. Scopes are shared by pointer, never copied — several closures
// may hold the same node, and a mutation through one must be visible
// through all of them (the counter-closure contract). A node lives as
// long as any closure or active frame references it; Go's collector
// handles the rest.
package lox

import "fmt"

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame enclosing parent (which may be nil for
// the global scope).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this frame, shadowing any outer binding.
// Redefinition in the same frame overwrites.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding or fails.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fmt.Errorf("Undefined variable '%s'.", name)
}

// Assign updates the nearest existing binding. It never implicitly
// defines; assigning an undeclared name is an error.
func (e *Env) Assign(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, v)
	}
	return fmt.Errorf("Undefined variable '%s'.", name)
}

// ancestor walks dist parent links. The resolver guarantees the hop
// count is in range for resolved references.
func (e *Env) ancestor(dist int) *Env {
	cur := e
	for i := 0; i < dist && cur != nil; i++ {
		cur = cur.parent
	}
	return cur
}

// GetAt reads name exactly dist scopes up, per the resolution table.
func (e *Env) GetAt(dist int, name string) (Value, error) {
	a := e.ancestor(dist)
	if a == nil {
		return Value{}, fmt.Errorf("Undefined variable '%s'.", name)
	}
	if v, ok := a.table[name]; ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("Undefined variable '%s'.", name)
}

// AssignAt writes name exactly dist scopes up.
func (e *Env) AssignAt(dist int, name string, v Value) error {
	a := e.ancestor(dist)
	if a == nil {
		return fmt.Errorf("Undefined variable '%s'.", name)
	}
	a.table[name] = v
	return nil
}
