// runtime.go — functions, natives, classes and instances.
//
// The guest language has a fixed, small set of callable kinds, so they
// form a closed set behind one private callable interface rather than
// an open plugin hierarchy: *Fun (user closures), *Native (host
// builtins) and *Class (construction). All three share the interpreter
// call protocol: exact arity, arguments evaluated left-to-right by the
// caller, one Value out.
package lox

import "time"

// callable is the uniform invoke capability. Implementations signal
// runtime failures through the interpreter's panic channel; they never
// return errors.
type callable interface {
	arity() int
	invoke(ip *Interpreter, args []Value) Value
}

// asCallable extracts the callable payload of a Value, if any.
func asCallable(v Value) (callable, bool) {
	switch v.Tag {
	case VTFun:
		return v.Data.(*Fun), true
	case VTNative:
		return v.Data.(*Native), true
	case VTClass:
		return v.Data.(*Class), true
	default:
		return nil, false
	}
}

// --- user functions ---

// Fun is a closure: a function declaration plus the environment it
// captured at definition time. IsInitializer marks class init methods,
// whose calls always yield the instance.
type Fun struct {
	Decl          *FunStmt
	Closure       *Env
	IsInitializer bool
}

func FunVal(f *Fun) Value { return Value{Tag: VTFun, Data: f} }

func (f *Fun) arity() int { return len(f.Decl.Params) }

func (f *Fun) invoke(ip *Interpreter, args []Value) Value {
	env := NewEnv(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	c := ip.execBlock(f.Decl.Body, env)
	if f.IsInitializer {
		// init always yields the instance, even across a bare return
		this, _ := f.Closure.GetAt(0, "this")
		return this
	}
	if c.kind == compReturn {
		return c.value
	}
	return NilVal
}

// bind produces a fresh method value whose environment binds "this" to
// inst, enclosing the method's original closure. Every lookup binds
// anew; two lookups of the same method are distinct values.
func (f *Fun) bind(inst *Instance) *Fun {
	env := NewEnv(f.Closure)
	env.Define("this", Value{Tag: VTInstance, Data: inst})
	return &Fun{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// --- natives ---

// Native is a host-implemented callable with a fixed arity and no
// guest-visible body. Natives participate in the call protocol exactly
// like user functions.
type Native struct {
	Name   string
	ArityN int
	Impl   func(ip *Interpreter, args []Value) Value
}

func (n *Native) arity() int { return n.ArityN }

func (n *Native) invoke(ip *Interpreter, args []Value) Value { return n.Impl(ip, args) }

// registerNatives installs the standard natives into the global scope.
func registerNatives(globals *Env) {
	globals.Define("clock", Value{Tag: VTNative, Data: &Native{
		Name:   "clock",
		ArityN: 0,
		Impl: func(_ *Interpreter, _ []Value) Value {
			return Num(float32(time.Now().UnixMilli()) / 1000.0)
		},
	}})
}

// --- classes & instances ---

// Class is a runtime class value: name, optional superclass and the
// method table. Calling a class constructs an instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Fun
}

func ClassVal(c *Class) Value { return Value{Tag: VTClass, Data: c} }

// findMethod searches the class and its ancestors, nearest first, so
// an override shadows the inherited method.
func (c *Class) findMethod(name string) *Fun {
	for cur := c; cur != nil; cur = cur.Superclass {
		if m, ok := cur.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// arity of a class is its init method's arity, or 0 without one.
func (c *Class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

// invoke allocates a fresh instance and runs init (if any) bound to
// it, discarding init's own result; the construction expression always
// evaluates to the new instance.
func (c *Class) invoke(ip *Interpreter, args []Value) Value {
	inst := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.findMethod("init"); init != nil {
		init.bind(inst).invoke(ip, args)
	}
	return Value{Tag: VTInstance, Data: inst}
}

// Instance is a class instance. Its class reference is fixed at
// construction; only the field map mutates afterwards. Fields are not
// pre-declared — property sets create them.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// get reads a property: own fields first, then a freshly bound method
// from the class chain. Both missing is a runtime error, raised by the
// caller via ok=false.
func (in *Instance) get(name string) (Value, bool) {
	if v, ok := in.Fields[name]; ok {
		return v, true
	}
	if m := in.Class.findMethod(name); m != nil {
		return FunVal(m.bind(in)), true
	}
	return Value{}, false
}

// set writes directly into the field map, creating the field if
// absent.
func (in *Instance) set(name string, v Value) {
	in.Fields[name] = v
}
