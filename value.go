// value.go — the runtime Value model.
//
// Value is the universal result/argument type: a small tagged struct
// whose Data field holds the payload appropriate for Tag. Callable and
// object payloads (*Fun, *Native, *Class, *Instance) live in runtime.go.
package lox

import (
	"math"
	"strconv"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float32 — guest numbers are 32-bit floats
	VTStr                      // string
	VTFun                      // *Fun (user closure)
	VTNative                   // *Native (host builtin)
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier.
//
// Invariants:
//   - When Tag==VTNil, Data is nil.
//   - Callable tags hold pointers; two callables are never equal by
//     value, whatever they point at.
type Value struct {
	Tag  ValueTag
	Data any
}

// NilVal is the singleton guest nil.
var NilVal = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func Num(f float32) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// Truthy implements guest truthiness: nil and false are falsey, every
// other value (including 0 and "") is truthy.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// Equal implements guest ==. Structural for Bool/Num/Str, nil equals
// only nil; any comparison touching a function, class or instance is
// false (identity is deliberately not compared).
func (v Value) Equal(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case VTNil:
		return true
	case VTBool:
		return v.Data.(bool) == o.Data.(bool)
	case VTNum:
		return v.Data.(float32) == o.Data.(float32)
	case VTStr:
		return v.Data.(string) == o.Data.(string)
	default:
		return false
	}
}

// Display renders the value the way the print statement shows it.
func (v Value) Display() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNum(v.Data.(float32))
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return "<loxFunction " + v.Data.(*Fun).Decl.Name.Lexeme + ">"
	case VTNative:
		return "<loxNative " + v.Data.(*Native).Name + ">"
	case VTClass:
		return "<loxClass " + v.Data.(*Class).Name + ">"
	case VTInstance:
		return "<loxInstance " + v.Data.(*Instance).Class.Name + ">"
	default:
		return "<unknown>"
	}
}

// String mirrors Display so %v in debug output reads naturally.
func (v Value) String() string { return v.Display() }

// formatNum renders a number as plain decimal text, never exponent
// notation: the shortest decimal string that round-trips the 32-bit
// value. Infinities print as inf/-inf.
func formatNum(f float32) string {
	f64 := float64(f)
	switch {
	case math.IsInf(f64, 1):
		return "inf"
	case math.IsInf(f64, -1):
		return "-inf"
	case math.IsNaN(f64):
		return "NaN"
	}
	return strconv.FormatFloat(f64, 'f', -1, 32)
}
