// Package value implements the runtime values shared by the constant pool,
// the operand stack and VM arithmetic.
package value

import (
	"math"
	"strconv"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	// KindNil represents the nil value. It is the zero Kind.
	KindNil Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindNumber represents a 64-bit float.
	KindNumber
	// KindObject represents a heap object (see Object).
	KindObject
)

// String returns a human-readable name for the value kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union: exactly one of nil, bool, number or object.
// The zero Value is nil.
type Value struct {
	kind Kind
	b    bool
	n    float64
	obj  Object // не nil, когда kind == KindObject
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps n.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Obj wraps an object. A nil object yields the nil value.
func Obj(o Object) Value {
	if o == nil {
		return Nil()
	}
	return Value{kind: KindObject, obj: o}
}

// Str is a shortcut for Obj(NewString(s)).
func Str(s string) Value { return Obj(NewString(s)) }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsString reports whether v holds a *String object.
func (v Value) IsString() bool {
	_, ok := v.AsString()
	return ok
}

// AsBool returns the boolean payload; false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsNumber returns the numeric payload; 0 for other kinds.
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// AsObject returns the object payload, or nil.
func (v Value) AsObject() Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// AsString returns the string object when v holds one.
func (v Value) AsString() (*String, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	s, ok := v.obj.(*String)
	return s, ok
}

// IsFalsey: nil и false ложны, всё остальное (включая 0) истинно.
func (v Value) IsFalsey() bool {
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return !v.b
	default:
		return false
	}
}

// Equal compares values structurally. Values of different kinds are never
// equal; numbers follow IEEE-754, so NaN is not equal to itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return false
}

// Clone returns a copy that shares no heap data with v.
func (v Value) Clone() Value {
	if v.kind == KindObject {
		return Value{kind: KindObject, obj: v.obj.Clone()}
	}
	return v
}

// TypeName names the dynamic type for diagnostics ("number", "string", ...).
func (v Value) TypeName() string {
	if v.kind == KindObject {
		return v.obj.Type().String()
	}
	return v.kind.String()
}

// String renders the value the way the VM prints results.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return FormatNumber(v.n)
	case KindObject:
		return v.obj.String()
	}
	return "<invalid>"
}

// FormatNumber prints the shortest decimal that round-trips, without an
// exponent: 3 → "3", 0.5 → "0.5", 1e21 → "1000000000000000000000".
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
