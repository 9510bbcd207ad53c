package value

import (
	"strings"
)

// ObjectType identifies the variant of a heap object.
type ObjectType uint8

const (
	// ObjString is an immutable text object.
	ObjString ObjectType = iota + 1
)

func (t ObjectType) String() string {
	switch t {
	case ObjString:
		return "string"
	default:
		return "object"
	}
}

// Object is the open set of heap-allocated value variants. New variants
// (functions, closures) implement it without touching Value's scalar kinds.
type Object interface {
	Type() ObjectType
	// Equal compares with another object of any variant.
	Equal(other Object) bool
	// Clone returns an exclusively owned copy.
	Clone() Object
	String() string
}

// String is the string object. Text is kept byte for byte as written;
// equality compares bytes.
type String struct {
	text string
}

var _ Object = (*String)(nil)

// NewString creates a string object holding s.
func NewString(s string) *String {
	return &String{text: s}
}

// Concat returns a new string object holding a followed by b.
func Concat(a, b *String) *String {
	var sb strings.Builder
	sb.Grow(len(a.text) + len(b.text))
	sb.WriteString(a.text)
	sb.WriteString(b.text)
	return &String{text: sb.String()}
}

func (s *String) Type() ObjectType { return ObjString }

func (s *String) Equal(other Object) bool {
	o, ok := other.(*String)
	if !ok || s == nil || o == nil {
		return s == nil && o == nil && ok
	}
	return s.text == o.text
}

func (s *String) Clone() Object {
	return &String{text: s.text}
}

// Text returns the string contents.
func (s *String) Text() string { return s.text }

// Len returns the length in bytes.
func (s *String) Len() int { return len(s.text) }

func (s *String) String() string { return s.text }
