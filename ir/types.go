package ir

import (
	"strconv"
	"strings"
)

// TypeKind discriminates the Type variants.
type TypeKind uint8

const (
	VoidTypeKind TypeKind = iota
	IntTypeKind
	FloatTypeKind
	PointerTypeKind
	ArrayTypeKind
	StructTypeKind
	FunctionTypeKind
)

// Type is an interned IR type. Two structurally identical types created from
// the same Context are pointer-equal, so == is a valid equality test.
type Type struct {
	kind      TypeKind
	bits      uint32
	elem      *Type
	ret       *Type
	fields    []*Type
	length    uint64
	addrSpace uint32
	name      string
}

// Kind returns the type's kind.
func (t *Type) Kind() TypeKind { return t.kind }

// IsVoid reports whether t is the void type.
func (t *Type) IsVoid() bool { return t.kind == VoidTypeKind }

// IsInteger reports whether t is an integer type.
func (t *Type) IsInteger() bool { return t.kind == IntTypeKind }

// IsFloat reports whether t is a floating point type.
func (t *Type) IsFloat() bool { return t.kind == FloatTypeKind }

// IsPointer reports whether t is a pointer type.
func (t *Type) IsPointer() bool { return t.kind == PointerTypeKind }

// IsFunction reports whether t is a function type.
func (t *Type) IsFunction() bool { return t.kind == FunctionTypeKind }

// Bits returns the bit width of an integer or float type, 0 otherwise.
func (t *Type) Bits() uint32 {
	if t.kind == IntTypeKind || t.kind == FloatTypeKind {
		return t.bits
	}
	return 0
}

// Elem returns the element type of a pointer or array type.
func (t *Type) Elem() *Type { return t.elem }

// AddrSpace returns the address space of a pointer type.
func (t *Type) AddrSpace() uint32 { return t.addrSpace }

// Len returns the element count of an array type.
func (t *Type) Len() uint64 { return t.length }

// StructName returns the name of a named struct type, "" otherwise.
func (t *Type) StructName() string {
	if t.kind == StructTypeKind {
		return t.name
	}
	return ""
}

// Fields returns the field types of a struct type.
func (t *Type) Fields() []*Type { return t.fields }

// ReturnType returns the return type of a function type.
func (t *Type) ReturnType() *Type { return t.ret }

// Params returns the parameter types of a function type.
func (t *Type) Params() []*Type { return t.fields }

// String renders the type in an LLVM-flavored notation. Used in diagnostics
// and metadata emission.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.kind {
	case VoidTypeKind:
		b.WriteString("void")
	case IntTypeKind:
		b.WriteByte('i')
		b.WriteString(strconv.FormatUint(uint64(t.bits), 10))
	case FloatTypeKind:
		switch t.bits {
		case 16:
			b.WriteString("half")
		case 32:
			b.WriteString("float")
		default:
			b.WriteString("double")
		}
	case PointerTypeKind:
		t.elem.write(b)
		if t.addrSpace != 0 {
			b.WriteString(" addrspace(")
			b.WriteString(strconv.FormatUint(uint64(t.addrSpace), 10))
			b.WriteByte(')')
		}
		b.WriteByte('*')
	case ArrayTypeKind:
		b.WriteByte('[')
		b.WriteString(strconv.FormatUint(t.length, 10))
		b.WriteString(" x ")
		t.elem.write(b)
		b.WriteByte(']')
	case StructTypeKind:
		if t.name != "" {
			b.WriteByte('%')
			b.WriteString(t.name)
			return
		}
		b.WriteString("{ ")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			f.write(b)
		}
		b.WriteString(" }")
	case FunctionTypeKind:
		t.ret.write(b)
		b.WriteString(" (")
		for i, p := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b)
		}
		b.WriteByte(')')
	}
}

// typeKey builds the interning key for a type. Structurally identical types
// produce the same key; named structs are nominal and keyed by name alone.
func typeKey(kind TypeKind, bits uint32, elem, ret *Type, fields []*Type, length uint64, addrSpace uint32, name string) string {
	var b strings.Builder
	switch kind {
	case VoidTypeKind:
		return "void"
	case IntTypeKind:
		b.WriteString("int:")
		b.WriteString(strconv.FormatUint(uint64(bits), 10))
	case FloatTypeKind:
		b.WriteString("float:")
		b.WriteString(strconv.FormatUint(uint64(bits), 10))
	case PointerTypeKind:
		b.WriteString("ptr:")
		b.WriteString(strconv.FormatUint(uint64(addrSpace), 10))
		b.WriteByte(':')
		b.WriteString(elem.String())
	case ArrayTypeKind:
		b.WriteString("array:")
		b.WriteString(strconv.FormatUint(length, 10))
		b.WriteByte(':')
		b.WriteString(elem.String())
	case StructTypeKind:
		if name != "" {
			b.WriteString("struct:%")
			b.WriteString(name)
			break
		}
		b.WriteString("struct:")
		for _, f := range fields {
			b.WriteString(f.String())
			b.WriteByte(',')
		}
	case FunctionTypeKind:
		b.WriteString("fn:")
		b.WriteString(ret.String())
		b.WriteByte('(')
		for _, p := range fields {
			b.WriteString(p.String())
			b.WriteByte(',')
		}
		b.WriteByte(')')
	}
	return b.String()
}
