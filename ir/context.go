package ir

// DiagnosticHandler receives errors emitted against a context. Clients
// install a handler to collect structured diagnostics; the default handler
// drops them.
type DiagnosticHandler func(err error)

// Context owns the type table shared by every module created from it and
// routes diagnostics emitted during linking and lowering.
//
// A Context is confined to a single goroutine.
type Context struct {
	types   map[string]*Type
	handler DiagnosticHandler
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{
		types: make(map[string]*Type, 32),
	}
}

// SetDiagnosticHandler installs the handler invoked by EmitError.
// Passing nil restores the drop-everything default.
func (c *Context) SetDiagnosticHandler(h DiagnosticHandler) {
	c.handler = h
}

// EmitError reports err to the installed diagnostic handler, if any.
func (c *Context) EmitError(err error) {
	if c.handler != nil {
		c.handler(err)
	}
}

func (c *Context) intern(kind TypeKind, bits uint32, elem, ret *Type, fields []*Type, length uint64, addrSpace uint32, name string) *Type {
	key := typeKey(kind, bits, elem, ret, fields, length, addrSpace, name)
	if t, ok := c.types[key]; ok {
		return t
	}
	t := &Type{
		kind:      kind,
		bits:      bits,
		elem:      elem,
		ret:       ret,
		fields:    fields,
		length:    length,
		addrSpace: addrSpace,
		name:      name,
	}
	c.types[key] = t
	return t
}

// VoidType returns the void type.
func (c *Context) VoidType() *Type {
	return c.intern(VoidTypeKind, 0, nil, nil, nil, 0, 0, "")
}

// IntType returns the integer type with the given bit width.
func (c *Context) IntType(bits uint32) *Type {
	return c.intern(IntTypeKind, bits, nil, nil, nil, 0, 0, "")
}

// FloatType returns the floating point type with the given bit width
// (16, 32 or 64).
func (c *Context) FloatType(bits uint32) *Type {
	return c.intern(FloatTypeKind, bits, nil, nil, nil, 0, 0, "")
}

// PointerType returns the pointer type to elem in the given address space.
func (c *Context) PointerType(elem *Type, addrSpace uint32) *Type {
	return c.intern(PointerTypeKind, 0, elem, nil, nil, 0, addrSpace, "")
}

// ArrayType returns the array type of n elements of elem.
func (c *Context) ArrayType(elem *Type, n uint64) *Type {
	return c.intern(ArrayTypeKind, 0, elem, nil, nil, n, 0, "")
}

// StructType returns the struct type with the given fields. A non-empty name
// makes the struct nominal: two named structs are the same type iff their
// names are equal.
func (c *Context) StructType(name string, fields ...*Type) *Type {
	return c.intern(StructTypeKind, 0, nil, nil, append([]*Type(nil), fields...), 0, 0, name)
}

// FunctionType returns the function type with the given return and
// parameter types.
func (c *Context) FunctionType(ret *Type, params ...*Type) *Type {
	return c.intern(FunctionTypeKind, 0, nil, ret, append([]*Type(nil), params...), 0, 0, "")
}
