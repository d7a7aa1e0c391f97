package ir

// Constant is a value known at compile time. Globals and functions are
// constants (their addresses are fixed), as are literals and the constant
// expressions built over them.
type Constant interface {
	Value
	constant()
}

// ConstantInt is an integer literal.
type ConstantInt struct {
	valueBase
	value int64
}

// NewConstantInt creates an integer literal of the given type.
func NewConstantInt(typ *Type, value int64) *ConstantInt {
	return &ConstantInt{valueBase: valueBase{typ: typ}, value: value}
}

// Value returns the literal value.
func (c *ConstantInt) Value() int64 { return c.value }

func (c *ConstantInt) constant() {}

// ConstantFloat is a floating point literal.
type ConstantFloat struct {
	valueBase
	value float64
}

// NewConstantFloat creates a float literal of the given type.
func NewConstantFloat(typ *Type, value float64) *ConstantFloat {
	return &ConstantFloat{valueBase: valueBase{typ: typ}, value: value}
}

// Value returns the literal value.
func (c *ConstantFloat) Value() float64 { return c.value }

func (c *ConstantFloat) constant() {}

// ConstantPointerNull is the null pointer of a given pointer type.
type ConstantPointerNull struct {
	valueBase
}

// NewConstantPointerNull creates a null pointer constant.
func NewConstantPointerNull(ptrType *Type) *ConstantPointerNull {
	return &ConstantPointerNull{valueBase: valueBase{typ: ptrType}}
}

func (c *ConstantPointerNull) constant() {}

// ConstantAggregateZero is the zero initializer of an aggregate type.
type ConstantAggregateZero struct {
	valueBase
}

// NewConstantAggregateZero creates a zero aggregate of the given type.
func NewConstantAggregateZero(typ *Type) *ConstantAggregateZero {
	return &ConstantAggregateZero{valueBase: valueBase{typ: typ}}
}

func (c *ConstantAggregateZero) constant() {}

// ConstantStruct is a struct literal. Its fields are operands, so functions
// and globals referenced by a struct literal see it in their use lists.
type ConstantStruct struct {
	userBase
}

// NewConstantStruct creates a struct literal with the given field values.
func NewConstantStruct(typ *Type, fields ...Constant) *ConstantStruct {
	c := &ConstantStruct{}
	c.typ = typ
	ops := make([]Value, len(fields))
	for i, f := range fields {
		ops[i] = f
	}
	c.initOperands(c, ops)
	return c
}

// Field returns field i as a constant.
func (c *ConstantStruct) Field(i int) Constant { return c.operands[i].(Constant) }

// SetOperand replaces field i.
func (c *ConstantStruct) SetOperand(i int, v Value) { c.setOperand(c, i, v) }

func (c *ConstantStruct) constant() {}

// ConstantArray is an array literal with constant elements.
type ConstantArray struct {
	userBase
}

// NewConstantArray creates an array literal with the given elements.
func NewConstantArray(typ *Type, elems ...Constant) *ConstantArray {
	c := &ConstantArray{}
	c.typ = typ
	ops := make([]Value, len(elems))
	for i, e := range elems {
		ops[i] = e
	}
	c.initOperands(c, ops)
	return c
}

// Elem returns element i as a constant.
func (c *ConstantArray) Elem(i int) Constant { return c.operands[i].(Constant) }

// NumElems returns the element count.
func (c *ConstantArray) NumElems() int { return len(c.operands) }

// SetOperand replaces element i.
func (c *ConstantArray) SetOperand(i int, v Value) { c.setOperand(c, i, v) }

func (c *ConstantArray) constant() {}

// ConstantExprOp is the operation of a constant expression.
type ConstantExprOp uint8

const (
	// BitCastExpr reinterprets a constant at another type.
	BitCastExpr ConstantExprOp = iota
	// GEPExpr computes an address into a global aggregate.
	GEPExpr
)

// ConstantExpr is an address computation over constants. Instructions that
// reference a global through a cast or an element address go through one of
// these, so use walks must descend into them.
type ConstantExpr struct {
	userBase
	op ConstantExprOp
}

// NewConstantExpr creates a constant expression of the given operation and
// result type over the given constant operands.
func NewConstantExpr(op ConstantExprOp, typ *Type, args ...Constant) *ConstantExpr {
	c := &ConstantExpr{op: op}
	c.typ = typ
	ops := make([]Value, len(args))
	for i, a := range args {
		ops[i] = a
	}
	c.initOperands(c, ops)
	return c
}

// Op returns the expression operation.
func (c *ConstantExpr) Op() ConstantExprOp { return c.op }

// SetOperand replaces operand i.
func (c *ConstantExpr) SetOperand(i int, v Value) { c.setOperand(c, i, v) }

func (c *ConstantExpr) constant() {}
