package ir

// Instruction is an operation inside a basic block.
type Instruction interface {
	User
	// ParentBlock returns the containing block, nil if detached.
	ParentBlock() *BasicBlock
	// ParentFunction returns the function owning the containing block.
	ParentFunction() *Function
	// IsTerminator reports whether the instruction ends its block.
	IsTerminator() bool
	// HasSideEffects reports whether the instruction writes memory, transfers
	// control, or calls code that might.
	HasSideEffects() bool

	setParent(bb *BasicBlock)
	dropUses()
}

type instBase struct {
	userBase
	parent *BasicBlock
}

func (i *instBase) ParentBlock() *BasicBlock { return i.parent }

func (i *instBase) ParentFunction() *Function {
	if i.parent == nil {
		return nil
	}
	return i.parent.parent
}

func (i *instBase) setParent(bb *BasicBlock) { i.parent = bb }
func (i *instBase) IsTerminator() bool       { return false }
func (i *instBase) HasSideEffects() bool     { return false }

// CallInst calls a function. Operand 0 is the callee, the rest are the
// arguments.
type CallInst struct {
	instBase
}

func newCall(callee Value, args []Value, name string) *CallInst {
	ci := &CallInst{}
	ci.typ = calleeReturnType(callee)
	ci.name = name
	ops := make([]Value, 0, len(args)+1)
	ops = append(ops, callee)
	ops = append(ops, args...)
	ci.initOperands(ci, ops)
	return ci
}

func calleeReturnType(callee Value) *Type {
	t := callee.Type()
	if t.IsPointer() {
		t = t.Elem()
	}
	return t.ReturnType()
}

// Callee returns the called value.
func (ci *CallInst) Callee() Value { return ci.operands[0] }

// CalledFunction returns the callee as a function, nil if the callee is not
// a direct function reference.
func (ci *CallInst) CalledFunction() *Function {
	f, _ := ci.operands[0].(*Function)
	return f
}

// Args returns the call arguments.
func (ci *CallInst) Args() []Value { return ci.operands[1:] }

// SetOperand replaces operand i.
func (ci *CallInst) SetOperand(i int, v Value) { ci.setOperand(ci, i, v) }

func (ci *CallInst) dropUses() { ci.dropOperands(ci) }

// HasSideEffects is conservative for calls: only calls to readnone nounwind
// callees are considered pure.
func (ci *CallInst) HasSideEffects() bool {
	f := ci.CalledFunction()
	if f == nil {
		return true
	}
	return !(f.HasFnAttr(AttrReadNone) && f.HasFnAttr(AttrNoUnwind))
}

// LoadInst reads through a pointer. Operand 0 is the address.
type LoadInst struct {
	instBase
}

func newLoad(ptr Value, name string) *LoadInst {
	li := &LoadInst{}
	li.typ = ptr.Type().Elem()
	li.name = name
	li.initOperands(li, []Value{ptr})
	return li
}

// Pointer returns the loaded address.
func (li *LoadInst) Pointer() Value { return li.operands[0] }

// SetOperand replaces operand i.
func (li *LoadInst) SetOperand(i int, v Value) { li.setOperand(li, i, v) }

func (li *LoadInst) dropUses() { li.dropOperands(li) }

// StoreInst writes through a pointer. Operand 0 is the value, operand 1 the
// address.
type StoreInst struct {
	instBase
}

func newStore(val, ptr Value) *StoreInst {
	si := &StoreInst{}
	si.typ = ptr.Type() // stores produce no value; keep the pointer type for printing
	si.initOperands(si, []Value{val, ptr})
	return si
}

// Value returns the stored value.
func (si *StoreInst) Value() Value { return si.operands[0] }

// Pointer returns the stored-to address.
func (si *StoreInst) Pointer() Value { return si.operands[1] }

// SetOperand replaces operand i.
func (si *StoreInst) SetOperand(i int, v Value) { si.setOperand(si, i, v) }

func (si *StoreInst) dropUses() { si.dropOperands(si) }

func (si *StoreInst) HasSideEffects() bool { return true }

// BinOp is the operation of a BinaryInst.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	FAdd
	FSub
	FMul
)

// BinaryInst is a two-operand arithmetic instruction.
type BinaryInst struct {
	instBase
	op BinOp
}

func newBinary(op BinOp, x, y Value, name string) *BinaryInst {
	bi := &BinaryInst{op: op}
	bi.typ = x.Type()
	bi.name = name
	bi.initOperands(bi, []Value{x, y})
	return bi
}

// Op returns the arithmetic operation.
func (bi *BinaryInst) Op() BinOp { return bi.op }

// SetOperand replaces operand i.
func (bi *BinaryInst) SetOperand(i int, v Value) { bi.setOperand(bi, i, v) }

func (bi *BinaryInst) dropUses() { bi.dropOperands(bi) }

// RetInst returns from a function. A void return has no operands.
type RetInst struct {
	instBase
}

func newRet(val Value) *RetInst {
	ri := &RetInst{}
	if val != nil {
		ri.typ = val.Type()
		ri.initOperands(ri, []Value{val})
	}
	return ri
}

// ReturnValue returns the returned value, nil for a void return.
func (ri *RetInst) ReturnValue() Value {
	if len(ri.operands) == 0 {
		return nil
	}
	return ri.operands[0]
}

// SetOperand replaces operand i.
func (ri *RetInst) SetOperand(i int, v Value) { ri.setOperand(ri, i, v) }

func (ri *RetInst) dropUses() { ri.dropOperands(ri) }

func (ri *RetInst) IsTerminator() bool   { return true }
func (ri *RetInst) HasSideEffects() bool { return true }

// BranchInst transfers control to another block. A conditional branch has
// the condition as operand 0.
type BranchInst struct {
	instBase
	dests []*BasicBlock
}

func newBr(dest *BasicBlock) *BranchInst {
	bi := &BranchInst{dests: []*BasicBlock{dest}}
	return bi
}

func newCondBr(cond Value, ifTrue, ifFalse *BasicBlock) *BranchInst {
	bi := &BranchInst{dests: []*BasicBlock{ifTrue, ifFalse}}
	bi.typ = cond.Type()
	bi.initOperands(bi, []Value{cond})
	return bi
}

// IsConditional reports whether the branch has a condition.
func (bi *BranchInst) IsConditional() bool { return len(bi.dests) == 2 }

// Cond returns the branch condition, nil for an unconditional branch.
func (bi *BranchInst) Cond() Value {
	if len(bi.operands) == 0 {
		return nil
	}
	return bi.operands[0]
}

// Dests returns the successor blocks.
func (bi *BranchInst) Dests() []*BasicBlock { return bi.dests }

// SetDest replaces successor i.
func (bi *BranchInst) SetDest(i int, bb *BasicBlock) { bi.dests[i] = bb }

// SetOperand replaces operand i.
func (bi *BranchInst) SetOperand(i int, v Value) { bi.setOperand(bi, i, v) }

func (bi *BranchInst) dropUses() { bi.dropOperands(bi) }

func (bi *BranchInst) IsTerminator() bool   { return true }
func (bi *BranchInst) HasSideEffects() bool { return true }
