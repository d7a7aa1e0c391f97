package ir

// Builder creates instructions at a tracked insertion point.
type Builder struct {
	block *BasicBlock
	pos   int
}

// NewBuilder creates a builder with no insertion point set.
func NewBuilder() *Builder { return &Builder{} }

// SetInsertPointAtEnd positions the builder after the last instruction of bb.
func (b *Builder) SetInsertPointAtEnd(bb *BasicBlock) {
	b.block = bb
	b.pos = len(bb.insts)
}

// SetInsertPointAtFirstInsertion positions the builder at bb's first
// insertion point, so created instructions land at the top of the block.
func (b *Builder) SetInsertPointAtFirstInsertion(bb *BasicBlock) {
	b.block = bb
	b.pos = bb.FirstInsertionPt()
}

func (b *Builder) insert(inst Instruction) {
	b.block.insert(b.pos, inst)
	b.pos++
}

// CreateCall creates a call to callee with the given arguments.
func (b *Builder) CreateCall(callee Value, args ...Value) *CallInst {
	ci := newCall(callee, args, "")
	b.insert(ci)
	return ci
}

// CreateNamedCall creates a named call to callee.
func (b *Builder) CreateNamedCall(name string, callee Value, args ...Value) *CallInst {
	ci := newCall(callee, args, name)
	b.insert(ci)
	return ci
}

// CreateLoad creates a load through ptr.
func (b *Builder) CreateLoad(ptr Value, name string) *LoadInst {
	li := newLoad(ptr, name)
	b.insert(li)
	return li
}

// CreateStore creates a store of val through ptr.
func (b *Builder) CreateStore(val, ptr Value) *StoreInst {
	si := newStore(val, ptr)
	b.insert(si)
	return si
}

// CreateBinary creates a two-operand arithmetic instruction.
func (b *Builder) CreateBinary(op BinOp, x, y Value, name string) *BinaryInst {
	bi := newBinary(op, x, y, name)
	b.insert(bi)
	return bi
}

// CreateRet creates a value return.
func (b *Builder) CreateRet(val Value) *RetInst {
	ri := newRet(val)
	b.insert(ri)
	return ri
}

// CreateRetVoid creates a void return.
func (b *Builder) CreateRetVoid() *RetInst {
	ri := newRet(nil)
	b.insert(ri)
	return ri
}

// CreateBr creates an unconditional branch to dest.
func (b *Builder) CreateBr(dest *BasicBlock) *BranchInst {
	bi := newBr(dest)
	b.insert(bi)
	return bi
}

// CreateCondBr creates a conditional branch on cond.
func (b *Builder) CreateCondBr(cond Value, ifTrue, ifFalse *BasicBlock) *BranchInst {
	bi := newCondBr(cond, ifTrue, ifFalse)
	b.insert(bi)
	return bi
}
