package ir

// Linkage controls symbol visibility across modules.
type Linkage uint8

const (
	// ExternalLinkage symbols are visible to other modules under their
	// authored name.
	ExternalLinkage Linkage = iota
	// InternalLinkage symbols are private to their module and may be renamed
	// freely.
	InternalLinkage
)

// AttrKind is a function attribute.
type AttrKind uint8

const (
	AttrAlwaysInline AttrKind = iota
	AttrNoDuplicate
	AttrNoReturn
	AttrNoUnwind
	AttrReadNone
	AttrReadOnly

	numAttrKinds
)

var attrNames = [numAttrKinds]string{
	AttrAlwaysInline: "alwaysinline",
	AttrNoDuplicate:  "noduplicate",
	AttrNoReturn:     "noreturn",
	AttrNoUnwind:     "nounwind",
	AttrReadNone:     "readnone",
	AttrReadOnly:     "readonly",
}

// String returns the attribute's textual name.
func (a AttrKind) String() string {
	if a < numAttrKinds {
		return attrNames[a]
	}
	return "attr?"
}

// Argument is a formal parameter of a function.
type Argument struct {
	valueBase
	parent *Function
	index  int
}

// Parent returns the owning function.
func (a *Argument) Parent() *Function { return a.parent }

// Index returns the parameter position.
func (a *Argument) Index() int { return a.index }

// Function is a callable symbol. A function with no blocks is a declaration.
type Function struct {
	valueBase
	parent *Module
	args   []*Argument
	blocks []*BasicBlock
	attrs  [numAttrKinds]bool
	link   Linkage
}

// NewFunction creates a function in m with the given type, linkage and name.
// The function starts as a declaration; adding a block makes it a definition.
func NewFunction(m *Module, fty *Type, link Linkage, name string) *Function {
	f := &Function{
		valueBase: valueBase{typ: fty, name: name},
		parent:    m,
		link:      link,
	}
	params := fty.Params()
	f.args = make([]*Argument, len(params))
	for i, pt := range params {
		f.args[i] = &Argument{
			valueBase: valueBase{typ: pt},
			parent:    f,
			index:     i,
		}
	}
	m.addFunction(f)
	return f
}

func (f *Function) constant() {}

// Parent returns the owning module.
func (f *Function) Parent() *Module { return f.parent }

// FunctionType returns the function's type.
func (f *Function) FunctionType() *Type { return f.typ }

// Linkage returns the function's linkage.
func (f *Function) Linkage() Linkage { return f.link }

// SetLinkage sets the function's linkage.
func (f *Function) SetLinkage(l Linkage) { f.link = l }

// SetName renames the function, updating the module's symbol table.
func (f *Function) SetName(name string) {
	if f.parent != nil {
		f.parent.renameFunction(f, name)
	}
	f.name = name
}

// Args returns the formal parameters.
func (f *Function) Args() []*Argument { return f.args }

// Blocks returns the body blocks in layout order.
func (f *Function) Blocks() []*BasicBlock { return f.blocks }

// EntryBlock returns the first block, or nil for a declaration.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool { return len(f.blocks) == 0 }

// AddFnAttr sets a function attribute.
func (f *Function) AddFnAttr(a AttrKind) { f.attrs[a] = true }

// RemoveFnAttr clears a function attribute.
func (f *Function) RemoveFnAttr(a AttrKind) { f.attrs[a] = false }

// HasFnAttr reports whether a function attribute is set.
func (f *Function) HasFnAttr(a AttrKind) bool { return f.attrs[a] }

// Attributes returns the set attributes in declaration order.
func (f *Function) Attributes() []AttrKind {
	var out []AttrKind
	for a := AttrKind(0); a < numAttrKinds; a++ {
		if f.attrs[a] {
			out = append(out, a)
		}
	}
	return out
}

// CopyAttributesFrom copies the attribute set of src onto f.
func (f *Function) CopyAttributesFrom(src *Function) {
	f.attrs = src.attrs
}

// DeleteBody erases every instruction and block, detaching all operand
// uses, and turns the function back into a declaration.
func (f *Function) DeleteBody() {
	for _, bb := range f.blocks {
		for _, inst := range bb.insts {
			inst.dropUses()
			inst.setParent(nil)
		}
		bb.insts = nil
		bb.parent = nil
	}
	f.blocks = nil
}

// RemoveBlock unlinks bb from the function, detaching the uses of its
// instructions.
func (f *Function) RemoveBlock(bb *BasicBlock) {
	for i, b := range f.blocks {
		if b == bb {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			break
		}
	}
	for _, inst := range bb.insts {
		inst.dropUses()
		inst.setParent(nil)
	}
	bb.insts = nil
	bb.parent = nil
}

// RemoveFromParent unlinks the function from its module.
func (f *Function) RemoveFromParent() {
	if f.parent != nil {
		f.parent.removeFunction(f)
		f.parent = nil
	}
}

// BasicBlock is a straight-line instruction sequence ending in a terminator.
type BasicBlock struct {
	name   string
	parent *Function
	insts  []Instruction
}

// NewBlock appends a new block named name to f.
func NewBlock(f *Function, name string) *BasicBlock {
	bb := &BasicBlock{name: name, parent: f}
	f.blocks = append(f.blocks, bb)
	return bb
}

// Name returns the block label.
func (bb *BasicBlock) Name() string { return bb.name }

// Parent returns the owning function.
func (bb *BasicBlock) Parent() *Function { return bb.parent }

// Instructions returns the block's instructions in order.
func (bb *BasicBlock) Instructions() []Instruction { return bb.insts }

// Terminator returns the block's final instruction if it is a terminator,
// nil otherwise.
func (bb *BasicBlock) Terminator() Instruction {
	if len(bb.insts) == 0 {
		return nil
	}
	last := bb.insts[len(bb.insts)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// FirstInsertionPt returns the index at which non-phi instructions may be
// inserted. The IR has no phi nodes, so this is always 0.
func (bb *BasicBlock) FirstInsertionPt() int { return 0 }

// InsertAt places a detached instruction at position i.
func (bb *BasicBlock) InsertAt(i int, inst Instruction) {
	bb.insert(i, inst)
}

func (bb *BasicBlock) insert(i int, inst Instruction) {
	bb.insts = append(bb.insts, nil)
	copy(bb.insts[i+1:], bb.insts[i:])
	bb.insts[i] = inst
	inst.setParent(bb)
}

// Erase removes inst from the block and detaches its operand uses.
func (bb *BasicBlock) Erase(inst Instruction) {
	for i, in := range bb.insts {
		if in == inst {
			bb.insts = append(bb.insts[:i], bb.insts[i+1:]...)
			inst.dropUses()
			inst.setParent(nil)
			return
		}
	}
}
