package passes

import "github.com/dxctools/dxlink/ir"

// instSimplify folds instructions with constant operands.
type instSimplify struct{}

// NewInstSimplifyPass creates the instruction simplification pass.
func NewInstSimplifyPass() ir.Pass { return &instSimplify{} }

func (*instSimplify) Name() string { return "instsimplify" }

func (p *instSimplify) Run(m *ir.Module) bool {
	changed := false
	for _, f := range m.Functions() {
		for _, bb := range f.Blocks() {
			for _, inst := range bb.Instructions() {
				bi, ok := inst.(*ir.BinaryInst)
				if !ok {
					continue
				}
				folded := foldBinary(bi)
				if folded == nil {
					continue
				}
				ir.ReplaceAllUsesWith(bi, folded)
				changed = true
			}
		}
	}
	return changed
}

func foldBinary(bi *ir.BinaryInst) ir.Value {
	ops := bi.Operands()
	x, okX := ops[0].(*ir.ConstantInt)
	y, okY := ops[1].(*ir.ConstantInt)
	if !okX || !okY {
		return nil
	}
	switch bi.Op() {
	case ir.Add:
		return ir.NewConstantInt(bi.Type(), x.Value()+y.Value())
	case ir.Sub:
		return ir.NewConstantInt(bi.Type(), x.Value()-y.Value())
	case ir.Mul:
		return ir.NewConstantInt(bi.Type(), x.Value()*y.Value())
	}
	return nil
}

// simplifyCFG merges straight-line block chains and drops unreachable
// blocks.
type simplifyCFG struct{}

// NewCFGSimplificationPass creates the CFG simplification pass.
func NewCFGSimplificationPass() ir.Pass { return &simplifyCFG{} }

func (*simplifyCFG) Name() string { return "simplifycfg" }

func (p *simplifyCFG) Run(m *ir.Module) bool {
	changed := false
	for _, f := range m.Functions() {
		if f.IsDeclaration() {
			continue
		}
		if mergeChains(f) {
			changed = true
		}
		if dropUnreachable(f) {
			changed = true
		}
	}
	return changed
}

// mergeChains folds "bb: ...; br succ" into bb when succ has no other
// predecessor.
func mergeChains(f *ir.Function) bool {
	changed := false
	for again := true; again; {
		again = false
		for _, bb := range f.Blocks() {
			br, ok := bb.Terminator().(*ir.BranchInst)
			if !ok || br.IsConditional() {
				continue
			}
			succ := br.Dests()[0]
			if succ == bb || succ == f.EntryBlock() || countPreds(f, succ) != 1 {
				continue
			}
			bb.Erase(br)
			for _, inst := range succ.Instructions() {
				moveInstruction(inst, bb)
			}
			f.RemoveBlock(succ)
			changed = true
			again = true
			break
		}
	}
	return changed
}

// moveInstruction reattaches inst's work at the end of to: the instruction
// is re-created there and every use of the original is redirected to the
// copy. The original is detached when its block is removed.
func moveInstruction(inst ir.Instruction, to *ir.BasicBlock) {
	clone := ir.CloneInstruction(inst, ir.ValueMap{}, nil)
	ir.ReplaceAllUsesWith(inst, clone)
	to.InsertAt(len(to.Instructions()), clone)
}

func countPreds(f *ir.Function, bb *ir.BasicBlock) int {
	n := 0
	for _, b := range f.Blocks() {
		br, ok := b.Terminator().(*ir.BranchInst)
		if !ok {
			continue
		}
		for _, d := range br.Dests() {
			if d == bb {
				n++
			}
		}
	}
	return n
}

func dropUnreachable(f *ir.Function) bool {
	reached := map[*ir.BasicBlock]bool{}
	var walk func(bb *ir.BasicBlock)
	walk = func(bb *ir.BasicBlock) {
		if bb == nil || reached[bb] {
			return
		}
		reached[bb] = true
		if br, ok := bb.Terminator().(*ir.BranchInst); ok {
			for _, d := range br.Dests() {
				walk(d)
			}
		}
	}
	walk(f.EntryBlock())

	changed := false
	for _, bb := range append([]*ir.BasicBlock(nil), f.Blocks()...) {
		if !reached[bb] {
			f.RemoveBlock(bb)
			changed = true
		}
	}
	return changed
}
