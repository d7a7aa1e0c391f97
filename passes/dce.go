package passes

import (
	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
)

// dce removes side-effect-free instructions whose results are unused.
type dce struct{}

// NewDeadCodeEliminationPass creates the instruction DCE pass.
func NewDeadCodeEliminationPass() ir.Pass { return &dce{} }

func (*dce) Name() string { return "dce" }

func (p *dce) Run(m *ir.Module) bool {
	changed := false
	for _, f := range m.Functions() {
		for _, bb := range f.Blocks() {
			for again := true; again; {
				again = false
				insts := bb.Instructions()
				for i := len(insts) - 1; i >= 0; i-- {
					inst := insts[i]
					if inst.HasSideEffects() || len(inst.Users()) != 0 {
						continue
					}
					bb.Erase(inst)
					changed = true
					again = true
					break
				}
			}
		}
	}
	return changed
}

// globalDCE removes internal-linkage functions and globals nothing
// references. The designated entry is always kept.
type globalDCE struct{}

// NewGlobalDCEPass creates the global DCE pass.
func NewGlobalDCEPass() ir.Pass { return &globalDCE{} }

func (*globalDCE) Name() string { return "globaldce" }

func (p *globalDCE) Run(m *ir.Module) bool {
	var entry *ir.Function
	if dm := dxil.ModuleFor(m); dm != nil {
		entry = dm.EntryFunction()
	}

	changed := false
	for again := true; again; {
		again = false
		for _, f := range m.Functions() {
			if f == entry || f.Linkage() != ir.InternalLinkage {
				continue
			}
			if len(f.Users()) != 0 {
				continue
			}
			f.DeleteBody()
			f.RemoveFromParent()
			changed = true
			again = true
			break
		}
		for _, gv := range m.Globals() {
			if gv.Linkage() != ir.InternalLinkage || len(gv.Users()) != 0 {
				continue
			}
			gv.RemoveFromParent()
			changed = true
			again = true
			break
		}
	}
	return changed
}
