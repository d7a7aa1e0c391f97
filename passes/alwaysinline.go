package passes

import "github.com/dxctools/dxlink/ir"

// alwaysInliner inlines calls to functions carrying the alwaysinline
// attribute. Only single-block callees are expanded; multi-block callees
// keep their calls and are handled by a later compilation stage.
type alwaysInliner struct{}

// NewAlwaysInlinerPass creates the always-inline pass.
func NewAlwaysInlinerPass() ir.Pass { return &alwaysInliner{} }

func (*alwaysInliner) Name() string { return "alwaysinline" }

func (p *alwaysInliner) Run(m *ir.Module) bool {
	changed := false
	for {
		site := findInlinableCall(m)
		if site == nil {
			break
		}
		inlineCall(site)
		changed = true
	}
	return changed
}

func findInlinableCall(m *ir.Module) *ir.CallInst {
	for _, f := range m.Functions() {
		for _, bb := range f.Blocks() {
			for _, inst := range bb.Instructions() {
				ci, ok := inst.(*ir.CallInst)
				if !ok {
					continue
				}
				callee := ci.CalledFunction()
				if callee == nil || callee == f {
					continue
				}
				if !callee.HasFnAttr(ir.AttrAlwaysInline) {
					continue
				}
				if callee.IsDeclaration() || len(callee.Blocks()) != 1 {
					continue
				}
				return ci
			}
		}
	}
	return nil
}

// inlineCall expands a call to a single-block callee in place: the body's
// instructions are cloned before the call with parameters bound to the call
// arguments, and the callee's return value replaces the call result.
func inlineCall(ci *ir.CallInst) {
	callee := ci.CalledFunction()
	bb := ci.ParentBlock()

	vmap := make(ir.ValueMap, len(callee.Args()))
	args := ci.Args()
	for i, param := range callee.Args() {
		vmap[param] = args[i]
	}

	pos := 0
	for i, inst := range bb.Instructions() {
		if inst == ci {
			pos = i
			break
		}
	}

	var retVal ir.Value
	for _, inst := range callee.EntryBlock().Instructions() {
		if ret, ok := inst.(*ir.RetInst); ok {
			if rv := ret.ReturnValue(); rv != nil {
				retVal = resolveInline(rv, vmap)
			}
			break
		}
		clone := ir.CloneInstruction(inst, vmap, nil)
		bb.InsertAt(pos, clone)
		pos++
		vmap[inst] = clone
	}

	if retVal != nil {
		ir.ReplaceAllUsesWith(ci, retVal)
	}
	bb.Erase(ci)
}

func resolveInline(v ir.Value, vmap ir.ValueMap) ir.Value {
	if mv, ok := vmap[v]; ok {
		return mv
	}
	return v
}
