package passes

import (
	"fmt"
	"sort"

	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
)

// condenseResources renumbers each resource class densely in binding order
// (register space, then lower bound).
type condenseResources struct{}

// NewCondenseResourcesPass creates the resource condensing pass.
func NewCondenseResourcesPass() ir.Pass { return &condenseResources{} }

func (*condenseResources) Name() string { return "condenseresources" }

func (p *condenseResources) Run(m *ir.Module) bool {
	dm := dxil.ModuleFor(m)
	if dm == nil {
		return false
	}
	changed := false
	changed = condenseSRVUAV(dm.SRVs()) || changed
	changed = condenseSRVUAV(dm.UAVs()) || changed

	cbufs := dm.CBuffers()
	sort.SliceStable(cbufs, func(i, j int) bool { return bindLess(&cbufs[i].ResourceBase, &cbufs[j].ResourceBase) })
	for i, c := range cbufs {
		if c.ID() != uint32(i) {
			c.SetID(uint32(i))
			changed = true
		}
	}

	samplers := dm.Samplers()
	sort.SliceStable(samplers, func(i, j int) bool { return bindLess(&samplers[i].ResourceBase, &samplers[j].ResourceBase) })
	for i, s := range samplers {
		if s.ID() != uint32(i) {
			s.SetID(uint32(i))
			changed = true
		}
	}
	return changed
}

func condenseSRVUAV(tab []*dxil.Resource) bool {
	sort.SliceStable(tab, func(i, j int) bool { return bindLess(&tab[i].ResourceBase, &tab[j].ResourceBase) })
	changed := false
	for i, r := range tab {
		if r.ID() != uint32(i) {
			r.SetID(uint32(i))
			changed = true
		}
	}
	return changed
}

func bindLess(a, b *dxil.ResourceBase) bool {
	if a.SpaceID() != b.SpaceID() {
		return a.SpaceID() < b.SpaceID()
	}
	return a.LowerBound() < b.LowerBound()
}

// computeViewIDState records view-ID dependence for the entry signature.
// The linker produces no view-ID-dependent rewrites, so the state is the
// conservative all-independent vector.
type computeViewIDState struct{}

// NewComputeViewIDStatePass creates the view-ID state pass.
func NewComputeViewIDStatePass() ir.Pass { return &computeViewIDState{} }

func (*computeViewIDState) Name() string { return "viewid-state" }

func (p *computeViewIDState) Run(m *ir.Module) bool {
	dm := dxil.ModuleFor(m)
	if dm == nil || dm.EntryFunction() == nil {
		return false
	}
	sig := dm.EntrySignature(dm.EntryFunction())
	if sig == nil || len(sig.ViewIDState) == len(sig.Output) {
		return false
	}
	sig.ViewIDState = make([]uint32, len(sig.Output))
	return true
}

// emitMetadata serializes the DXIL record into the module's metadata string
// table for a container writer to consume.
type emitMetadata struct{}

// NewEmitMetadataPass creates the metadata emission pass.
func NewEmitMetadataPass() ir.Pass { return &emitMetadata{} }

func (*emitMetadata) Name() string { return "emit-metadata" }

func (p *emitMetadata) Run(m *ir.Module) bool {
	dm := dxil.ModuleFor(m)
	if dm == nil {
		return false
	}
	if sm := dm.ShaderModel(); sm != nil {
		m.SetMetadata("dx.shaderModel", sm.Name())
	}
	if name := dm.EntryFunctionName(); name != "" {
		m.SetMetadata("dx.entryPoints", name)
	}
	m.SetMetadata("dx.resources", fmt.Sprintf("srv:%d;uav:%d;cbuffer:%d;sampler:%d",
		len(dm.SRVs()), len(dm.UAVs()), len(dm.CBuffers()), len(dm.Samplers())))
	return true
}
