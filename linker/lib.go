package linker

import (
	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
)

// FunctionLinkInfo records one defined function and everything linking it
// pulls in: direct callees, referenced globals and the resources bound
// through them.
type FunctionLinkInfo struct {
	Func          *ir.Function
	UsedFunctions map[*ir.Function]struct{}
	UsedGlobals   map[*ir.GlobalVariable]struct{}
	UsedResources map[dxil.ResourceDesc]struct{}
}

func newFunctionLinkInfo(f *ir.Function) *FunctionLinkInfo {
	return &FunctionLinkInfo{
		Func:          f,
		UsedFunctions: make(map[*ir.Function]struct{}),
		UsedGlobals:   make(map[*ir.GlobalVariable]struct{}),
		UsedResources: make(map[dxil.ResourceDesc]struct{}),
	}
}

// Library is one ingested library module. It owns the module; the linker
// and link jobs only borrow references into it.
type Library struct {
	m  *ir.Module
	dm *dxil.Module

	// functionTable maps name to link info, one entry per defined function.
	functionTable map[string]*FunctionLinkInfo
	// resourceMap maps a resource's range-ID constant to its descriptor.
	resourceMap map[ir.Value]dxil.ResourceDesc
	// initFuncs holds the module's static constructors.
	initFuncs map[*ir.Function]struct{}
}

// NewLibrary ingests a module: internal symbols are renamed to be globally
// unique, per-function dependency sets are derived from the use graph, the
// resource map is indexed by range-ID constant and static constructors are
// collected from the global constructor array.
func NewLibrary(m *ir.Module) *Library {
	lib := &Library{
		m:             m,
		dm:            dxil.GetOrCreate(m, false),
		functionTable: make(map[string]*FunctionLinkInfo),
		resourceMap:   make(map[ir.Value]dxil.ResourceDesc),
		initFuncs:     make(map[*ir.Function]struct{}),
	}

	mid := m.Identifier()

	// Collect function defines, prefixing internal names with the module
	// identifier so they stay unique across libraries.
	for _, f := range m.Functions() {
		if f.IsDeclaration() {
			continue
		}
		if f.Linkage() == ir.InternalLinkage {
			f.SetName(mid + f.Name())
		}
		lib.functionTable[f.Name()] = newFunctionLinkInfo(f)
	}

	// Build the callee sets from each function's users.
	for _, f := range m.Functions() {
		for _, u := range f.Users() {
			// Skip constant struct users: global constructor array entries.
			if _, ok := u.(*ir.ConstantStruct); ok {
				continue
			}
			ci, ok := u.(*ir.CallInst)
			if !ok {
				continue
			}
			caller := ci.ParentFunction()
			if caller == nil {
				continue
			}
			if li := lib.functionTable[caller.Name()]; li != nil {
				li.UsedFunctions[f] = struct{}{}
			}
		}
		// A hull shader entry implicitly pulls in its patch-constant
		// companion.
		if props := lib.dm.FunctionProps(f); props != nil && props.IsHS() {
			if li := lib.functionTable[f.Name()]; li != nil && props.HS.PatchConstantFunc != nil {
				li.UsedFunctions[props.HS.PatchConstantFunc] = struct{}{}
			}
		}
	}

	// Globals: rename internals, then invert the use graph into per-function
	// used-global sets.
	for _, gv := range m.Globals() {
		if gv.Linkage() == ir.InternalLinkage {
			gv.SetName(mid + gv.Name())
		}
		for f := range collectUsedFunctions(gv) {
			if li := lib.functionTable[f.Name()]; li != nil {
				li.UsedGlobals[gv] = struct{}{}
			}
		}
	}

	lib.buildResourceMap()

	// Record which globals bind resources on each link info.
	for _, li := range lib.functionTable {
		for gv := range li.UsedGlobals {
			if res := lib.GetResource(gv); res != nil {
				li.UsedResources[res] = struct{}{}
			}
		}
	}

	lib.collectInitFuncs()
	return lib
}

// Module returns the ingested IR module.
func (lib *Library) Module() *ir.Module { return lib.m }

// DxilModule returns the module's DXIL metadata record.
func (lib *Library) DxilModule() *dxil.Module { return lib.dm }

// FunctionTable returns the name-to-link-info table.
func (lib *Library) FunctionTable() map[string]*FunctionLinkInfo { return lib.functionTable }

// HasFunction reports whether the library defines name.
func (lib *Library) HasFunction(name string) bool {
	_, ok := lib.functionTable[name]
	return ok
}

// IsInitFunc reports whether f is one of the library's static constructors.
func (lib *Library) IsInitFunc(f *ir.Function) bool {
	_, ok := lib.initFuncs[f]
	return ok
}

// IsResourceGlobal reports whether v is a resource's range-ID constant.
func (lib *Library) IsResourceGlobal(v ir.Value) bool {
	_, ok := lib.resourceMap[v]
	return ok
}

// GetResource returns the resource bound through v, nil if v is not a
// range-ID constant.
func (lib *Library) GetResource(v ir.Value) dxil.ResourceDesc {
	return lib.resourceMap[v]
}

func (lib *Library) buildResourceMap() {
	for _, r := range lib.dm.SRVs() {
		lib.indexResource(dxil.ResourceClassSRV, r)
	}
	for _, r := range lib.dm.UAVs() {
		lib.indexResource(dxil.ResourceClassUAV, r)
	}
	for _, c := range lib.dm.CBuffers() {
		lib.indexResource(dxil.ResourceClassCBuffer, c)
	}
	for _, s := range lib.dm.Samplers() {
		lib.indexResource(dxil.ResourceClassSampler, s)
	}
}

func (lib *Library) indexResource(class dxil.ResourceClass, res dxil.ResourceDesc) {
	if info, ok := lib.dm.ResourceLinkInfo(class, res.ID()); ok {
		lib.resourceMap[info.ResRangeID] = res
	}
}

// collectInitFuncs reads the global constructor array and, for each init
// function, marks every other function touching one of its globals as
// depending on it, so initialization is scheduled before any consumer.
func (lib *Library) collectInitFuncs() {
	ctors := lib.m.NamedGlobal(dxil.GlobalCtorsName)
	if ctors == nil {
		return
	}
	arr, ok := ctors.Initializer().(*ir.ConstantArray)
	if !ok {
		return
	}
	for i := 0; i < arr.NumElems(); i++ {
		elem := arr.Elem(i)
		if _, zero := elem.(*ir.ConstantAggregateZero); zero {
			continue
		}
		cs, ok := elem.(*ir.ConstantStruct)
		if !ok {
			continue
		}
		fn, ok := cs.Field(1).(*ir.Function)
		if !ok {
			// Null or non-function slot.
			continue
		}
		lib.initFuncs[fn] = struct{}{}
	}

	for ctor := range lib.initFuncs {
		li := lib.functionTable[ctor.Name()]
		if li == nil {
			continue
		}
		for gv := range li.UsedGlobals {
			for f := range collectUsedFunctions(gv) {
				if f == ctor {
					continue
				}
				if userInfo := lib.functionTable[f.Name()]; userInfo != nil {
					userInfo.UsedFunctions[ctor] = struct{}{}
				}
			}
		}
	}
}

// collectUsedFunctions walks v's users, descending through constant
// expressions, and returns the functions whose instructions reach v.
func collectUsedFunctions(v ir.Value) map[*ir.Function]struct{} {
	out := make(map[*ir.Function]struct{})
	var walk func(v ir.Value)
	walk = func(v ir.Value) {
		for _, u := range v.Users() {
			if inst, ok := u.(ir.Instruction); ok {
				if f := inst.ParentFunction(); f != nil {
					out[f] = struct{}{}
				}
				continue
			}
			walk(u)
		}
	}
	walk(v)
	return out
}
