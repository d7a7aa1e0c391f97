package dxil

import (
	"sync"

	"github.com/dxctools/dxlink/ir"
	"github.com/dxctools/dxlink/ops"
)

// GlobalCtorsName is the well-known global holding the module's static
// constructor array.
const GlobalCtorsName = "llvm.global_ctors"

type resKey struct {
	class ResourceClass
	id    uint32
}

// ResourceLinkInfo ties a resource to the constant instructions use to name
// its range. In library modules this is the resource's global symbol.
type ResourceLinkInfo struct {
	ResRangeID ir.Value
}

// Module is the DXIL metadata record of one ir.Module.
type Module struct {
	m           *ir.Module
	shaderModel *ShaderModel
	entryFunc   *ir.Function
	entryName   string

	props      map[*ir.Function]*FunctionProps
	signatures map[*ir.Function]*EntrySignature
	typeSystem *TypeSystem

	srvs     []*Resource
	uavs     []*Resource
	cbuffers []*CBuffer
	samplers []*Sampler
	linkInfo map[resKey]ResourceLinkInfo

	op *ops.OP
}

var (
	registryMu sync.Mutex
	registry   = make(map[*ir.Module]*Module)
)

// GetOrCreate returns the Module attached to m, creating one if absent.
// With skipInit true the new record starts empty; otherwise the shader model
// is restored from the module's metadata when present.
func GetOrCreate(m *ir.Module, skipInit bool) *Module {
	registryMu.Lock()
	defer registryMu.Unlock()

	if dm, ok := registry[m]; ok {
		return dm
	}
	dm := &Module{
		m:          m,
		props:      make(map[*ir.Function]*FunctionProps),
		signatures: make(map[*ir.Function]*EntrySignature),
		typeSystem: NewTypeSystem(),
		linkInfo:   make(map[resKey]ResourceLinkInfo),
	}
	if !skipInit {
		if sm := m.Metadata("dx.shaderModel"); sm != "" {
			dm.shaderModel = GetShaderModelByName(sm)
		}
	}
	registry[m] = dm
	return dm
}

// ModuleFor returns the Module attached to m, or nil.
func ModuleFor(m *ir.Module) *Module {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[m]
}

// Release detaches the metadata record of m.
func Release(m *ir.Module) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, m)
}

// IRModule returns the ir.Module this record annotates.
func (dm *Module) IRModule() *ir.Module { return dm.m }

// ShaderModel returns the module's shader model, nil if unset.
func (dm *Module) ShaderModel() *ShaderModel { return dm.shaderModel }

// SetShaderModel sets the module's shader model.
func (dm *Module) SetShaderModel(sm *ShaderModel) { dm.shaderModel = sm }

// EntryFunction returns the designated entry, nil for library modules.
func (dm *Module) EntryFunction() *ir.Function { return dm.entryFunc }

// SetEntryFunction designates the module's entry function.
func (dm *Module) SetEntryFunction(f *ir.Function) { dm.entryFunc = f }

// EntryFunctionName returns the recorded entry name.
func (dm *Module) EntryFunctionName() string { return dm.entryName }

// SetEntryFunctionName records the entry name.
func (dm *Module) SetEntryFunctionName(name string) { dm.entryName = name }

// TypeSystem returns the module's HLSL type annotations.
func (dm *Module) TypeSystem() *TypeSystem { return dm.typeSystem }

// HasFunctionProps reports whether f has recorded shader properties.
func (dm *Module) HasFunctionProps(f *ir.Function) bool {
	_, ok := dm.props[f]
	return ok
}

// FunctionProps returns f's shader properties, nil if absent.
func (dm *Module) FunctionProps(f *ir.Function) *FunctionProps {
	return dm.props[f]
}

// SetFunctionProps records shader properties for f.
func (dm *Module) SetFunctionProps(f *ir.Function, p *FunctionProps) {
	dm.props[f] = p
}

// SetShaderProperties installs the output entry's properties after linking.
func (dm *Module) SetShaderProperties(p *FunctionProps) {
	if dm.entryFunc != nil {
		dm.props[dm.entryFunc] = p
	}
}

// HasEntrySignature reports whether f has a recorded entry signature.
func (dm *Module) HasEntrySignature(f *ir.Function) bool {
	_, ok := dm.signatures[f]
	return ok
}

// EntrySignature returns f's signature, nil if absent.
func (dm *Module) EntrySignature(f *ir.Function) *EntrySignature {
	return dm.signatures[f]
}

// SetEntrySignature records the signature for f.
func (dm *Module) SetEntrySignature(f *ir.Function, sig *EntrySignature) {
	dm.signatures[f] = sig
}

// ResetEntrySignature installs sig as the signature of the designated entry,
// replacing any previous one.
func (dm *Module) ResetEntrySignature(sig *EntrySignature) {
	if dm.entryFunc != nil {
		dm.signatures[dm.entryFunc] = sig
	}
}

// AddSRV appends an SRV, assigns its per-class ID and returns it.
func (dm *Module) AddSRV(r *Resource) uint32 {
	id := uint32(len(dm.srvs))
	r.SetID(id)
	dm.srvs = append(dm.srvs, r)
	return id
}

// AddUAV appends a UAV, assigns its per-class ID and returns it.
func (dm *Module) AddUAV(r *Resource) uint32 {
	id := uint32(len(dm.uavs))
	r.SetID(id)
	dm.uavs = append(dm.uavs, r)
	return id
}

// AddCBuffer appends a constant buffer, assigns its ID and returns it.
func (dm *Module) AddCBuffer(c *CBuffer) uint32 {
	id := uint32(len(dm.cbuffers))
	c.SetID(id)
	dm.cbuffers = append(dm.cbuffers, c)
	return id
}

// AddSampler appends a sampler, assigns its ID and returns it.
func (dm *Module) AddSampler(s *Sampler) uint32 {
	id := uint32(len(dm.samplers))
	s.SetID(id)
	dm.samplers = append(dm.samplers, s)
	return id
}

// SRVs returns the SRV table.
func (dm *Module) SRVs() []*Resource { return dm.srvs }

// UAVs returns the UAV table.
func (dm *Module) UAVs() []*Resource { return dm.uavs }

// CBuffers returns the constant buffer table.
func (dm *Module) CBuffers() []*CBuffer { return dm.cbuffers }

// Samplers returns the sampler table.
func (dm *Module) Samplers() []*Sampler { return dm.samplers }

// SetResourceLinkInfo records the range-ID constant of a resource.
func (dm *Module) SetResourceLinkInfo(class ResourceClass, id uint32, info ResourceLinkInfo) {
	dm.linkInfo[resKey{class, id}] = info
}

// ResourceLinkInfo returns the link info of a resource.
func (dm *Module) ResourceLinkInfo(class ResourceClass, id uint32) (ResourceLinkInfo, bool) {
	info, ok := dm.linkInfo[resKey{class, id}]
	return info, ok
}

// OP returns the module's intrinsic registry, creating it on first use.
func (dm *Module) OP() *ops.OP {
	if dm.op == nil {
		dm.op = ops.New(dm.m.Context(), dm.m)
	}
	return dm.op
}

// AppendGlobalCtor registers fn in m's static constructor array, creating
// the array global on first use. fn must have type void().
func AppendGlobalCtor(m *ir.Module, priority int32, fn *ir.Function) {
	ctx := m.Context()
	i32 := ctx.IntType(32)
	i8p := ctx.PointerType(ctx.IntType(8), 0)
	vfp := ctx.PointerType(ctx.FunctionType(ctx.VoidType()), 0)
	entryTy := ctx.StructType("", i32, vfp, i8p)

	var entries []ir.Constant
	if gv := m.NamedGlobal(GlobalCtorsName); gv != nil {
		if arr, ok := gv.Initializer().(*ir.ConstantArray); ok {
			for i := 0; i < arr.NumElems(); i++ {
				entries = append(entries, arr.Elem(i))
			}
		}
		gv.RemoveFromParent()
	}
	entries = append(entries, ir.NewConstantStruct(entryTy,
		ir.NewConstantInt(i32, int64(priority)),
		fn,
		ir.NewConstantPointerNull(i8p),
	))

	arrTy := ctx.ArrayType(entryTy, uint64(len(entries)))
	ir.NewGlobalVariable(m, arrTy, false, ir.ExternalLinkage,
		ir.NewConstantArray(arrTy, entries...), GlobalCtorsName,
		ir.NotThreadLocal, 0, false)
}
