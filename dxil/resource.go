package dxil

import "github.com/dxctools/dxlink/ir"

// ResourceClass is the binding class of a resource.
type ResourceClass uint8

const (
	ResourceClassSRV ResourceClass = iota
	ResourceClassUAV
	ResourceClassCBuffer
	ResourceClassSampler
)

var resClassNames = [...]string{
	ResourceClassSRV:     "SRV",
	ResourceClassUAV:     "UAV",
	ResourceClassCBuffer: "CBuffer",
	ResourceClassSampler: "Sampler",
}

// Name returns the class name used in diagnostics.
func (c ResourceClass) Name() string {
	if int(c) < len(resClassNames) {
		return resClassNames[c]
	}
	return "invalid"
}

// ResourceKind is the shape of an SRV or UAV resource.
type ResourceKind uint8

const (
	ResourceKindInvalid ResourceKind = iota
	ResourceKindTexture1D
	ResourceKindTexture2D
	ResourceKindTexture2DArray
	ResourceKindTexture3D
	ResourceKindTextureCube
	ResourceKindTypedBuffer
	ResourceKindRawBuffer
	ResourceKindStructuredBuffer
)

// SamplerKind distinguishes default from comparison samplers.
type SamplerKind uint8

const (
	SamplerKindDefault SamplerKind = iota
	SamplerKindComparison
)

// ResourceDesc is implemented by every resource descriptor.
type ResourceDesc interface {
	Class() ResourceClass
	ID() uint32
	SetID(id uint32)
	GlobalName() string
	GlobalSymbol() ir.Value
	SetGlobalSymbol(sym ir.Value)
	// Clone deep-copies the descriptor so a link output can renumber it
	// without touching the source library's tables.
	Clone() ResourceDesc
}

// ResourceBase carries the state shared by every resource class.
type ResourceBase struct {
	class      ResourceClass
	id         uint32
	spaceID    uint32
	lowerBound uint32
	rangeSize  uint32
	name       string
	sym        ir.Value
}

// NewResourceBase creates the shared descriptor state.
func NewResourceBase(class ResourceClass, id, spaceID, lowerBound, rangeSize uint32, name string, sym ir.Value) ResourceBase {
	return ResourceBase{
		class:      class,
		id:         id,
		spaceID:    spaceID,
		lowerBound: lowerBound,
		rangeSize:  rangeSize,
		name:       name,
		sym:        sym,
	}
}

// Class returns the resource class.
func (r *ResourceBase) Class() ResourceClass { return r.class }

// ID returns the per-class resource ID.
func (r *ResourceBase) ID() uint32 { return r.id }

// SetID sets the per-class resource ID.
func (r *ResourceBase) SetID(id uint32) { r.id = id }

// SpaceID returns the register space.
func (r *ResourceBase) SpaceID() uint32 { return r.spaceID }

// LowerBound returns the first bound register.
func (r *ResourceBase) LowerBound() uint32 { return r.lowerBound }

// RangeSize returns the bound register count.
func (r *ResourceBase) RangeSize() uint32 { return r.rangeSize }

// GlobalName returns the name of the resource's global symbol.
func (r *ResourceBase) GlobalName() string { return r.name }

// GlobalSymbol returns the global the resource binds through.
func (r *ResourceBase) GlobalSymbol() ir.Value { return r.sym }

// SetGlobalSymbol repoints the resource at a global, typically the output
// module's copy after linking.
func (r *ResourceBase) SetGlobalSymbol(sym ir.Value) { r.sym = sym }

// Resource is an SRV or UAV descriptor.
type Resource struct {
	ResourceBase
	kind             ResourceKind
	elemType         *ir.Type
	globallyCoherent bool
}

// NewResource creates an SRV or UAV descriptor.
func NewResource(base ResourceBase, kind ResourceKind, elemType *ir.Type) *Resource {
	return &Resource{ResourceBase: base, kind: kind, elemType: elemType}
}

// Kind returns the resource shape.
func (r *Resource) Kind() ResourceKind { return r.kind }

// ElemType returns the element type loads of the resource produce.
func (r *Resource) ElemType() *ir.Type { return r.elemType }

// SetGloballyCoherent marks a UAV globally coherent.
func (r *Resource) SetGloballyCoherent(v bool) { r.globallyCoherent = v }

// IsGloballyCoherent reports UAV coherence.
func (r *Resource) IsGloballyCoherent() bool { return r.globallyCoherent }

// Clone returns a deep copy.
func (r *Resource) Clone() ResourceDesc {
	cp := *r
	return &cp
}

// CBuffer is a constant buffer descriptor.
type CBuffer struct {
	ResourceBase
	size uint32
}

// NewCBuffer creates a constant buffer descriptor of the given byte size.
func NewCBuffer(base ResourceBase, size uint32) *CBuffer {
	return &CBuffer{ResourceBase: base, size: size}
}

// Size returns the buffer byte size.
func (c *CBuffer) Size() uint32 { return c.size }

// Clone returns a deep copy.
func (c *CBuffer) Clone() ResourceDesc {
	cp := *c
	return &cp
}

// Sampler is a sampler descriptor.
type Sampler struct {
	ResourceBase
	kind SamplerKind
}

// NewSampler creates a sampler descriptor.
func NewSampler(base ResourceBase, kind SamplerKind) *Sampler {
	return &Sampler{ResourceBase: base, kind: kind}
}

// Kind returns the sampler kind.
func (s *Sampler) Kind() SamplerKind { return s.kind }

// Clone returns a deep copy.
func (s *Sampler) Clone() ResourceDesc {
	cp := *s
	return &cp
}
