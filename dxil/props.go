package dxil

import "github.com/dxctools/dxlink/ir"

// HSProps carries hull-shader specifics. The patch-constant function is an
// implicit companion of the entry and is co-linked with it.
type HSProps struct {
	PatchConstantFunc     *ir.Function
	InputControlPoints    uint32
	OutputControlPoints   uint32
	MaxTessellationFactor float32
}

// CSProps carries compute-shader thread group dimensions.
type CSProps struct {
	NumThreads [3]uint32
}

// GSProps carries geometry-shader stream configuration.
type GSProps struct {
	MaxVertexCount uint32
}

// FunctionProps records the shader properties of an entry function.
type FunctionProps struct {
	ShaderKind ShaderKind
	HS         HSProps
	CS         CSProps
	GS         GSProps
}

// IsHS reports whether the properties describe a hull shader.
func (p *FunctionProps) IsHS() bool { return p.ShaderKind == ShaderKindHull }

// IsCS reports whether the properties describe a compute shader.
func (p *FunctionProps) IsCS() bool { return p.ShaderKind == ShaderKindCompute }

// Clone returns a copy of the properties.
func (p *FunctionProps) Clone() *FunctionProps {
	cp := *p
	return &cp
}
