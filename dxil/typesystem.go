package dxil

import "github.com/dxctools/dxlink/ir"

// ParamAnnotation carries HLSL-level information about one parameter or the
// return value of a function.
type ParamAnnotation struct {
	Semantic          string
	FieldName         string
	InterpolationMode uint8
}

// FunctionAnnotation records per-function HLSL type information that the IR
// types alone cannot express.
type FunctionAnnotation struct {
	Ret    ParamAnnotation
	Params []ParamAnnotation
}

// Clone returns a deep copy of the annotation.
func (a *FunctionAnnotation) Clone() *FunctionAnnotation {
	return &FunctionAnnotation{
		Ret:    a.Ret,
		Params: append([]ParamAnnotation(nil), a.Params...),
	}
}

// TypeSystem holds the HLSL type annotations of one module.
type TypeSystem struct {
	funcAnnotations map[*ir.Function]*FunctionAnnotation
}

// NewTypeSystem creates an empty type system.
func NewTypeSystem() *TypeSystem {
	return &TypeSystem{
		funcAnnotations: make(map[*ir.Function]*FunctionAnnotation),
	}
}

// FunctionAnnotation returns f's annotation, or nil.
func (ts *TypeSystem) FunctionAnnotation(f *ir.Function) *FunctionAnnotation {
	return ts.funcAnnotations[f]
}

// AddFunctionAnnotation creates and returns an empty annotation for f.
func (ts *TypeSystem) AddFunctionAnnotation(f *ir.Function) *FunctionAnnotation {
	a := &FunctionAnnotation{Params: make([]ParamAnnotation, len(f.Args()))}
	ts.funcAnnotations[f] = a
	return a
}

// CopyFunctionAnnotation copies src's annotation in srcSys onto dst in ts.
// Missing source annotations are ignored.
func (ts *TypeSystem) CopyFunctionAnnotation(dst, src *ir.Function, srcSys *TypeSystem) {
	a := srcSys.FunctionAnnotation(src)
	if a == nil {
		return
	}
	ts.funcAnnotations[dst] = a.Clone()
}
