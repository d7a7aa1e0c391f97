package linker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dxctools/dxlink/diag"
	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
	"github.com/dxctools/dxlink/ops"
)

// newTestContext wires a collector as the context's diagnostic handler so
// tests can assert on emitted diagnostics.
func newTestContext() (*ir.Context, *diag.Collector) {
	ctx := ir.NewContext()
	col := diag.NewCollector()
	ctx.SetDiagnosticHandler(col.Handle)
	return ctx, col
}

func dxilGetOrCreate(m *ir.Module) *dxil.Module {
	return dxil.GetOrCreate(m, true)
}

func pixelProps() *dxil.FunctionProps {
	return &dxil.FunctionProps{ShaderKind: dxil.ShaderKindPixel}
}

// buildSinLib builds a library exporting a pixel entry "main" that returns
// h(x), where helper "h" wraps the Sin DXIL operation.
func buildSinLib(t *testing.T, ctx *ir.Context) *ir.Module {
	t.Helper()

	m := ir.NewModule("", ctx)
	dm := dxil.GetOrCreate(m, true)

	f32 := ctx.FloatType(32)
	i32 := ctx.IntType(32)

	sin, err := dm.OP().GetOpFunc(ops.OpSin, f32)
	require.NoError(t, err)

	h := ir.NewFunction(m, ctx.FunctionType(f32, f32), ir.ExternalLinkage, "h")
	hb := ir.NewBlock(h, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(hb)
	call := b.CreateCall(sin, ir.NewConstantInt(i32, int64(ops.OpSin)), h.Args()[0])
	b.CreateRet(call)

	main := ir.NewFunction(m, ctx.FunctionType(f32, f32), ir.ExternalLinkage, "main")
	mb := ir.NewBlock(main, "entry")
	b.SetInsertPointAtEnd(mb)
	hv := b.CreateCall(h, main.Args()[0])
	b.CreateRet(hv)

	dm.SetFunctionProps(main, &dxil.FunctionProps{ShaderKind: dxil.ShaderKindPixel})
	dm.SetEntrySignature(main, &dxil.EntrySignature{
		Output: []dxil.SignatureElement{{Name: "SV_Target", Rows: 1, Cols: 4}},
	})
	return m
}

// buildExportLib builds a library defining one external function per name;
// each body just returns.
func buildExportLib(t *testing.T, ctx *ir.Context, names ...string) *ir.Module {
	t.Helper()

	m := ir.NewModule("", ctx)
	dxil.GetOrCreate(m, true)

	b := ir.NewBuilder()
	for _, name := range names {
		f := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, name)
		bb := ir.NewBlock(f, "entry")
		b.SetInsertPointAtEnd(bb)
		b.CreateRetVoid()
	}
	return m
}

// addTexture declares a resource global named name whose value type is an
// integer of pointeeBits width, records an
// SRV descriptor for it and returns the global.
func addTexture(t *testing.T, m *ir.Module, name string, pointeeBits uint32) *ir.GlobalVariable {
	t.Helper()

	ctx := m.Context()
	dm := dxil.GetOrCreate(m, true)

	gv := ir.NewGlobalVariable(m, ctx.IntType(pointeeBits), true, ir.ExternalLinkage,
		nil, name, ir.NotThreadLocal, 0, false)

	res := dxil.NewResource(
		dxil.NewResourceBase(dxil.ResourceClassSRV, 0, 0, 0, 1, name, gv),
		dxil.ResourceKindTexture2D, ctx.FloatType(32))
	id := dm.AddSRV(res)
	dm.SetResourceLinkInfo(dxil.ResourceClassSRV, id, dxil.ResourceLinkInfo{ResRangeID: gv})
	return gv
}

// buildTextureLib builds a pixel entry "main" that loads the range ID of
// texture name and returns it (plus the result of callee, when given).
func buildTextureLib(t *testing.T, ctx *ir.Context, texName string, pointeeBits uint32, callee string) *ir.Module {
	t.Helper()

	m := ir.NewModule("", ctx)
	dm := dxil.GetOrCreate(m, true)
	i32 := ctx.IntType(32)

	gv := addTexture(t, m, texName, pointeeBits)

	main := ir.NewFunction(m, ctx.FunctionType(i32), ir.ExternalLinkage, "main")
	mb := ir.NewBlock(main, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(mb)
	id := b.CreateLoad(gv, "rid")
	var ret ir.Value = id
	if callee != "" {
		ext := ir.NewFunction(m, ctx.FunctionType(i32), ir.ExternalLinkage, callee)
		cv := b.CreateCall(ext)
		ret = b.CreateBinary(ir.Add, id, cv, "sum")
	}
	b.CreateRet(ret)

	dm.SetFunctionProps(main, &dxil.FunctionProps{ShaderKind: dxil.ShaderKindPixel})
	return m
}

// buildTextureHelperLib builds a library exporting name, returning the
// range ID of texture texName.
func buildTextureHelperLib(t *testing.T, ctx *ir.Context, name, texName string, pointeeBits uint32) *ir.Module {
	t.Helper()

	m := ir.NewModule("", ctx)
	dxil.GetOrCreate(m, true)
	i32 := ctx.IntType(32)

	gv := addTexture(t, m, texName, pointeeBits)

	f := ir.NewFunction(m, ctx.FunctionType(i32), ir.ExternalLinkage, name)
	bb := ir.NewBlock(f, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	id := b.CreateLoad(gv, "rid")
	b.CreateRet(id)
	return m
}

// buildCtorLib builds a library with a static global, a constructor that
// initializes it and a pixel entry reading it.
func buildCtorLib(t *testing.T, ctx *ir.Context) *ir.Module {
	t.Helper()

	m := ir.NewModule("", ctx)
	dm := dxil.GetOrCreate(m, true)
	i32 := ctx.IntType(32)

	g := ir.NewGlobalVariable(m, i32, false, ir.InternalLinkage,
		ir.NewConstantInt(i32, 0), "g", ir.NotThreadLocal, 0, false)

	ctor := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.InternalLinkage, "ctor")
	cb := ir.NewBlock(ctor, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(cb)
	b.CreateStore(ir.NewConstantInt(i32, 42), g)
	b.CreateRetVoid()

	main := ir.NewFunction(m, ctx.FunctionType(i32), ir.ExternalLinkage, "main")
	mb := ir.NewBlock(main, "entry")
	b.SetInsertPointAtEnd(mb)
	v := b.CreateLoad(g, "v")
	b.CreateRet(v)

	dxil.AppendGlobalCtor(m, 65535, ctor)
	dm.SetFunctionProps(main, &dxil.FunctionProps{ShaderKind: dxil.ShaderKindPixel})
	return m
}
