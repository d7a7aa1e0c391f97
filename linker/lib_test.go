package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
)

func TestIngestBuildsFunctionTable(t *testing.T) {
	ctx, _ := newTestContext()
	m := buildSinLib(t, ctx)
	m.SetIdentifier("L")

	lib := NewLibrary(m)

	require.True(t, lib.HasFunction("main"))
	require.True(t, lib.HasFunction("h"))
	// The Sin declaration is not a define and gets no table entry.
	assert.False(t, lib.HasFunction("dx.op.unary.f32"))

	mainInfo := lib.FunctionTable()["main"]
	require.NotNil(t, mainInfo)
	assert.Len(t, mainInfo.UsedFunctions, 1)
	_, callsH := mainInfo.UsedFunctions[m.Func("h")]
	assert.True(t, callsH, "main should record h as callee")

	hInfo := lib.FunctionTable()["h"]
	_, callsSin := hInfo.UsedFunctions[m.Func("dx.op.unary.f32")]
	assert.True(t, callsSin, "h should record the op function as callee")
}

func TestIngestRenamesInternalSymbols(t *testing.T) {
	ctx, _ := newTestContext()
	m := ir.NewModule("", ctx)
	dxil.GetOrCreate(m, true)

	f := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.InternalLinkage, "helper")
	bb := ir.NewBlock(f, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	b.CreateRetVoid()

	m.SetIdentifier("libfoo")
	lib := NewLibrary(m)

	assert.True(t, lib.HasFunction("libfoohelper"))
	assert.False(t, lib.HasFunction("helper"))
	assert.Equal(t, "libfoohelper", f.Name())
	assert.Equal(t, f, m.Func("libfoohelper"))
}

func TestIngestCollectsInitFuncs(t *testing.T) {
	ctx, _ := newTestContext()
	m := buildCtorLib(t, ctx)
	m.SetIdentifier("L")

	lib := NewLibrary(m)

	ctor := m.Func("Lctor")
	require.NotNil(t, ctor, "internal ctor should be renamed on ingest")
	assert.True(t, lib.IsInitFunc(ctor))

	// Init-before-use: main reads g, so it must depend on the ctor.
	mainInfo := lib.FunctionTable()["main"]
	require.NotNil(t, mainInfo)
	_, dependsOnCtor := mainInfo.UsedFunctions[ctor]
	assert.True(t, dependsOnCtor)

	// The ctor itself does not depend on itself.
	ctorInfo := lib.FunctionTable()["Lctor"]
	require.NotNil(t, ctorInfo)
	_, selfDep := ctorInfo.UsedFunctions[ctor]
	assert.False(t, selfDep)
}

func TestIngestUsedGlobals(t *testing.T) {
	ctx, _ := newTestContext()
	m := buildCtorLib(t, ctx)
	m.SetIdentifier("L")

	lib := NewLibrary(m)

	g := m.NamedGlobal("Lg")
	require.NotNil(t, g, "internal global should be renamed on ingest")

	mainInfo := lib.FunctionTable()["main"]
	_, usesG := mainInfo.UsedGlobals[g]
	assert.True(t, usesG)
}

func TestIngestResourceMap(t *testing.T) {
	ctx, _ := newTestContext()
	m := buildTextureLib(t, ctx, "T", 32, "")
	m.SetIdentifier("L")

	lib := NewLibrary(m)

	gv := m.NamedGlobal("T")
	require.NotNil(t, gv)
	require.True(t, lib.IsResourceGlobal(gv))

	res := lib.GetResource(gv)
	require.NotNil(t, res)
	assert.Equal(t, dxil.ResourceClassSRV, res.Class())
	assert.Equal(t, "T", res.GlobalName())

	mainInfo := lib.FunctionTable()["main"]
	assert.Len(t, mainInfo.UsedResources, 1)
}

func TestIngestPatchConstantCompanion(t *testing.T) {
	ctx, _ := newTestContext()
	m := ir.NewModule("", ctx)
	dm := dxil.GetOrCreate(m, true)

	b := ir.NewBuilder()
	pc := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "patch")
	pcb := ir.NewBlock(pc, "entry")
	b.SetInsertPointAtEnd(pcb)
	b.CreateRetVoid()

	hs := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "hsmain")
	hsb := ir.NewBlock(hs, "entry")
	b.SetInsertPointAtEnd(hsb)
	b.CreateRetVoid()

	dm.SetFunctionProps(hs, &dxil.FunctionProps{
		ShaderKind: dxil.ShaderKindHull,
		HS:         dxil.HSProps{PatchConstantFunc: pc, OutputControlPoints: 3},
	})

	m.SetIdentifier("L")
	lib := NewLibrary(m)

	hsInfo := lib.FunctionTable()["hsmain"]
	require.NotNil(t, hsInfo)
	_, pulled := hsInfo.UsedFunctions[pc]
	assert.True(t, pulled, "hull entry should pull in its patch-constant function")
}
