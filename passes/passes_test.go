package passes

import (
	"testing"

	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
)

func TestAlwaysInlineSingleBlockCallee(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	i32 := ctx.IntType(32)

	callee := ir.NewFunction(m, ctx.FunctionType(i32, i32), ir.ExternalLinkage, "callee")
	callee.AddFnAttr(ir.AttrAlwaysInline)
	cb := ir.NewBlock(callee, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(cb)
	doubled := b.CreateBinary(ir.Add, callee.Args()[0], callee.Args()[0], "doubled")
	b.CreateRet(doubled)

	caller := ir.NewFunction(m, ctx.FunctionType(i32, i32), ir.ExternalLinkage, "caller")
	eb := ir.NewBlock(caller, "entry")
	b.SetInsertPointAtEnd(eb)
	call := b.CreateCall(callee, caller.Args()[0])
	b.CreateRet(call)

	if !NewAlwaysInlinerPass().Run(m) {
		t.Fatal("inliner reported no change")
	}

	insts := caller.EntryBlock().Instructions()
	if len(insts) != 2 {
		t.Fatalf("caller has %d instructions, want 2", len(insts))
	}
	sum, ok := insts[0].(*ir.BinaryInst)
	if !ok {
		t.Fatalf("first instruction is %T, want inlined add", insts[0])
	}
	if sum.Operands()[0] != caller.Args()[0] {
		t.Error("inlined body not rebound to call arguments")
	}
	ret := insts[1].(*ir.RetInst)
	if ret.ReturnValue() != sum {
		t.Error("call result not replaced by inlined return value")
	}
}

func TestAlwaysInlineSkipsMultiBlock(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)

	callee := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType(), ctx.IntType(1)), ir.ExternalLinkage, "callee")
	callee.AddFnAttr(ir.AttrAlwaysInline)
	entry := ir.NewBlock(callee, "entry")
	thenB := ir.NewBlock(callee, "then")
	elseB := ir.NewBlock(callee, "else")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(entry)
	b.CreateCondBr(callee.Args()[0], thenB, elseB)
	b.SetInsertPointAtEnd(thenB)
	b.CreateRetVoid()
	b.SetInsertPointAtEnd(elseB)
	b.CreateRetVoid()

	caller := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "caller")
	eb := ir.NewBlock(caller, "entry")
	b.SetInsertPointAtEnd(eb)
	b.CreateCall(callee, ir.NewConstantInt(ctx.IntType(1), 1))
	b.CreateRetVoid()

	if NewAlwaysInlinerPass().Run(m) {
		t.Error("multi-block callee should not be inlined")
	}
}

func TestDCERemovesDeadLoads(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	i32 := ctx.IntType(32)
	gv := ir.NewGlobalVariable(m, i32, false, ir.ExternalLinkage, nil, "g", ir.NotThreadLocal, 0, false)

	f := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "f")
	bb := ir.NewBlock(f, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	b.CreateLoad(gv, "dead")
	b.CreateStore(ir.NewConstantInt(i32, 1), gv)
	b.CreateRetVoid()

	if !NewDeadCodeEliminationPass().Run(m) {
		t.Fatal("DCE reported no change")
	}
	insts := bb.Instructions()
	if len(insts) != 2 {
		t.Fatalf("block has %d instructions, want store+ret", len(insts))
	}
	if _, ok := insts[0].(*ir.StoreInst); !ok {
		t.Error("store must survive DCE")
	}
}

func TestDCERemovesChains(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	i32 := ctx.IntType(32)

	f := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType(), i32), ir.ExternalLinkage, "f")
	bb := ir.NewBlock(f, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	x := b.CreateBinary(ir.Add, f.Args()[0], f.Args()[0], "x")
	b.CreateBinary(ir.Mul, x, x, "y")
	b.CreateRetVoid()

	NewDeadCodeEliminationPass().Run(m)
	if got := len(bb.Instructions()); got != 1 {
		t.Fatalf("dead chain not fully removed: %d instructions left", got)
	}
}

func TestGlobalDCE(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	i32 := ctx.IntType(32)

	deadF := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.InternalLinkage, "deadf")
	db := ir.NewBlock(deadF, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(db)
	b.CreateRetVoid()

	keptExt := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "kept")
	kb := ir.NewBlock(keptExt, "entry")
	b.SetInsertPointAtEnd(kb)
	b.CreateRetVoid()

	ir.NewGlobalVariable(m, i32, false, ir.InternalLinkage, nil, "deadg", ir.NotThreadLocal, 0, false)
	ir.NewGlobalVariable(m, i32, false, ir.ExternalLinkage, nil, "keptg", ir.NotThreadLocal, 0, false)

	if !NewGlobalDCEPass().Run(m) {
		t.Fatal("global DCE reported no change")
	}
	if m.Func("deadf") != nil {
		t.Error("unused internal function survived")
	}
	if m.Func("kept") == nil {
		t.Error("external function removed")
	}
	if m.NamedGlobal("deadg") != nil {
		t.Error("unused internal global survived")
	}
	if m.NamedGlobal("keptg") == nil {
		t.Error("external global removed")
	}
}

func TestGlobalDCEKeepsEntry(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	dm := dxil.GetOrCreate(m, true)

	entry := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.InternalLinkage, "entry")
	eb := ir.NewBlock(entry, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(eb)
	b.CreateRetVoid()
	dm.SetEntryFunction(entry)

	NewGlobalDCEPass().Run(m)
	if m.Func("entry") == nil {
		t.Fatal("entry function removed by global DCE")
	}
}

func TestInstSimplifyFoldsConstants(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	i32 := ctx.IntType(32)

	f := ir.NewFunction(m, ctx.FunctionType(i32), ir.ExternalLinkage, "f")
	bb := ir.NewBlock(f, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	sum := b.CreateBinary(ir.Add, ir.NewConstantInt(i32, 2), ir.NewConstantInt(i32, 3), "sum")
	ret := b.CreateRet(sum)

	if !NewInstSimplifyPass().Run(m) {
		t.Fatal("simplify reported no change")
	}
	c, ok := ret.ReturnValue().(*ir.ConstantInt)
	if !ok {
		t.Fatalf("return operand is %T, want folded constant", ret.ReturnValue())
	}
	if c.Value() != 5 {
		t.Errorf("folded value = %d, want 5", c.Value())
	}
}

func TestSimplifyCFGMergesChains(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)

	f := ir.NewFunction(m, ctx.FunctionType(ctx.VoidType()), ir.ExternalLinkage, "f")
	entry := ir.NewBlock(f, "entry")
	next := ir.NewBlock(f, "next")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(entry)
	b.CreateBr(next)
	b.SetInsertPointAtEnd(next)
	b.CreateRetVoid()

	if !NewCFGSimplificationPass().Run(m) {
		t.Fatal("simplifycfg reported no change")
	}
	if len(f.Blocks()) != 1 {
		t.Fatalf("function has %d blocks, want 1", len(f.Blocks()))
	}
	if _, ok := f.EntryBlock().Terminator().(*ir.RetInst); !ok {
		t.Error("merged block does not end in the return")
	}
}

func TestCondenseResources(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	dm := dxil.GetOrCreate(m, true)
	i32 := ctx.IntType(32)

	mk := func(name string, lower uint32) *dxil.Resource {
		gv := ir.NewGlobalVariable(m, i32, true, ir.ExternalLinkage, nil, name, ir.NotThreadLocal, 0, false)
		return dxil.NewResource(
			dxil.NewResourceBase(dxil.ResourceClassSRV, 0, 0, lower, 1, name, gv),
			dxil.ResourceKindTexture2D, ctx.FloatType(32))
	}
	// Insert out of binding order.
	dm.AddSRV(mk("B", 5))
	dm.AddSRV(mk("A", 2))

	NewCondenseResourcesPass().Run(m)

	srvs := dm.SRVs()
	if srvs[0].GlobalName() != "A" || srvs[0].ID() != 0 {
		t.Errorf("first SRV = %s id %d, want A id 0", srvs[0].GlobalName(), srvs[0].ID())
	}
	if srvs[1].GlobalName() != "B" || srvs[1].ID() != 1 {
		t.Errorf("second SRV = %s id %d, want B id 1", srvs[1].GlobalName(), srvs[1].ID())
	}
}

func TestEmitMetadata(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	dm := dxil.GetOrCreate(m, true)
	dm.SetShaderModel(dxil.GetShaderModelByName("cs_6_0"))
	dm.SetEntryFunctionName("kernel")

	NewEmitMetadataPass().Run(m)

	if got := m.Metadata("dx.shaderModel"); got != "cs_6_0" {
		t.Errorf("dx.shaderModel = %q", got)
	}
	if got := m.Metadata("dx.entryPoints"); got != "kernel" {
		t.Errorf("dx.entryPoints = %q", got)
	}
}
