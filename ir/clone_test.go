package ir

import "testing"

// buildAddFunc creates "i32 add1(i32 %x)" returning x + g in src.
func buildAddFunc(m *Module, gv *GlobalVariable) *Function {
	ctx := m.Context()
	i32 := ctx.IntType(32)
	f := NewFunction(m, ctx.FunctionType(i32, i32), ExternalLinkage, "add1")
	bb := NewBlock(f, "entry")
	b := NewBuilder()
	b.SetInsertPointAtEnd(bb)
	ld := b.CreateLoad(gv, "gval")
	sum := b.CreateBinary(Add, f.Args()[0], ld, "sum")
	b.CreateRet(sum)
	return f
}

func TestCloneFunctionInto(t *testing.T) {
	ctx := NewContext()
	src := NewModule("src", ctx)
	i32 := ctx.IntType(32)

	gv := NewGlobalVariable(src, i32, false, ExternalLinkage, NewConstantInt(i32, 1), "g", NotThreadLocal, 0, false)
	f := buildAddFunc(src, gv)

	dst := NewModule("dst", ctx)
	ngv := NewGlobalVariable(dst, i32, false, ExternalLinkage, NewConstantInt(i32, 1), "g", NotThreadLocal, 0, false)
	nf := NewFunction(dst, f.FunctionType(), f.Linkage(), f.Name())

	vmap := ValueMap{gv: ngv}
	for i, a := range f.Args() {
		vmap[a] = nf.Args()[i]
	}
	CloneFunctionInto(nf, f, vmap)
	for _, a := range f.Args() {
		delete(vmap, a)
	}

	if nf.IsDeclaration() {
		t.Fatal("clone produced no body")
	}
	insts := nf.EntryBlock().Instructions()
	if len(insts) != 3 {
		t.Fatalf("clone has %d instructions, want 3", len(insts))
	}

	ld := insts[0].(*LoadInst)
	if ld.Pointer() != ngv {
		t.Error("load not remapped to destination global")
	}
	sum := insts[1].(*BinaryInst)
	if sum.Operands()[0] != nf.Args()[0] {
		t.Error("argument not remapped to destination argument")
	}
	if sum.Operands()[1] != ld {
		t.Error("local result not remapped to cloned instruction")
	}
}

func TestCloneRemapsCallees(t *testing.T) {
	ctx := NewContext()
	src := NewModule("src", ctx)
	i32 := ctx.IntType(32)

	callee := NewFunction(src, ctx.FunctionType(i32, i32), ExternalLinkage, "helper")
	caller := NewFunction(src, ctx.FunctionType(i32, i32), ExternalLinkage, "main")
	bb := NewBlock(caller, "entry")
	b := NewBuilder()
	b.SetInsertPointAtEnd(bb)
	call := b.CreateCall(callee, caller.Args()[0])
	b.CreateRet(call)

	dst := NewModule("dst", ctx)
	ncallee := NewFunction(dst, callee.FunctionType(), ExternalLinkage, "helper")
	ncaller := NewFunction(dst, caller.FunctionType(), ExternalLinkage, "main")

	vmap := ValueMap{callee: ncallee}
	for i, a := range caller.Args() {
		vmap[a] = ncaller.Args()[i]
	}
	CloneFunctionInto(ncaller, caller, vmap)

	ncall := ncaller.EntryBlock().Instructions()[0].(*CallInst)
	if ncall.CalledFunction() != ncallee {
		t.Error("callee not remapped")
	}
}

func TestCloneRemapsBranchTargets(t *testing.T) {
	ctx := NewContext()
	src := NewModule("src", ctx)
	i1 := ctx.IntType(1)

	f := NewFunction(src, ctx.FunctionType(ctx.VoidType(), i1), ExternalLinkage, "f")
	entry := NewBlock(f, "entry")
	thenB := NewBlock(f, "then")
	elseB := NewBlock(f, "else")

	b := NewBuilder()
	b.SetInsertPointAtEnd(entry)
	b.CreateCondBr(f.Args()[0], thenB, elseB)
	b.SetInsertPointAtEnd(thenB)
	b.CreateRetVoid()
	b.SetInsertPointAtEnd(elseB)
	b.CreateRetVoid()

	dst := NewModule("dst", ctx)
	nf := NewFunction(dst, f.FunctionType(), ExternalLinkage, "f")
	vmap := ValueMap{}
	for i, a := range f.Args() {
		vmap[a] = nf.Args()[i]
	}
	CloneFunctionInto(nf, f, vmap)

	if len(nf.Blocks()) != 3 {
		t.Fatalf("clone has %d blocks, want 3", len(nf.Blocks()))
	}
	br := nf.EntryBlock().Instructions()[0].(*BranchInst)
	if br.Dests()[0] != nf.Blocks()[1] || br.Dests()[1] != nf.Blocks()[2] {
		t.Error("branch targets not remapped to cloned blocks")
	}
	if br.Cond() != nf.Args()[0] {
		t.Error("branch condition not remapped")
	}
}

func TestCloneRebuildsConstantExprs(t *testing.T) {
	ctx := NewContext()
	src := NewModule("src", ctx)
	i32 := ctx.IntType(32)
	arrTy := ctx.ArrayType(i32, 4)

	gv := NewGlobalVariable(src, arrTy, false, ExternalLinkage, nil, "table", NotThreadLocal, 0, false)
	elemPtr := NewConstantExpr(GEPExpr, ctx.PointerType(i32, 0), gv, NewConstantInt(i32, 2))

	f := NewFunction(src, ctx.FunctionType(i32), ExternalLinkage, "f")
	bb := NewBlock(f, "entry")
	b := NewBuilder()
	b.SetInsertPointAtEnd(bb)
	ld := b.CreateLoad(elemPtr, "")
	b.CreateRet(ld)

	dst := NewModule("dst", ctx)
	ngv := NewGlobalVariable(dst, arrTy, false, ExternalLinkage, nil, "table", NotThreadLocal, 0, false)
	nf := NewFunction(dst, f.FunctionType(), ExternalLinkage, "f")

	CloneFunctionInto(nf, f, ValueMap{gv: ngv})

	nld := nf.EntryBlock().Instructions()[0].(*LoadInst)
	ce, ok := nld.Pointer().(*ConstantExpr)
	if !ok {
		t.Fatal("cloned load pointer is not a constant expr")
	}
	if ce == elemPtr {
		t.Fatal("constant expr not rebuilt for destination module")
	}
	if ce.Operands()[0] != ngv {
		t.Error("rebuilt constant expr does not reference destination global")
	}
}
