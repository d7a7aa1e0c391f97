package ops

import (
	"errors"
	"testing"

	"github.com/dxctools/dxlink/diag"
	"github.com/dxctools/dxlink/ir"
)

func TestCheckOpCodeTable(t *testing.T) {
	if !CheckOpCodeTable() {
		t.Fatal("op code table index does not match enum values")
	}
}

func TestConstructOverloadName(t *testing.T) {
	ctx := ir.NewContext()

	tests := []struct {
		op   OpCode
		typ  *ir.Type
		want string
	}{
		{OpSin, ctx.FloatType(32), "dx.op.unary.f32"},
		{OpSin, ctx.FloatType(16), "dx.op.unary.f16"},
		{OpIMax, ctx.IntType(32), "dx.op.binary.i32"},
		{OpCreateHandle, ctx.VoidType(), "dx.op.createHandle"},
		{OpBarrier, ctx.VoidType(), "dx.op.barrier"},
	}
	for _, tt := range tests {
		if got := ConstructOverloadName(tt.op, tt.typ); got != tt.want {
			t.Errorf("ConstructOverloadName(%s, %s) = %q, want %q",
				OpCodeName(tt.op), tt.typ, got, tt.want)
		}
	}
}

func TestGetOpFuncCreatesAndCaches(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	o := New(ctx, m)

	f32 := ctx.FloatType(32)
	sin, err := o.GetOpFunc(OpSin, f32)
	if err != nil {
		t.Fatalf("GetOpFunc(Sin, f32) failed: %v", err)
	}
	if sin.Name() != "dx.op.unary.f32" {
		t.Errorf("name = %q", sin.Name())
	}
	if !sin.HasFnAttr(ir.AttrReadNone) || !sin.HasFnAttr(ir.AttrNoUnwind) {
		t.Error("unary op missing readnone/nounwind attributes")
	}

	// Cos shares the unary class, so the same overload returns the same
	// function.
	cos, err := o.GetOpFunc(OpCos, f32)
	if err != nil {
		t.Fatal(err)
	}
	if cos != sin {
		t.Error("ops of one class did not share the overload function")
	}

	if m.Func("dx.op.unary.f32") != sin {
		t.Error("op function not inserted into module")
	}
}

func TestGetOpFuncOverloadIllegal(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	o := New(ctx, m)

	collected := diag.NewCollector()
	ctx.SetDiagnosticHandler(collected.Handle)

	if _, err := o.GetOpFunc(OpSin, ctx.IntType(32)); err == nil {
		t.Fatal("expected OverloadIllegal for Sin at i32")
	} else if !errors.Is(err, &diag.Diag{Kind: diag.KindOverloadIllegal}) {
		t.Errorf("wrong diagnostic kind: %v", err)
	}
	if !collected.HasErrors() {
		t.Error("diagnostic not emitted through the context")
	}
}

func TestRoundTripDeclaration(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	o := New(ctx, m)

	f16 := ctx.FloatType(16)
	f, err := o.GetOpFunc(OpFMax, f16)
	if err != nil {
		t.Fatal(err)
	}

	class, ok := o.GetOpCodeClassOf(f)
	if !ok {
		t.Fatal("op function not recognized by class cache")
	}
	if class != OCBinary {
		t.Errorf("class = %d, want OCBinary", class)
	}
	if got := o.GetOverloadType(OpFMax, f); got != f16 {
		t.Errorf("overload type = %v, want half", got)
	}

	again, err := o.GetOpFunc(OpFMax, f16)
	if err != nil {
		t.Fatal(err)
	}
	if again != f {
		t.Error("round trip did not return the identical function")
	}
}

func TestRefreshCacheFindsExistingDecls(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)

	// A declaration created outside the registry, as a linked module has.
	f32 := ctx.FloatType(32)
	fty := ctx.FunctionType(f32, ctx.IntType(32), f32)
	f := ir.NewFunction(m, fty, ir.ExternalLinkage, "dx.op.unary.f32")

	o := New(ctx, m)
	got, err := o.GetOpFunc(OpSqrt, f32)
	if err != nil {
		t.Fatal(err)
	}
	if got != f {
		t.Error("refresh did not adopt the existing declaration")
	}

	list := o.GetOpFuncList(OpSqrt)
	if len(list) != 1 || list[0] != f {
		t.Errorf("GetOpFuncList = %v", list)
	}
}

func TestRemoveFunction(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	o := New(ctx, m)

	f32 := ctx.FloatType(32)
	f, _ := o.GetOpFunc(OpSin, f32)
	o.RemoveFunction(f)

	if _, ok := o.GetOpCodeClassOf(f); ok {
		t.Error("removed function still classified")
	}
	if list := o.GetOpFuncList(OpSin); len(list) != 0 {
		t.Errorf("overload list not cleared: %v", list)
	}
}

func TestOpCallPredicates(t *testing.T) {
	ctx := ir.NewContext()
	m := ir.NewModule("m", ctx)
	o := New(ctx, m)

	f32 := ctx.FloatType(32)
	i32 := ctx.IntType(32)
	sin, _ := o.GetOpFunc(OpSin, f32)

	caller := ir.NewFunction(m, ctx.FunctionType(f32, f32), ir.ExternalLinkage, "caller")
	bb := ir.NewBlock(caller, "entry")
	b := ir.NewBuilder()
	b.SetInsertPointAtEnd(bb)
	call := b.CreateCall(sin, ir.NewConstantInt(i32, int64(OpSin)), caller.Args()[0])
	b.CreateRet(call)

	if !IsDxilOpFuncCallInst(call) {
		t.Fatal("op call not recognized")
	}
	if got := GetDxilOpFuncCallInst(call); got != OpSin {
		t.Errorf("op code = %d, want Sin", got)
	}
	if !IsDxilOpFuncCallInstOfOp(call, OpSin) {
		t.Error("op-specific predicate failed")
	}
	if IsDxilOpFuncCallInstOfOp(call, OpCos) {
		// Sin and Cos share a function; the op code argument distinguishes
		// the call sites.
		t.Error("predicate matched the wrong op code")
	}
	if IsDxilOpFunc(caller) {
		t.Error("user function misclassified as op function")
	}
}
