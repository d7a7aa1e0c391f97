package ops

import (
	"strings"

	"github.com/dxctools/dxlink/diag"
	"github.com/dxctools/dxlink/ir"
)

// OP is the per-module DXIL operation cache. It hands out the function
// implementing an op code at a given overload type, creating declarations on
// demand, and maps functions back to their op-code class.
type OP struct {
	ctx *ir.Context
	m   *ir.Module

	handleType     *ir.Type
	dimensionsType *ir.Type
	resRetType     [NumTypeOverloads]*ir.Type
	cbufRetType    [NumTypeOverloads]*ir.Type

	classCache  [NumOpClasses][NumTypeOverloads]*ir.Function
	funcToClass map[*ir.Function]OpCodeClass
}

// New creates the operation cache for a module and primes it from the
// functions already present.
func New(ctx *ir.Context, m *ir.Module) *OP {
	o := &OP{
		ctx:         ctx,
		m:           m,
		funcToClass: make(map[*ir.Function]OpCodeClass),
	}
	i8p := ctx.PointerType(ctx.IntType(8), 0)
	i32 := ctx.IntType(32)
	o.handleType = ctx.StructType("dx.types.Handle", i8p)
	o.dimensionsType = ctx.StructType("dx.types.Dimensions", i32, i32, i32, i32)
	o.RefreshCache()
	return o
}

// Ctx returns the owning context.
func (o *OP) Ctx() *ir.Context { return o.ctx }

// GetHandleType returns the resource handle type.
func (o *OP) GetHandleType() *ir.Type { return o.handleType }

// GetDimensionsType returns the GetDimensions result type.
func (o *OP) GetDimensionsType() *ir.Type { return o.dimensionsType }

// GetResRetType returns the 4-component resource load result struct for the
// given overload type.
func (o *OP) GetResRetType(t *ir.Type) *ir.Type {
	slot := GetTypeSlot(t)
	if o.resRetType[slot] == nil {
		i32 := o.ctx.IntType(32)
		o.resRetType[slot] = o.ctx.StructType(
			"dx.types.ResRet."+overloadTypeNames[slot], t, t, t, t, i32)
	}
	return o.resRetType[slot]
}

// GetCBufferRetType returns the legacy cbuffer load result struct for the
// given overload type.
func (o *OP) GetCBufferRetType(t *ir.Type) *ir.Type {
	slot := GetTypeSlot(t)
	if o.cbufRetType[slot] == nil {
		o.cbufRetType[slot] = o.ctx.StructType(
			"dx.types.CBufRet."+overloadTypeNames[slot], t, t, t, t)
	}
	return o.cbufRetType[slot]
}

// GetOpFunc returns the function implementing opCode at overloadType,
// creating the declaration if the module does not have it yet. Requesting a
// disallowed overload emits an OverloadIllegal diagnostic and fails.
func (o *OP) GetOpFunc(opCode OpCode, overloadType *ir.Type) (*ir.Function, error) {
	if !IsOverloadLegal(opCode, overloadType) {
		d := diag.New(diag.KindOverloadIllegal, OpCodeName(opCode)).
			WithDetail(overloadType.String())
		o.ctx.EmitError(d)
		return nil, d
	}

	class := GetOpCodeClass(opCode)
	slot := GetTypeSlot(overloadType)
	if f := o.classCache[class][slot]; f != nil {
		return f, nil
	}

	name := ConstructOverloadName(opCode, overloadType)
	if f := o.m.Func(name); f != nil {
		o.updateCache(class, slot, f)
		return f, nil
	}

	f := ir.NewFunction(o.m, o.funcType(opCode, overloadType), ir.ExternalLinkage, name)
	f.AddFnAttr(ir.AttrNoUnwind)
	switch opCodeProps[opCode].attr {
	case attrReadNone:
		f.AddFnAttr(ir.AttrReadNone)
	case attrReadOnly:
		f.AddFnAttr(ir.AttrReadOnly)
	case attrNoDuplicate:
		f.AddFnAttr(ir.AttrNoDuplicate)
	case attrNoReturn:
		f.AddFnAttr(ir.AttrNoReturn)
	}
	o.updateCache(class, slot, f)
	return f, nil
}

// GetOpFuncList returns every overload instantiation of opCode's class
// currently present.
func (o *OP) GetOpFuncList(opCode OpCode) []*ir.Function {
	class := GetOpCodeClass(opCode)
	var out []*ir.Function
	for _, f := range o.classCache[class] {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// RemoveFunction drops f from the caches. The function itself is left in
// the module; callers erase it separately.
func (o *OP) RemoveFunction(f *ir.Function) {
	class, ok := o.funcToClass[f]
	if !ok {
		return
	}
	delete(o.funcToClass, f)
	for slot, cached := range o.classCache[class] {
		if cached == f {
			o.classCache[class][slot] = nil
		}
	}
}

// GetOverloadType recovers the overload type from an op function's mangled
// name, the inverse of ConstructOverloadName.
func (o *OP) GetOverloadType(opCode OpCode, f *ir.Function) *ir.Type {
	_, slot, ok := parseOpFuncName(f.Name())
	if !ok {
		return nil
	}
	return o.overloadTypeForSlot(slot)
}

func (o *OP) overloadTypeForSlot(slot int) *ir.Type {
	switch slot {
	case 0:
		return o.ctx.VoidType()
	case 1:
		return o.ctx.FloatType(16)
	case 2:
		return o.ctx.FloatType(32)
	case 3:
		return o.ctx.FloatType(64)
	case 4:
		return o.ctx.IntType(1)
	case 5:
		return o.ctx.IntType(8)
	case 6:
		return o.ctx.IntType(16)
	case 7:
		return o.ctx.IntType(32)
	default:
		return o.ctx.IntType(64)
	}
}

// GetOpCodeClassOf returns the class of a cached op function. ok is false
// when f is not a DXIL operation function known to this cache.
func (o *OP) GetOpCodeClassOf(f *ir.Function) (OpCodeClass, bool) {
	class, ok := o.funcToClass[f]
	return class, ok
}

// RefreshCache rebuilds the caches by scanning the module's functions.
// Called after linking clones op declarations into a fresh module.
func (o *OP) RefreshCache() {
	for _, f := range o.m.Functions() {
		if !IsDxilOpFunc(f) {
			continue
		}
		class, slot, ok := parseOpFuncName(f.Name())
		if !ok {
			continue
		}
		o.updateCache(class, slot, f)
	}
}

func (o *OP) updateCache(class OpCodeClass, slot int, f *ir.Function) {
	o.classCache[class][slot] = f
	o.funcToClass[f] = class
}

// funcType derives the declaration type of an op function from its class.
func (o *OP) funcType(opCode OpCode, t *ir.Type) *ir.Type {
	ctx := o.ctx
	i1 := ctx.IntType(1)
	i8 := ctx.IntType(8)
	i32 := ctx.IntType(32)
	f32 := ctx.FloatType(32)
	void := ctx.VoidType()
	h := o.handleType

	switch GetOpCodeClass(opCode) {
	case OCUnary:
		return ctx.FunctionType(t, i32, t)
	case OCBinary:
		return ctx.FunctionType(t, i32, t, t)
	case OCTertiary:
		return ctx.FunctionType(t, i32, t, t, t)
	case OCDot2:
		return ctx.FunctionType(t, i32, t, t, t, t)
	case OCDot3:
		return ctx.FunctionType(t, i32, t, t, t, t, t, t)
	case OCDot4:
		return ctx.FunctionType(t, i32, t, t, t, t, t, t, t, t)
	case OCCreateHandle:
		return ctx.FunctionType(h, i32, i8, i32, i32, i1)
	case OCCBufferLoadLegacy:
		return ctx.FunctionType(o.GetCBufferRetType(t), i32, h, i32)
	case OCSample:
		return ctx.FunctionType(o.GetResRetType(t), i32, h, h, f32, f32, f32, f32)
	case OCSampleLevel:
		return ctx.FunctionType(o.GetResRetType(t), i32, h, h, f32, f32, f32, f32, f32)
	case OCBufferLoad:
		return ctx.FunctionType(o.GetResRetType(t), i32, h, i32, i32)
	case OCBufferStore:
		return ctx.FunctionType(void, i32, h, i32, i32, t, t, t, t, i8)
	case OCGetDimensions:
		return ctx.FunctionType(o.dimensionsType, i32, h, i32)
	case OCThreadID, OCGroupID, OCThreadIDInGroup:
		return ctx.FunctionType(i32, i32, i32)
	case OCFlattenedThreadIDInGroup:
		return ctx.FunctionType(i32, i32)
	case OCBarrier:
		return ctx.FunctionType(void, i32, i32)
	case OCDiscard:
		return ctx.FunctionType(void, i32, i1)
	default:
		return ctx.FunctionType(void, i32)
	}
}

// classByName maps class names back to classes for name parsing.
var classByName = func() map[string]OpCodeClass {
	out := make(map[string]OpCodeClass, NumOpClasses)
	for class := OpCodeClass(0); class < NumOpClasses; class++ {
		out[classToName[class]] = class
	}
	return out
}()

// parseOpFuncName splits "dx.op.<class>[.<overload>]" into class and
// overload slot.
func parseOpFuncName(name string) (OpCodeClass, int, bool) {
	if !strings.HasPrefix(name, namePrefix) {
		return 0, 0, false
	}
	rest := name[len(namePrefix):]
	className := rest
	suffix := ""
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		className = rest[:i]
		suffix = rest[i+1:]
	}
	class, ok := classByName[className]
	if !ok {
		return 0, 0, false
	}
	if suffix == "" {
		return class, 0, true
	}
	for slot := 1; slot < NumTypeOverloads; slot++ {
		if overloadTypeNames[slot] == suffix {
			return class, slot, true
		}
	}
	return 0, 0, false
}

// IsDxilOpFuncName reports whether name has the DXIL operation prefix.
func IsDxilOpFuncName(name string) bool {
	return strings.HasPrefix(name, namePrefix)
}

// IsDxilOpFunc reports whether f looks like a DXIL operation function: the
// name prefix plus an op-code-typed integer first parameter.
func IsDxilOpFunc(f *ir.Function) bool {
	if !IsDxilOpFuncName(f.Name()) {
		return false
	}
	params := f.FunctionType().Params()
	return len(params) > 0 && params[0].IsInteger() && params[0].Bits() == 32
}

// IsDxilOpFuncCallInst reports whether inst calls a DXIL operation function
// with a constant op code.
func IsDxilOpFuncCallInst(inst ir.Instruction) bool {
	ci, ok := inst.(*ir.CallInst)
	if !ok {
		return false
	}
	callee := ci.CalledFunction()
	if callee == nil || !IsDxilOpFunc(callee) {
		return false
	}
	args := ci.Args()
	if len(args) == 0 {
		return false
	}
	_, ok = args[0].(*ir.ConstantInt)
	return ok
}

// IsDxilOpFuncCallInstOfOp reports whether inst calls the given DXIL
// operation.
func IsDxilOpFuncCallInstOfOp(inst ir.Instruction, opCode OpCode) bool {
	if !IsDxilOpFuncCallInst(inst) {
		return false
	}
	return GetDxilOpFuncCallInst(inst) == opCode
}

// GetDxilOpFuncCallInst returns the op code of a DXIL operation call site.
// Callers check IsDxilOpFuncCallInst first.
func GetDxilOpFuncCallInst(inst ir.Instruction) OpCode {
	ci := inst.(*ir.CallInst)
	c := ci.Args()[0].(*ir.ConstantInt)
	return OpCode(c.Value())
}
