package ir

// ValueMap maps source values to their counterparts in a destination module.
// Function cloning rewrites every operand through the map.
type ValueMap map[Value]Value

// CloneFunctionInto deep-copies the body of src into dst, rewriting every
// reference through vmap. Callers must map src's arguments to dst's before
// the call and scrub them afterwards when sharing one map across clones;
// cross-function values (functions, globals) missing from the map are kept
// as-is.
func CloneFunctionInto(dst, src *Function, vmap ValueMap) {
	blockMap := make(map[*BasicBlock]*BasicBlock, len(src.blocks))
	for _, bb := range src.blocks {
		blockMap[bb] = NewBlock(dst, bb.name)
	}

	// Instruction results are local to one clone and never leak into the
	// shared map.
	local := make(ValueMap)

	for _, bb := range src.blocks {
		nbb := blockMap[bb]
		for _, inst := range bb.insts {
			ni := cloneInstruction(inst, vmap, local, blockMap)
			nbb.insert(len(nbb.insts), ni)
			local[inst] = ni
		}
	}
}

// CloneInstruction copies a single detached instruction with operands
// remapped through vmap. Branch targets are remapped through blockMap when
// present. The clone must be placed with BasicBlock.InsertAt.
func CloneInstruction(inst Instruction, vmap ValueMap, blockMap map[*BasicBlock]*BasicBlock) Instruction {
	return cloneInstruction(inst, vmap, make(ValueMap), blockMap)
}

func cloneInstruction(inst Instruction, vmap, local ValueMap, blockMap map[*BasicBlock]*BasicBlock) Instruction {
	remap := func(v Value) Value { return remapValue(v, vmap, local) }

	switch i := inst.(type) {
	case *CallInst:
		args := make([]Value, 0, len(i.Args()))
		for _, a := range i.Args() {
			args = append(args, remap(a))
		}
		return newCall(remap(i.Callee()), args, i.Name())
	case *LoadInst:
		return newLoad(remap(i.Pointer()), i.Name())
	case *StoreInst:
		return newStore(remap(i.Value()), remap(i.Pointer()))
	case *BinaryInst:
		return newBinary(i.Op(), remap(i.operands[0]), remap(i.operands[1]), i.Name())
	case *RetInst:
		if rv := i.ReturnValue(); rv != nil {
			return newRet(remap(rv))
		}
		return newRet(nil)
	case *BranchInst:
		if i.IsConditional() {
			return newCondBr(remap(i.Cond()), mapBlock(blockMap, i.dests[0]), mapBlock(blockMap, i.dests[1]))
		}
		return newBr(mapBlock(blockMap, i.dests[0]))
	default:
		panic("ir: unknown instruction kind in clone")
	}
}

func mapBlock(blockMap map[*BasicBlock]*BasicBlock, bb *BasicBlock) *BasicBlock {
	if nbb, ok := blockMap[bb]; ok {
		return nbb
	}
	return bb
}

// remapValue resolves v through the clone maps. Constants holding mapped
// globals or functions are rebuilt so the copy references the destination
// module's entities.
func remapValue(v Value, vmap, local ValueMap) Value {
	if mv, ok := local[v]; ok {
		return mv
	}
	if mv, ok := vmap[v]; ok {
		return mv
	}
	if c, ok := v.(Constant); ok {
		return remapConstant(c, vmap)
	}
	return v
}

func remapConstant(c Constant, vmap ValueMap) Constant {
	if mv, ok := vmap[c]; ok {
		return mv.(Constant)
	}
	switch cc := c.(type) {
	case *ConstantStruct:
		fields, changed := remapConstantOperands(cc.operands, vmap)
		if !changed {
			return c
		}
		return NewConstantStruct(cc.Type(), fields...)
	case *ConstantArray:
		elems, changed := remapConstantOperands(cc.operands, vmap)
		if !changed {
			return c
		}
		return NewConstantArray(cc.Type(), elems...)
	case *ConstantExpr:
		args, changed := remapConstantOperands(cc.operands, vmap)
		if !changed {
			return c
		}
		return NewConstantExpr(cc.Op(), cc.Type(), args...)
	default:
		return c
	}
}

func remapConstantOperands(ops []Value, vmap ValueMap) ([]Constant, bool) {
	out := make([]Constant, len(ops))
	changed := false
	for i, op := range ops {
		mc := remapConstant(op.(Constant), vmap)
		if mc != op {
			changed = true
		}
		out[i] = mc
	}
	return out, changed
}
