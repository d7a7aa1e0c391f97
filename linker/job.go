package linker

import (
	"sort"

	"github.com/dxctools/dxlink/diag"
	"github.com/dxctools/dxlink/dxil"
	"github.com/dxctools/dxlink/ir"
	"github.com/dxctools/dxlink/passes"
)

type resourcePair struct {
	res dxil.ResourceDesc
	gv  *ir.GlobalVariable
}

// linkJob assembles one link output. It is scoped to a single Link call;
// on failure the partially built module is dropped with the job.
type linkJob struct {
	ctx  *ir.Context
	opts Options

	// functionDefs is the user-code frontier to clone.
	functionDefs map[*FunctionLinkInfo]*Library
	// dxilFunctions holds intrinsic operations encountered during the walk;
	// these are re-declared in the output, never cloned.
	dxilFunctions map[string]*ir.Function
	// newFunctions and newGlobals index the freshly created output entities.
	newFunctions map[string]*ir.Function
	newGlobals   map[string]*ir.GlobalVariable
	// resourceMap merges same-named resources across libraries.
	resourceMap map[string]resourcePair
}

func newLinkJob(ctx *ir.Context, opts Options) *linkJob {
	return &linkJob{
		ctx:           ctx,
		opts:          opts,
		functionDefs:  make(map[*FunctionLinkInfo]*Library),
		dxilFunctions: make(map[string]*ir.Function),
		newFunctions:  make(map[string]*ir.Function),
		newGlobals:    make(map[string]*ir.GlobalVariable),
		resourceMap:   make(map[string]resourcePair),
	}
}

func (j *linkJob) addFunction(info *FunctionLinkInfo, lib *Library) {
	j.functionDefs[info] = lib
}

func (j *linkJob) addDxilFunction(f *ir.Function) {
	j.dxilFunctions[f.Name()] = f
}

// addResource merges a resource into the job. Same-named resources must
// bind through globals of identical type; a mismatch is a RefineResource
// error.
func (j *linkJob) addResource(res dxil.ResourceDesc, gv *ir.GlobalVariable) bool {
	if prev, ok := j.resourceMap[res.GlobalName()]; ok {
		match := prev.res.GlobalSymbol().Type() == res.GlobalSymbol().Type()
		if !match {
			j.ctx.EmitError(diag.New(diag.KindRefineResource, res.GlobalName()).
				WithDetail(res.Class().Name()))
			return false
		}
		return true
	}
	j.resourceMap[res.GlobalName()] = resourcePair{res: res, gv: gv}
	return true
}

// addResourceToDM deep-copies every merged resource into the output module,
// allocates its per-class ID and folds loads of the output global into that
// ID constant.
func (j *linkJob) addResourceToDM(dm *dxil.Module) {
	names := make([]string, 0, len(j.resourceMap))
	for name := range j.resourceMap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pair := j.resourceMap[name]
		clone := pair.res.Clone()
		clone.SetGlobalSymbol(pair.gv)

		var id uint32
		switch clone.Class() {
		case dxil.ResourceClassSRV:
			id = dm.AddSRV(clone.(*dxil.Resource))
		case dxil.ResourceClassUAV:
			id = dm.AddUAV(clone.(*dxil.Resource))
		case dxil.ResourceClassCBuffer:
			id = dm.AddCBuffer(clone.(*dxil.CBuffer))
		case dxil.ResourceClassSampler:
			id = dm.AddSampler(clone.(*dxil.Sampler))
		}
		dm.SetResourceLinkInfo(clone.Class(), id, dxil.ResourceLinkInfo{ResRangeID: pair.gv})

		rangeID := ir.NewConstantInt(pair.gv.ValueType(), int64(id))
		for _, u := range pair.gv.Users() {
			if li, ok := u.(*ir.LoadInst); ok {
				ir.ReplaceAllUsesWith(li, rangeID)
			}
		}
	}
}

// link clones the collected frontier into a fresh module for the entry and
// profile, schedules constructors and runs the prepare pipeline.
func (j *linkJob) link(entryInfo *FunctionLinkInfo, entryLib *Library, profile string) *ir.Module {
	entryFunc := entryInfo.Func
	entryDM := entryLib.DxilModule()

	if !entryDM.HasFunctionProps(entryFunc) {
		j.ctx.EmitError(diag.New(diag.KindNoEntryProps, entryFunc.Name()))
		return nil
	}

	// Copy so the hull-shader patch-constant fixup below cannot touch the
	// library's record.
	props := *entryDM.FunctionProps(entryFunc)
	if props.ShaderKind == dxil.ShaderKindLibrary || props.ShaderKind == dxil.ShaderKindInvalid {
		j.ctx.EmitError(diag.New(diag.KindInvalidProfile, profile))
		return nil
	}

	sm := dxil.GetShaderModelByName(profile)
	if sm.Kind() != props.ShaderKind {
		j.ctx.EmitError(diag.New(diag.KindShaderKindMismatch, profile).
			WithDetail(props.ShaderKind.Name()))
		return nil
	}

	pM := ir.NewModule(entryFunc.Name(), j.ctx)
	pM.SetTargetTriple(entryLib.Module().TargetTriple())

	// Declare DXIL operations before the DxilModule exists; they are matched
	// by name, not cloned.
	for _, name := range sortedKeys(j.dxilFunctions) {
		f := j.dxilFunctions[name]
		nf := ir.NewFunction(pM, f.FunctionType(), f.Linkage(), name)
		nf.CopyAttributesFrom(f)
		j.newFunctions[name] = nf
	}

	dm := dxil.GetOrCreate(pM, true)
	dm.SetShaderModel(sm)
	typeSys := dm.TypeSystem()

	vmap := make(ir.ValueMap)

	// Create shells for every user function first so cycles resolve when
	// bodies are cloned.
	for info, lib := range j.functionDefs {
		f := info.Func
		nf := ir.NewFunction(pM, f.FunctionType(), f.Linkage(), f.Name())
		nf.CopyAttributesFrom(f)
		nf.AddFnAttr(ir.AttrAlwaysInline)

		typeSys.CopyFunctionAnnotation(nf, f, lib.DxilModule().TypeSystem())

		j.newFunctions[nf.Name()] = nf
		vmap[f] = nf
	}

	newEntry := j.newFunctions[entryFunc.Name()]
	dm.SetEntryFunction(newEntry)
	dm.SetEntryFunctionName(entryFunc.Name())
	if entryDM.HasEntrySignature(entryFunc) {
		dm.ResetEntrySignature(entryDM.EntrySignature(entryFunc).Clone())
	}

	newEntry.RemoveFnAttr(ir.AttrAlwaysInline)
	if props.IsHS() {
		newPatchConstant := j.newFunctions[props.HS.PatchConstantFunc.Name()]
		props.HS.PatchConstantFunc = newPatchConstant
		newPatchConstant.RemoveFnAttr(ir.AttrAlwaysInline)
	}
	dm.SetShaderProperties(&props)

	if !j.addGlobals(pM, vmap) {
		dxil.Release(pM)
		return nil
	}

	// Clone bodies. Cross-library and intrinsic callees resolve by name.
	for info := range j.functionDefs {
		f := info.Func
		nf := j.newFunctions[f.Name()]

		for usedF := range info.UsedFunctions {
			if _, ok := vmap[usedF]; !ok {
				if ext := j.newFunctions[usedF.Name()]; ext != nil {
					vmap[usedF] = ext
				}
			}
		}
		cloneFunction(nf, f, vmap)
	}

	// Call static constructors at the entry prologue. Inits must not
	// observe ordering, so map order is fine.
	b := ir.NewBuilder()
	b.SetInsertPointAtFirstInsertion(newEntry.EntryBlock())
	for info, lib := range j.functionDefs {
		if lib.IsInitFunc(info.Func) {
			b.CreateCall(j.newFunctions[info.Func.Name()])
		}
	}

	dm.OP().RefreshCache()

	// After bodies are cloned, so range-ID folding sees every load.
	j.addResourceToDM(dm)

	if j.opts.RunPreparePasses {
		j.runPreparePass(pM)
	}

	return pM
}

// addGlobals creates the output copies of every used global. Same-named
// resources from different libraries merge onto one output global; other
// duplicates are RedefineGlobal errors. Reports overall success.
func (j *linkJob) addGlobals(pM *ir.Module, vmap ir.ValueMap) bool {
	success := true
	for info, lib := range j.functionDefs {
		for gv := range info.UsedGlobals {
			if ngv, ok := j.newGlobals[gv.Name()]; ok {
				if _, mapped := vmap[gv]; !mapped {
					if res := lib.GetResource(gv); res != nil {
						// Same-named resource: merge onto the existing
						// global when the global types match.
						if j.addResource(res, ngv) {
							vmap[gv] = ngv
						} else {
							success = false
						}
						continue
					}
					j.ctx.EmitError(diag.New(diag.KindRedefineGlobal, gv.Name()))
					success = false
				}
				continue
			}

			ngv := ir.NewGlobalVariable(
				pM, gv.ValueType(), gv.IsConstant(),
				gv.Linkage(), gv.Initializer(), gv.Name(),
				gv.ThreadLocalMode(), gv.AddrSpace(), gv.IsExternallyInitialized())

			j.newGlobals[gv.Name()] = ngv
			vmap[gv] = ngv

			if res := lib.GetResource(gv); res != nil {
				if !j.addResource(res, ngv) {
					success = false
				}
			}
		}
	}
	return success
}

// cloneFunction maps parameters, clones the body and scrubs the parameter
// entries so the shared map stays safe for the next clone.
func cloneFunction(nf, f *ir.Function, vmap ir.ValueMap) {
	for i, param := range f.Args() {
		vmap[param] = nf.Args()[i]
	}

	ir.CloneFunctionInto(nf, f, vmap)

	for _, param := range f.Args() {
		delete(vmap, param)
	}
}

func (j *linkJob) runPreparePass(m *ir.Module) {
	pm := ir.NewPassManager()

	pm.Add(passes.NewAlwaysInlinerPass())
	// Remove unused functions.
	pm.Add(passes.NewDeadCodeEliminationPass())
	pm.Add(passes.NewGlobalDCEPass())

	pm.Add(passes.NewInstSimplifyPass())
	pm.Add(passes.NewCFGSimplificationPass())

	pm.Add(passes.NewCondenseResourcesPass())
	pm.Add(passes.NewComputeViewIDStatePass())
	pm.Add(passes.NewEmitMetadataPass())

	pm.Run(m)
}

func sortedKeys(m map[string]*ir.Function) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
