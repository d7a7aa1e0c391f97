package linker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dxctools/dxlink/diag"
	"github.com/dxctools/dxlink/ir"
	"github.com/dxctools/dxlink/ops"
)

// Options configures linker behavior.
type Options struct {
	// RunPreparePasses controls whether Link runs the post-link lowering
	// pipeline on the output module. Disable to inspect the raw cloned
	// module.
	RunPreparePasses bool
}

// DefaultOptions returns default linker configuration.
func DefaultOptions() Options {
	return Options{
		RunPreparePasses: true,
	}
}

type libEntry struct {
	info *FunctionLinkInfo
	lib  *Library
}

// Linker links registered shader libraries. Libraries are registered once,
// attached per link session, and Link produces a fresh executable module.
type Linker struct {
	ctx  *ir.Context
	opts Options

	// libMap owns every registered library.
	libMap map[string]*Library
	// attachedLibs is the set participating in the next link.
	attachedLibs map[*Library]struct{}
	// nameToDef resolves exported names across attached libraries.
	nameToDef map[string]libEntry

	mu sync.RWMutex
}

// New creates a Linker emitting diagnostics through ctx.
func New(ctx *ir.Context, opts Options) *Linker {
	return &Linker{
		ctx:          ctx,
		opts:         opts,
		libMap:       make(map[string]*Library),
		attachedLibs: make(map[*Library]struct{}),
		nameToDef:    make(map[string]libEntry),
	}
}

// NewWithDefaults creates a Linker with default options.
func NewWithDefaults(ctx *ir.Context) *Linker {
	return New(ctx, DefaultOptions())
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.opts
}

// HasLibNameRegistered reports whether name is already registered.
func (l *Linker) HasLibNameRegistered(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.libMap[name]
	return ok
}

// RegisterLib ingests a compiled library under name. When a debug module is
// given it is preferred over the stripped one. Registration fails on a
// duplicate name or when both modules are nil.
func (l *Linker) RegisterLib(name string, m, debugM *ir.Module) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.libMap[name]; ok {
		return false
	}

	pm := m
	if debugM != nil {
		pm = debugM
	}
	if pm == nil {
		return false
	}

	pm.SetIdentifier(name)
	l.libMap[name] = NewLibrary(pm)
	Logger().Debug("registered library",
		zap.String("name", name),
		zap.Int("functions", len(l.libMap[name].functionTable)))
	return true
}

// AttachLib publishes the named library's exports into the name table.
// Every conflicting name is reported before the attach rolls back, so one
// failed call can carry several RedefineFunction diagnostics.
func (l *Linker) AttachLib(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lib, ok := l.libMap[name]
	if !ok {
		return false
	}
	return l.attach(lib)
}

// DetachLib removes the named library's exports from the name table.
func (l *Linker) DetachLib(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lib, ok := l.libMap[name]
	if !ok {
		return false
	}
	return l.detach(lib)
}

// DetachAll clears the attached set and the name table.
func (l *Linker) DetachAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nameToDef = make(map[string]libEntry)
	l.attachedLibs = make(map[*Library]struct{})
}

func (l *Linker) attach(lib *Library) bool {
	if lib == nil {
		return false
	}
	if _, ok := l.attachedLibs[lib]; ok {
		return false
	}

	success := true
	for name, info := range lib.functionTable {
		if _, ok := l.nameToDef[name]; ok {
			l.ctx.EmitError(diag.New(diag.KindRedefineFunction, name))
			success = false
			continue
		}
		l.nameToDef[name] = libEntry{info: info, lib: lib}
	}

	if success {
		l.attachedLibs[lib] = struct{}{}
		Logger().Debug("attached library", zap.String("name", lib.m.Identifier()))
		return true
	}

	// Roll back: remove exactly the entries this library introduced.
	for name := range lib.functionTable {
		if entry, ok := l.nameToDef[name]; ok && entry.lib == lib {
			delete(l.nameToDef, name)
		}
	}
	Logger().Warn("attach rolled back on conflicts", zap.String("name", lib.m.Identifier()))
	return false
}

func (l *Linker) detach(lib *Library) bool {
	if lib == nil {
		return false
	}
	if _, ok := l.attachedLibs[lib]; !ok {
		return false
	}
	delete(l.attachedLibs, lib)
	for name := range lib.functionTable {
		delete(l.nameToDef, name)
	}
	return true
}

// Link produces a self-contained module for entry against the given
// profile, or nil with diagnostics emitted through the context.
func (l *Linker) Link(entry, profile string) *ir.Module {
	l.mu.RLock()
	defer l.mu.RUnlock()

	addedFunctions := make(map[string]struct{})
	workList := []string{entry}

	job := newLinkJob(l.ctx, l.opts)

	for len(workList) > 0 {
		name := workList[len(workList)-1]
		workList = workList[:len(workList)-1]

		if _, ok := addedFunctions[name]; ok {
			continue
		}
		def, ok := l.nameToDef[name]
		if !ok {
			l.ctx.EmitError(diag.New(diag.KindUndefFunction, name))
			return nil
		}

		job.addFunction(def.info, def.lib)

		for usedF := range def.info.UsedFunctions {
			if ops.IsDxilOpFunc(usedF) {
				// DXIL operations are shared by name, never cloned.
				job.addDxilFunction(usedF)
			} else {
				workList = append(workList, usedF.Name())
			}
		}

		addedFunctions[name] = struct{}{}
	}

	entryDef := l.nameToDef[entry]
	out := job.link(entryDef.info, entryDef.lib, profile)
	if out == nil {
		Logger().Warn("link failed",
			zap.String("entry", entry),
			zap.String("profile", profile))
		return nil
	}
	Logger().Debug("link succeeded",
		zap.String("entry", entry),
		zap.String("profile", profile),
		zap.Int("functions", len(out.Functions())))
	return out
}
