package ir

// Module is an IR container owning functions and globals.
type Module struct {
	ctx     *Context
	ident   string
	triple  string
	funcs   []*Function
	globals []*GlobalVariable
	funcMap map[string]*Function
	gvMap   map[string]*GlobalVariable

	// metadata holds module-level metadata strings keyed by name. Written by
	// the metadata emission pass; consumed by container writers.
	metadata map[string]string
}

// NewModule creates an empty module with the given identifier.
func NewModule(ident string, ctx *Context) *Module {
	return &Module{
		ctx:      ctx,
		ident:    ident,
		funcMap:  make(map[string]*Function),
		gvMap:    make(map[string]*GlobalVariable),
		metadata: make(map[string]string),
	}
}

// Context returns the owning context.
func (m *Module) Context() *Context { return m.ctx }

// Identifier returns the module identifier.
func (m *Module) Identifier() string { return m.ident }

// SetIdentifier sets the module identifier.
func (m *Module) SetIdentifier(ident string) { m.ident = ident }

// TargetTriple returns the target triple.
func (m *Module) TargetTriple() string { return m.triple }

// SetTargetTriple sets the target triple.
func (m *Module) SetTargetTriple(triple string) { m.triple = triple }

// Functions returns the module's functions in creation order.
func (m *Module) Functions() []*Function { return m.funcs }

// Globals returns the module's globals in creation order.
func (m *Module) Globals() []*GlobalVariable { return m.globals }

// Func returns the function with the given name, or nil.
func (m *Module) Func(name string) *Function { return m.funcMap[name] }

// NamedGlobal returns the global with the given name, or nil.
func (m *Module) NamedGlobal(name string) *GlobalVariable { return m.gvMap[name] }

// SetMetadata records a named module-level metadata string.
func (m *Module) SetMetadata(name, value string) { m.metadata[name] = value }

// Metadata returns the named metadata string, "" if absent.
func (m *Module) Metadata(name string) string { return m.metadata[name] }

func (m *Module) addFunction(f *Function) {
	m.funcs = append(m.funcs, f)
	m.funcMap[f.Name()] = f
}

func (m *Module) removeFunction(f *Function) {
	for i, fn := range m.funcs {
		if fn == f {
			m.funcs = append(m.funcs[:i], m.funcs[i+1:]...)
			break
		}
	}
	if m.funcMap[f.Name()] == f {
		delete(m.funcMap, f.Name())
	}
}

func (m *Module) renameFunction(f *Function, name string) {
	if m.funcMap[f.Name()] == f {
		delete(m.funcMap, f.Name())
	}
	m.funcMap[name] = f
}

func (m *Module) addGlobal(gv *GlobalVariable) {
	m.globals = append(m.globals, gv)
	m.gvMap[gv.Name()] = gv
}

func (m *Module) removeGlobal(gv *GlobalVariable) {
	for i, g := range m.globals {
		if g == gv {
			m.globals = append(m.globals[:i], m.globals[i+1:]...)
			break
		}
	}
	if m.gvMap[gv.Name()] == gv {
		delete(m.gvMap, gv.Name())
	}
}

func (m *Module) renameGlobal(gv *GlobalVariable, name string) {
	if m.gvMap[gv.Name()] == gv {
		delete(m.gvMap, gv.Name())
	}
	m.gvMap[name] = gv
}
