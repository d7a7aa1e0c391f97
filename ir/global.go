package ir

// ThreadLocalMode is the thread-local storage model of a global.
type ThreadLocalMode uint8

const (
	// NotThreadLocal globals are shared process-wide.
	NotThreadLocal ThreadLocalMode = iota
	// GeneralDynamicTLSModel is the default TLS model.
	GeneralDynamicTLSModel
)

// GlobalVariable is a module-scope variable. Its value type is the pointee;
// Type() is the pointer through which instructions access it.
type GlobalVariable struct {
	userBase
	parent       *Module
	valueType    *Type
	link         Linkage
	tlm          ThreadLocalMode
	isConst      bool
	externalInit bool
}

// NewGlobalVariable creates a global in m. init may be nil for a declaration
// without initializer.
func NewGlobalVariable(m *Module, valueType *Type, isConst bool, link Linkage, init Constant, name string, tlm ThreadLocalMode, addrSpace uint32, externalInit bool) *GlobalVariable {
	gv := &GlobalVariable{
		parent:       m,
		valueType:    valueType,
		link:         link,
		tlm:          tlm,
		isConst:      isConst,
		externalInit: externalInit,
	}
	gv.typ = m.Context().PointerType(valueType, addrSpace)
	gv.name = name
	if init != nil {
		gv.initOperands(gv, []Value{init})
	}
	m.addGlobal(gv)
	return gv
}

func (gv *GlobalVariable) constant() {}

// Parent returns the owning module.
func (gv *GlobalVariable) Parent() *Module { return gv.parent }

// ValueType returns the pointee type.
func (gv *GlobalVariable) ValueType() *Type { return gv.valueType }

// AddrSpace returns the address space the global lives in.
func (gv *GlobalVariable) AddrSpace() uint32 { return gv.typ.AddrSpace() }

// Linkage returns the global's linkage.
func (gv *GlobalVariable) Linkage() Linkage { return gv.link }

// IsConstant reports whether the global is immutable.
func (gv *GlobalVariable) IsConstant() bool { return gv.isConst }

// ThreadLocalMode returns the TLS model.
func (gv *GlobalVariable) ThreadLocalMode() ThreadLocalMode { return gv.tlm }

// IsExternallyInitialized reports whether the initial contents come from
// outside the module.
func (gv *GlobalVariable) IsExternallyInitialized() bool { return gv.externalInit }

// HasInitializer reports whether the global carries an initializer.
func (gv *GlobalVariable) HasInitializer() bool { return len(gv.operands) == 1 && gv.operands[0] != nil }

// Initializer returns the initializer, or nil.
func (gv *GlobalVariable) Initializer() Constant {
	if !gv.HasInitializer() {
		return nil
	}
	return gv.operands[0].(Constant)
}

// SetInitializer installs or replaces the initializer.
func (gv *GlobalVariable) SetInitializer(init Constant) {
	if len(gv.operands) == 0 {
		gv.initOperands(gv, []Value{init})
		return
	}
	gv.setOperand(gv, 0, init)
}

// SetOperand replaces operand i (the initializer).
func (gv *GlobalVariable) SetOperand(i int, v Value) { gv.setOperand(gv, i, v) }

// SetName renames the global, updating the module's symbol table.
func (gv *GlobalVariable) SetName(name string) {
	if gv.parent != nil {
		gv.parent.renameGlobal(gv, name)
	}
	gv.name = name
}

// RemoveFromParent unlinks the global from its module.
func (gv *GlobalVariable) RemoveFromParent() {
	if gv.parent != nil {
		gv.parent.removeGlobal(gv)
		gv.parent = nil
	}
}
