package ir

// Pass transforms or analyzes a module. Run reports whether the module was
// changed.
type Pass interface {
	Name() string
	Run(m *Module) bool
}

// PassManager runs an ordered sequence of passes over a module.
type PassManager struct {
	passes []Pass
}

// NewPassManager creates an empty pass manager.
func NewPassManager() *PassManager { return &PassManager{} }

// Add appends a pass to the pipeline.
func (pm *PassManager) Add(p Pass) { pm.passes = append(pm.passes, p) }

// Run executes every pass in order and reports whether any changed the
// module.
func (pm *PassManager) Run(m *Module) bool {
	changed := false
	for _, p := range pm.passes {
		if p.Run(m) {
			changed = true
		}
	}
	return changed
}
