package diag

import (
	"go.uber.org/multierr"
)

// Collector accumulates diagnostics emitted during one operation. Install
// its Handle method as the IR context's diagnostic handler for the duration
// of the call.
type Collector struct {
	errs []error
}

// NewCollector creates an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Handle records err. Matches the ir.DiagnosticHandler signature.
func (c *Collector) Handle(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// HasErrors reports whether anything was collected.
func (c *Collector) HasErrors() bool { return len(c.errs) > 0 }

// Err combines everything collected into one error, nil if none.
func (c *Collector) Err() error { return multierr.Combine(c.errs...) }

// Diags returns the collected typed diagnostics, skipping foreign errors.
func (c *Collector) Diags() []*Diag {
	out := make([]*Diag, 0, len(c.errs))
	for _, err := range c.errs {
		if d, ok := err.(*Diag); ok {
			out = append(out, d)
		}
	}
	return out
}

// Reset clears the collector for reuse.
func (c *Collector) Reset() { c.errs = nil }
