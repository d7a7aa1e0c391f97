// Package passes implements the post-link lowering pipeline.
//
// The linker runs these in a fixed order after cloning: always-inline,
// dead-code elimination, global DCE, instruction simplification, CFG
// simplification, resource condensing, view-ID state computation and
// metadata emission. Each pass is a conservative, standalone ir.Pass; the
// pipeline is assembled by the linker.
package passes
