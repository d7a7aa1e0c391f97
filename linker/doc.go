// Package linker implements DXIL shader-library linking.
//
// # Main Types
//
//   - Linker: registered libraries, the attached set and the global
//     function name table
//   - Library: one ingested library module with per-function link metadata
//   - FunctionLinkInfo: a defined function plus everything it pulls in
//
// # Thread Safety
//
// A Linker guards its index structures with a mutex, but the IR modules it
// ingests are confined to the owning goroutine. Callers that need parallel
// links run independent Linker instances.
//
// # Link Flow
//
//  1. RegisterLib ingests a compiled library module under a name
//  2. AttachLib publishes its exports into the name table, atomically
//  3. Link walks the table from an entry, clones everything reachable into
//     a fresh module, merges resources and runs the prepare pipeline
//
// # Example
//
//	lnk := linker.NewWithDefaults(ctx)
//	lnk.RegisterLib("lib_a", modA, nil)
//	lnk.AttachLib("lib_a")
//	out := lnk.Link("main", "ps_6_0")
package linker
