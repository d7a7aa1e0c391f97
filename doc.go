// Package dxlink links previously compiled DXIL shader libraries into a
// single executable shader module.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	dxlink/
//	├── ir/       Typed IR graph: modules, functions, globals, instructions,
//	│             use lists, value-map cloning, pass manager
//	├── dxil/     DXIL side-band metadata: shader models, function properties,
//	│             entry signatures, resources, type annotations
//	├── ops/      DXIL intrinsic registry: op-code table, overload slots,
//	│             per-module function caches
//	├── linker/   Library ingestion, attach/detach session, link job,
//	│             diagnostics
//	└── passes/   Post-link lowering pipeline
//
// # Quick Start
//
// Register compiled libraries, attach the ones that should participate, and
// link an entry point against a target profile:
//
//	lnk := linker.New(ctx, linker.DefaultOptions())
//	lnk.RegisterLib("lib_a", modA, nil)
//	lnk.RegisterLib("lib_b", modB, nil)
//	lnk.AttachLib("lib_a")
//	lnk.AttachLib("lib_b")
//	out := lnk.Link("main", "ps_6_0")
//
// Link returns nil on failure, with diagnostics emitted through ctx. On
// success the returned module is self-contained: every function reachable
// from the entry has been cloned in, resources are merged and renumbered, and
// static constructors are scheduled at the entry prologue.
package dxlink
