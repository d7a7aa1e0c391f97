// Package ir implements the typed intermediate representation the linker
// operates on.
//
// # Main Types
//
//   - Context: interns types and routes diagnostics
//   - Module: container owning functions and globals
//   - Function, GlobalVariable, BasicBlock, Instruction: the value graph
//   - ValueMap + CloneFunctionInto: reference-rewriting deep copy
//   - PassManager: ordered transform pipeline
//
// # Use Lists
//
// Every value tracks its users. ReplaceAllUsesWith and operand mutation keep
// both sides of the graph consistent, so callers can walk from a function or
// global to every instruction and constant that references it.
//
// # Thread Safety
//
// A Context and the modules created from it are confined to one goroutine.
// Callers that need parallelism create independent contexts.
package ir
