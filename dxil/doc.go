// Package dxil models the side-band metadata a DXIL module carries next to
// its IR: shader model and kind, per-function shader properties, entry
// signatures, resource tables and type annotations.
//
// # Main Types
//
//   - Module: the metadata record attached to an ir.Module
//   - ShaderModel / ShaderKind: target profiles like "ps_6_0"
//   - FunctionProps: per-entry shader properties (hull shaders carry their
//     patch-constant companion here)
//   - Resource, CBuffer, Sampler: bindable resource descriptors
//
// A Module is associated with its ir.Module through a package registry:
// GetOrCreate attaches one, ModuleFor looks it up, Release detaches it.
package dxil
