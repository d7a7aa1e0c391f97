// Package ops implements the DXIL intrinsic operation registry.
//
// Every DXIL operation is identified by an integer op code passed as the
// first argument of a call to a specially named function,
// "dx.op.<class>[.<overload>]". Operations sharing one op-code class share
// one function per overload type, so a module contains at most
// classes x overload-slots intrinsic functions.
//
// The per-module OP cache hands out these functions, creating declarations
// on demand, and can be rebuilt from a module's function list after linking
// with RefreshCache.
package ops
