// Package diag provides the structured link diagnostics.
//
// Every failure the linker can report is categorized by a Kind carrying a
// fixed message prefix and the offending identifier. Diagnostics implement
// the standard error interface and support errors.Is matching on Kind:
//
//	err := diag.New(diag.KindUndefFunction, "foo")
//	errors.Is(err, &diag.Diag{Kind: diag.KindUndefFunction})  // true
//
// Operations that can surface several problems in one call accumulate
// diagnostics through a Collector installed as the IR context's diagnostic
// handler.
package diag
