// Package errors provides structured error types for the wasm-descriptor module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: node path, boundary type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindFieldMissing).
//		Path("imports", "2", "shim").
//		Detail("import function has no shim").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsafeString(errors.PhaseEncode, path, s, 3)
//	err := errors.InvalidSetter(errors.PhaseValidate, path, "width")
//
// The encoder treats malformed trees as contract violations and panics with
// an *Error. Recover turns such a panic back into an error at an API boundary:
//
//	func safeEncode(p *ast.Program) (out []byte, err error) {
//		defer errors.Recover(&err)
//		return literal.Encode(p, literal.DefaultOptions()), nil
//	}
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
