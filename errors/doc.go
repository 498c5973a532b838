// Package errors provides structured error types for the IDL account codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/IDL type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("vault", "owner").
//		GoType("string").
//		IDLType("pubkey").
//		Detail("expected 32 bytes").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseEncode, path, "string", "u32")
//	err := errors.UnknownAccountType(errors.PhaseDecode, "Counter")
//
// The account registry reports four permanent failure kinds, each with a
// phase-independent sentinel for errors.Is:
//
//	ErrSchema                - schema references an undeclared type
//	ErrUnknownAccountType    - name absent from the registry
//	ErrDiscriminatorMismatch - buffer tagged for another account
//	ErrAccountNotFound       - no declared account matches
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
