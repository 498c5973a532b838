// Package types defines the compiled type structures for fast encoding.
//
// CompiledType holds the resolved shape of an IDL type (named references
// replaced by pointers, static size precomputed) so the encoder and decoder
// never look definitions up by name on the hot path.
//
// # Key Types
//
//   - CompiledType: Resolved shape with size info
//   - Kind: Shape discriminator (scalar, vec, option, struct, enum, etc.)
//
// This package is internal to the layout compiler.
package types
