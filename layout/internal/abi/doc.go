// Package abi provides internal utilities for Borsh encoding/decoding.
//
// This package contains type coercion helpers, checked arithmetic and the
// safety limits used by the layout package.
//
// # Contents
//
//   - coerce.go: Coercion from dynamic Go values to fixed-width integers,
//     floats and 128-bit integers
//   - helpers.go: Shared limits and checked arithmetic
//
// This package is internal to the layout compiler.
package abi
