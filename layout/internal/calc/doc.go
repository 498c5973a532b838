// Package calc computes static sizes for compiled types.
//
// The Calculator walks a compiled type graph and caches results by node.
// Sizes follow the Borsh wire format:
//
//	Type            Static size
//	───────────────────────────────────────
//	bool/u8/i8      1
//	u16/i16         2
//	u32/i32/f32     4
//	u64/i64/f64     8
//	u128/i128       16
//	pubkey          32
//	bytes/string    4 (length prefix only)
//	vec<T>          4 (length prefix only)
//	option<T>       1 + size(T)
//	coption<T>      4 + size(T)
//	array<T, N>     N * size(T)
//	struct          sum of fields
//	enum            1 + largest variant
//
// A vec, bytes or string is the only place a type may refer to itself;
// any other cycle has no finite size and is reported as a schema error.
//
// This package is internal to the layout compiler.
package calc
