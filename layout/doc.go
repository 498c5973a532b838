// Package layout compiles IDL type definitions into Borsh encoders and
// decoders.
//
// # Wire Format
//
// Values are written little-endian with no padding or alignment:
//
//	Type            Encoding
//	──────────────────────────────────────────────────────────
//	bool            1 byte, 0 or 1
//	u8..u128        fixed width, little-endian
//	i8..i128        two's complement, little-endian
//	f32/f64         IEEE 754 bits
//	pubkey          32 raw bytes
//	bytes/string    u32 length, then the bytes
//	vec<T>          u32 count, then each element
//	array<T, N>     N elements, no prefix
//	option<T>       u8 tag (0 none, 1 some), then T when present
//	coption<T>      u32 tag, then a T slot that is zero-filled when absent
//	struct          fields in declaration order
//	enum            u8 variant index, then the variant's fields
//
// # Dynamic Values
//
// Encode accepts and Decode produces plain Go values:
//
//	struct          map[string]any
//	tuple struct    []any
//	enum            map[string]any{"Variant": payload} (payload nil for unit)
//	vec/array       []any ([]byte and typed slices accepted on encode)
//	option          nil or the value
//	bytes           []byte
//	pubkey          PublicKey
//	u128/i128       *big.Int
//
// Encoding coerces any Go number that fits the target, so values decoded
// from JSON (float64) encode directly. 128-bit integers also accept
// decimal strings, and enums accept the bare name of a unit variant. A
// single-field tuple variant takes its value bare or as a one-element []any.
//
// # Compilation
//
// Compiler.Compile resolves defined references against the full set of
// type definitions, precomputes static sizes and caches the result:
//
//	c := layout.NewCompiler()
//	l, err := c.Compile(def, schema.Types)
//	n, err := l.EncodedSize(value)
//	buf := make([]byte, n)
//	_, err = l.Encode(value, buf)
//	v, err := l.Decode(idlcodec.Buffer(buf))
//
// A type may refer to itself only through a vec. Other cycles have no
// finite encoding and fail compilation with a schema error.
//
// # Static Size
//
// StaticSize and Layout.StaticSize count bytes, string and vec as empty
// (their length prefix) and option as its tag plus element. IsFixedSize
// reports the types whose every value has exactly that size.
//
// # Thread Safety
//
// Compiler and Layout are safe for concurrent use. Encode writes only to
// the caller's destination slice.
//
// # Error Handling
//
// Errors carry the path of the failing value:
//
//	[encode] field_missing at Vault: required field "owner" not found
//	[decode] out_of_bounds at Vault.history[2].amount: index 64 out of bounds (length 60)
package layout
