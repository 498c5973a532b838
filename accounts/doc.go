// Package accounts encodes and decodes discriminator-framed account data.
//
// A Coder is built once from an IDL. For every declared account it keeps
// the account's discriminator and the compiled layout of the same-named
// type definition:
//
//	┌────────────────────┬──────────────────────────────┐
//	│ discriminator      │ Borsh payload                │
//	│ (schema supplied)  │ (layout of the type def)     │
//	└────────────────────┴──────────────────────────────┘
//
// # Operations
//
//	Encode            value → discriminator ++ payload
//	Decode            checks the discriminator, then decodes the payload
//	DecodeUnchecked   strips the discriminator without checking it
//	DecodeAny         decodes as the first account whose tag prefixes the buffer
//	Size              discriminator + static payload size
//	Memcmp            base58 filter matching the discriminator at offset 0
//	DataSize          filter matching the exact length of fixed-size accounts
//	DecodeInto        Decode into a Go struct
//	EncodeFrom        Encode from a Go struct
//
// # Example
//
//	schema, err := idl.ParseFile("counter.json")
//	coder, err := accounts.New(schema)
//	data, err := coder.Encode("Counter", map[string]any{"count": 42})
//	value, err := coder.Decode("Counter", data)
//
// # Discriminator Collisions
//
// Discriminators that are equal, or where one prefixes another, are not
// rejected. DecodeAny resolves them in declaration order. They are logged
// as warnings at construction and reported by Coder.Collisions.
//
// # Errors
//
// Failures are *errors.Error values that match the sentinels under
// errors.Is:
//
//	errors.ErrSchema                  construction, Size of an undeclared account
//	errors.ErrUnknownAccountType      Encode, Decode, DecodeUnchecked, Size
//	errors.ErrDiscriminatorMismatch   Decode
//	errors.ErrAccountNotFound         DecodeAny, AccountDiscriminator, Memcmp
//
// # Thread Safety
//
// A Coder is immutable after construction and safe for concurrent use.
// Each Encode allocates its own buffer.
package accounts
