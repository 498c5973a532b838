// Package idlcodec provides a Go implementation of an IDL-driven account codec.
//
// An IDL declares account types, each tagged with a discriminator, and the
// structural type definitions behind them. The codec compiles one layout per
// account and frames every encoded record as
//
//	[discriminator bytes][payload bytes]
//
// with a little-endian Borsh payload. Decoding checks the discriminator
// before reading the payload, or sniffs it against every registered account.
//
// # Architecture Overview
//
//	idlcodec/           Root package with the Buffer byte view
//	├── idl/            IDL model and JSON/JSONC/YAML loaders
//	│   └── witidl/     IDL built from WIT type definitions
//	├── layout/         Schema-to-layout compiler (encode/decode/size)
//	├── accounts/       Account registry and codec operations
//	├── errors/         Structured error types
//	└── cmd/idlcodec/   Command-line inspector
//
// # Quick Start
//
//	schema, err := idl.ParseFile("counter.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	coder, err := accounts.New(schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, err := coder.Encode("Counter", map[string]any{"count": uint64(42)})
//	value, err := coder.Decode("Counter", data)
//
// # Thread Safety
//
// A Coder is immutable after construction and safe for concurrent use.
// Encoding buffers are allocated per call.
package idlcodec
