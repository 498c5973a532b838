// Package witidl builds an IDL from WebAssembly Interface Type definitions.
//
// Account layouts can be declared in WIT and encoded with the Borsh rules
// of the account codec:
//
//	record counter { count: u64 }   →  struct counter { count: u64 }
//	variant state { idle, busy(u32) }  →  enum state { idle, busy(u32) }
//	list<u8>                        →  bytes
//	option<string>                  →  option<string>
//	tuple<u32, u64>                 →  struct tuple<u32, u64> (u32, u64)
//
// WIT has no account concept, so the caller names which definitions are
// accounts. They get the default discriminator, sha256("account:" + name)
// truncated to eight bytes.
package witidl
