// Package idl defines the interface description consumed by the account codec.
//
// An IDL lists account declarations (name + discriminator) and type
// definitions (name + struct or enum body). Accounts reference definitions
// by name only; nothing here checks that the references resolve, which is
// the account registry's job.
//
// IDL files use the Anchor JSON layout. Parse tolerates comments and
// trailing commas; ParseYAML accepts the same structure as YAML. Accounts
// without an explicit discriminator get DefaultDiscriminator.
package idl
