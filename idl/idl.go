package idl

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// DiscriminatorSize is the length of discriminators derived by
// DefaultDiscriminator.
const DiscriminatorSize = 8

// IDL is a program interface description: the declared accounts and the
// type definitions they are built from. Accounts join Types by name.
//
// A nil Types slice means the IDL carries no type-definition set at all;
// an empty, non-nil slice is a set with zero entries.
type IDL struct {
	Address  string       `json:"address,omitempty"`
	Name     string       `json:"name,omitempty"`
	Version  string       `json:"version,omitempty"`
	Accounts []AccountDef `json:"accounts,omitempty"`
	Types    []TypeDef    `json:"types"`
}

// AccountDef declares an account type and its tag.
type AccountDef struct {
	Name          string        `json:"name"`
	Discriminator Discriminator `json:"discriminator"`
}

// TypeDef names a structural shape.
type TypeDef struct {
	Name string      `json:"name"`
	Type TypeDefBody `json:"type"`
}

// TypeDefKind is either a struct or an enum.
type TypeDefKind string

const (
	TypeDefStruct TypeDefKind = "struct"
	TypeDefEnum   TypeDefKind = "enum"
)

// TypeDefBody is the shape of a type definition. Structs use Fields, enums
// use Variants.
type TypeDefBody struct {
	Kind     TypeDefKind `json:"kind"`
	Fields   Fields      `json:"fields,omitempty"`
	Variants []Variant   `json:"variants,omitempty"`
}

// Field is a struct or variant member. Tuple members have no Name.
type Field struct {
	Name string `json:"name,omitempty"`
	Type Type   `json:"type"`
}

// Variant is one case of an enum. A variant without fields is a unit case.
type Variant struct {
	Name   string `json:"name"`
	Fields Fields `json:"fields,omitempty"`
}

// Fields is an ordered member list, either all named or all tuple members.
type Fields []Field

// IsTuple reports whether the members are positional.
func (f Fields) IsTuple() bool {
	return len(f) > 0 && f[0].Name == ""
}

// MarshalJSON writes named members as objects and tuple members as bare types.
func (f Fields) MarshalJSON() ([]byte, error) {
	if !f.IsTuple() {
		return json.Marshal([]Field(f))
	}
	types := make([]Type, len(f))
	for i, field := range f {
		types[i] = field.Type
	}
	return json.Marshal(types)
}

// UnmarshalJSON accepts [{"name": ..., "type": ...}] and [T, T, ...].
func (f *Fields) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Fields, 0, len(raw))
	named := -1
	for i, item := range raw {
		var probe map[string]json.RawMessage
		isNamed := json.Unmarshal(item, &probe) == nil && probe["type"] != nil
		if named == -1 {
			named = boolInt(isNamed)
		} else if named != boolInt(isNamed) {
			return fmt.Errorf("field %d: cannot mix named and tuple fields", i)
		}
		if isNamed {
			var field Field
			if err := json.Unmarshal(item, &field); err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
			if field.Name == "" {
				return fmt.Errorf("field %d: empty name", i)
			}
			out = append(out, field)
			continue
		}
		var typ Type
		if err := json.Unmarshal(item, &typ); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		out = append(out, Field{Type: typ})
	}
	*f = out
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Discriminator is the byte tag that prefixes every encoded account.
type Discriminator []byte

// MarshalJSON writes the tag as an array of numbers.
func (d Discriminator) MarshalJSON() ([]byte, error) {
	nums := make([]int, len(d))
	for i, b := range d {
		nums[i] = int(b)
	}
	return json.Marshal(nums)
}

// UnmarshalJSON reads an array of byte values.
func (d *Discriminator) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("discriminator: %w", err)
	}
	out := make(Discriminator, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("discriminator byte %d out of range: %d", i, n)
		}
		out[i] = byte(n)
	}
	*d = out
	return nil
}

// DefaultDiscriminator derives the Anchor account tag,
// sha256("account:" + name)[:8].
func DefaultDiscriminator(name string) Discriminator {
	sum := sha256.Sum256([]byte("account:" + name))
	return Discriminator(sum[:DiscriminatorSize])
}

// Account returns the account declaration named name.
func (i *IDL) Account(name string) (AccountDef, bool) {
	for _, acc := range i.Accounts {
		if acc.Name == name {
			return acc, true
		}
	}
	return AccountDef{}, false
}

// TypeDef returns the type definition named name.
func (i *IDL) TypeDef(name string) (TypeDef, bool) {
	return FindTypeDef(i.Types, name)
}

// FindTypeDef looks a definition up by name.
func FindTypeDef(defs []TypeDef, name string) (TypeDef, bool) {
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return TypeDef{}, false
}

// String renders the definition body in a compact, Rust-like form.
func (b TypeDefBody) String() string {
	var sb strings.Builder
	switch b.Kind {
	case TypeDefEnum:
		sb.WriteString("enum { ")
		for i, v := range b.Variants {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.Name)
			if len(v.Fields) > 0 {
				sb.WriteString(v.Fields.String())
			}
		}
		sb.WriteString(" }")
	default:
		sb.WriteString("struct ")
		sb.WriteString(b.Fields.String())
	}
	return sb.String()
}

func (f Fields) String() string {
	var sb strings.Builder
	open, closing := "{ ", " }"
	if f.IsTuple() {
		open, closing = "(", ")"
	}
	sb.WriteString(open)
	for i, field := range f {
		if i > 0 {
			sb.WriteString(", ")
		}
		if field.Name != "" {
			sb.WriteString(field.Name)
			sb.WriteString(": ")
		}
		sb.WriteString(field.Type.String())
	}
	sb.WriteString(closing)
	return sb.String()
}
