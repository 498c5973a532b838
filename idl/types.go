package idl

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TypeKind names a type shape. Primitive kinds are spelled as in the IDL.
type TypeKind string

const (
	KindBool   TypeKind = "bool"
	KindU8     TypeKind = "u8"
	KindI8     TypeKind = "i8"
	KindU16    TypeKind = "u16"
	KindI16    TypeKind = "i16"
	KindU32    TypeKind = "u32"
	KindI32    TypeKind = "i32"
	KindF32    TypeKind = "f32"
	KindU64    TypeKind = "u64"
	KindI64    TypeKind = "i64"
	KindF64    TypeKind = "f64"
	KindU128   TypeKind = "u128"
	KindI128   TypeKind = "i128"
	KindBytes  TypeKind = "bytes"
	KindString TypeKind = "string"
	KindPubkey TypeKind = "pubkey"

	KindVec     TypeKind = "vec"
	KindOption  TypeKind = "option"
	KindCOption TypeKind = "coption"
	KindArray   TypeKind = "array"
	KindDefined TypeKind = "defined"
)

var primitives = map[TypeKind]bool{
	KindBool: true, KindU8: true, KindI8: true, KindU16: true, KindI16: true,
	KindU32: true, KindI32: true, KindF32: true, KindU64: true, KindI64: true,
	KindF64: true, KindU128: true, KindI128: true, KindBytes: true,
	KindString: true, KindPubkey: true,
}

// IsPrimitive reports whether k names a leaf type.
func (k TypeKind) IsPrimitive() bool {
	return primitives[k]
}

// Type is a reference to a value shape: a primitive, a container of another
// Type, or a named type definition.
type Type struct {
	Elem    *Type
	Kind    TypeKind
	Defined string
	Len     int
}

func Primitive(kind TypeKind) Type { return Type{Kind: kind} }

func Vec(elem Type) Type { return Type{Kind: KindVec, Elem: &elem} }

func Option(elem Type) Type { return Type{Kind: KindOption, Elem: &elem} }

func COption(elem Type) Type { return Type{Kind: KindCOption, Elem: &elem} }

func Array(elem Type, n int) Type { return Type{Kind: KindArray, Elem: &elem, Len: n} }

func Defined(name string) Type { return Type{Kind: KindDefined, Defined: name} }

// String renders the type as vec<u8>, array<u64, 4>, Name, and so on.
func (t Type) String() string {
	switch t.Kind {
	case KindVec, KindOption, KindCOption:
		return string(t.Kind) + "<" + t.elemString() + ">"
	case KindArray:
		return "array<" + t.elemString() + ", " + strconv.Itoa(t.Len) + ">"
	case KindDefined:
		return t.Defined
	default:
		return string(t.Kind)
	}
}

func (t Type) elemString() string {
	if t.Elem == nil {
		return "?"
	}
	return t.Elem.String()
}

// MarshalJSON writes the Anchor IDL form.
func (t Type) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case KindVec, KindOption, KindCOption:
		if t.Elem == nil {
			return nil, fmt.Errorf("%s type without element", t.Kind)
		}
		return json.Marshal(map[string]Type{string(t.Kind): *t.Elem})
	case KindArray:
		if t.Elem == nil {
			return nil, fmt.Errorf("array type without element")
		}
		return json.Marshal(map[string][]any{"array": {*t.Elem, t.Len}})
	case KindDefined:
		return json.Marshal(map[string]string{"defined": t.Defined})
	default:
		return json.Marshal(string(t.Kind))
	}
}

// UnmarshalJSON accepts "u64", {"vec": T}, {"option": T}, {"coption": T},
// {"array": [T, N]}, {"defined": "Name"} and {"defined": {"name": "Name"}}.
func (t *Type) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := parseType(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func parseType(v any) (Type, error) {
	switch val := v.(type) {
	case string:
		kind := TypeKind(val)
		if kind == "publicKey" {
			kind = KindPubkey
		}
		if !kind.IsPrimitive() {
			return Type{}, fmt.Errorf("unknown primitive type %q", val)
		}
		return Type{Kind: kind}, nil

	case map[string]any:
		if len(val) != 1 {
			return Type{}, fmt.Errorf("type object must have exactly one key, got %d", len(val))
		}
		for key, inner := range val {
			switch TypeKind(key) {
			case KindVec, KindOption, KindCOption:
				elem, err := parseType(inner)
				if err != nil {
					return Type{}, fmt.Errorf("%s: %w", key, err)
				}
				return Type{Kind: TypeKind(key), Elem: &elem}, nil

			case KindArray:
				pair, ok := inner.([]any)
				if !ok || len(pair) != 2 {
					return Type{}, fmt.Errorf("array: want [type, length]")
				}
				elem, err := parseType(pair[0])
				if err != nil {
					return Type{}, fmt.Errorf("array: %w", err)
				}
				n, err := parseLength(pair[1])
				if err != nil {
					return Type{}, fmt.Errorf("array: %w", err)
				}
				return Type{Kind: KindArray, Elem: &elem, Len: n}, nil

			case KindDefined:
				switch d := inner.(type) {
				case string:
					return Defined(d), nil
				case map[string]any:
					name, _ := d["name"].(string)
					if name == "" {
						return Type{}, fmt.Errorf("defined: missing name")
					}
					return Defined(name), nil
				}
				return Type{}, fmt.Errorf("defined: want name string or object")

			default:
				return Type{}, fmt.Errorf("unknown type constructor %q", key)
			}
		}
	}
	return Type{}, fmt.Errorf("unsupported type form %T", v)
}

func parseLength(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, fmt.Errorf("invalid length %v", n)
		}
		return int(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("invalid length %d", n)
		}
		return n, nil
	}
	return 0, fmt.Errorf("length must be a number, got %T", v)
}
