package witidl

import (
	"fmt"
	"io"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/idl"
)

// Load decodes a WIT resolve document (the JSON form printed by
// wasm-tools component wit --json) and converts its type definitions.
func Load(r io.Reader, accounts []string) (*idl.IDL, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, errors.ParseFailed("WIT JSON", err)
	}
	out, err := FromTypeDefs(res.TypeDefs, accounts)
	if err != nil {
		return nil, err
	}
	if len(res.Packages) > 0 {
		out.Name = res.Packages[0].Name.String()
	}
	return out, nil
}

// FromTypeDefs converts named WIT type definitions into IDL type
// definitions and declares the listed accounts with default
// discriminators.
//
// Records become structs. Variants and enums become enums, as do results
// (cases ok and err). Anonymous tuples and results are lifted into
// definitions named after their shape. list<u8> becomes bytes, other lists
// become vec, flags become the smallest unsigned integer that holds them
// and char becomes u32. Resources, handles, futures and streams have no
// account encoding and are rejected when referenced.
func FromTypeDefs(defs []*wit.TypeDef, accounts []string) (*idl.IDL, error) {
	c := &converter{
		owners: make(map[string]*wit.TypeDef),
		out:    &idl.IDL{Types: []idl.TypeDef{}},
	}

	for _, td := range defs {
		if td == nil || td.Name == nil || !c.declares(td) {
			continue
		}
		if _, err := c.typeDef(td); err != nil {
			return nil, err
		}
	}

	for _, name := range accounts {
		if _, ok := c.out.TypeDef(name); !ok {
			return nil, errors.Schema(errors.PhaseLoad, "account %q is not a WIT record, variant or enum", name)
		}
		c.out.Accounts = append(c.out.Accounts, idl.AccountDef{
			Name:          name,
			Discriminator: idl.DefaultDiscriminator(name),
		})
	}
	return c.out, nil
}

type converter struct {
	owners map[string]*wit.TypeDef
	out    *idl.IDL
}

// declares reports whether td becomes a type definition of its own rather
// than being inlined where it is used.
func (c *converter) declares(td *wit.TypeDef) bool {
	switch td.Kind.(type) {
	case *wit.Record, *wit.Variant, *wit.Enum, *wit.Tuple, *wit.Result:
		return true
	}
	return false
}

func (c *converter) typeRef(t wit.Type) (idl.Type, error) {
	switch v := t.(type) {
	case wit.Bool:
		return idl.Primitive(idl.KindBool), nil
	case wit.U8:
		return idl.Primitive(idl.KindU8), nil
	case wit.S8:
		return idl.Primitive(idl.KindI8), nil
	case wit.U16:
		return idl.Primitive(idl.KindU16), nil
	case wit.S16:
		return idl.Primitive(idl.KindI16), nil
	case wit.U32, wit.Char:
		return idl.Primitive(idl.KindU32), nil
	case wit.S32:
		return idl.Primitive(idl.KindI32), nil
	case wit.U64:
		return idl.Primitive(idl.KindU64), nil
	case wit.S64:
		return idl.Primitive(idl.KindI64), nil
	case wit.F32:
		return idl.Primitive(idl.KindF32), nil
	case wit.F64:
		return idl.Primitive(idl.KindF64), nil
	case wit.String:
		return idl.Primitive(idl.KindString), nil
	case *wit.TypeDef:
		if c.declares(v) {
			return c.typeDef(v)
		}
		return c.inline(v)
	case nil:
		return idl.Type{}, errors.InvalidInput(errors.PhaseLoad, "nil WIT type")
	default:
		return idl.Type{}, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("WIT type %T", t))
	}
}

func (c *converter) inline(td *wit.TypeDef) (idl.Type, error) {
	switch k := td.Kind.(type) {
	case *wit.List:
		if _, ok := k.Type.(wit.U8); ok {
			return idl.Primitive(idl.KindBytes), nil
		}
		elem, err := c.typeRef(k.Type)
		if err != nil {
			return idl.Type{}, err
		}
		return idl.Vec(elem), nil
	case *wit.Option:
		elem, err := c.typeRef(k.Type)
		if err != nil {
			return idl.Type{}, err
		}
		return idl.Option(elem), nil
	case *wit.Flags:
		return flagsType(k)
	case wit.Type:
		return c.typeRef(k)
	default:
		return idl.Type{}, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("WIT %s %s", kindName(td.Kind), typeLabel(td)))
	}
}

func flagsType(f *wit.Flags) (idl.Type, error) {
	switch n := len(f.Flags); {
	case n <= 8:
		return idl.Primitive(idl.KindU8), nil
	case n <= 16:
		return idl.Primitive(idl.KindU16), nil
	case n <= 32:
		return idl.Primitive(idl.KindU32), nil
	case n <= 64:
		return idl.Primitive(idl.KindU64), nil
	default:
		return idl.Type{}, errors.Unsupported(errors.PhaseLoad, fmt.Sprintf("flags with %d members", n))
	}
}

// typeDef registers the definition for td, once, and returns a reference
// to it. The name is reserved before the body is converted.
func (c *converter) typeDef(td *wit.TypeDef) (idl.Type, error) {
	name := typeLabel(td)
	if owner, ok := c.owners[name]; ok {
		if owner != td && td.Name != nil {
			return idl.Type{}, errors.Schema(errors.PhaseLoad, "duplicate WIT type name %q", name)
		}
		return idl.Defined(name), nil
	}
	c.owners[name] = td

	body, err := c.body(td)
	if err != nil {
		return idl.Type{}, errors.Wrap(errors.PhaseLoad, errors.KindSchema, err, "convert "+name)
	}
	c.out.Types = append(c.out.Types, idl.TypeDef{Name: name, Type: body})
	return idl.Defined(name), nil
}

func (c *converter) body(td *wit.TypeDef) (idl.TypeDefBody, error) {
	switch k := td.Kind.(type) {
	case *wit.Record:
		fields := make(idl.Fields, 0, len(k.Fields))
		for _, f := range k.Fields {
			t, err := c.typeRef(f.Type)
			if err != nil {
				return idl.TypeDefBody{}, err
			}
			fields = append(fields, idl.Field{Name: f.Name, Type: t})
		}
		return idl.TypeDefBody{Kind: idl.TypeDefStruct, Fields: fields}, nil

	case *wit.Tuple:
		fields := make(idl.Fields, 0, len(k.Types))
		for _, typ := range k.Types {
			t, err := c.typeRef(typ)
			if err != nil {
				return idl.TypeDefBody{}, err
			}
			fields = append(fields, idl.Field{Type: t})
		}
		return idl.TypeDefBody{Kind: idl.TypeDefStruct, Fields: fields}, nil

	case *wit.Variant:
		variants := make([]idl.Variant, 0, len(k.Cases))
		for _, cs := range k.Cases {
			v, err := c.variant(cs.Name, cs.Type)
			if err != nil {
				return idl.TypeDefBody{}, err
			}
			variants = append(variants, v)
		}
		return idl.TypeDefBody{Kind: idl.TypeDefEnum, Variants: variants}, nil

	case *wit.Enum:
		variants := make([]idl.Variant, len(k.Cases))
		for i, cs := range k.Cases {
			variants[i] = idl.Variant{Name: cs.Name}
		}
		return idl.TypeDefBody{Kind: idl.TypeDefEnum, Variants: variants}, nil

	case *wit.Result:
		ok, err := c.variant("ok", k.OK)
		if err != nil {
			return idl.TypeDefBody{}, err
		}
		fail, err := c.variant("err", k.Err)
		if err != nil {
			return idl.TypeDefBody{}, err
		}
		return idl.TypeDefBody{Kind: idl.TypeDefEnum, Variants: []idl.Variant{ok, fail}}, nil
	}
	return idl.TypeDefBody{}, errors.Unsupported(errors.PhaseLoad, "WIT "+kindName(td.Kind))
}

func (c *converter) variant(name string, payload wit.Type) (idl.Variant, error) {
	if payload == nil {
		return idl.Variant{Name: name}, nil
	}
	t, err := c.typeRef(payload)
	if err != nil {
		return idl.Variant{}, err
	}
	return idl.Variant{Name: name, Fields: idl.Fields{{Type: t}}}, nil
}

// typeLabel names a WIT type: the declared name when there is one,
// otherwise its shape, e.g. tuple<u32, string>.
func typeLabel(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		switch k := v.Kind.(type) {
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, typ := range k.Types {
				parts[i] = typeLabel(typ)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		case *wit.Result:
			return "result<" + typeLabel(k.OK) + ", " + typeLabel(k.Err) + ">"
		case *wit.List:
			return "list<" + typeLabel(k.Type) + ">"
		case *wit.Option:
			return "option<" + typeLabel(k.Type) + ">"
		case wit.Type:
			return typeLabel(k)
		}
		return kindName(v.Kind)
	}
	return primitiveName(t)
}

func primitiveName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	}
	return fmt.Sprintf("%T", t)
}

func kindName(k wit.TypeDefKind) string {
	return strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", k), "*wit."))
}
