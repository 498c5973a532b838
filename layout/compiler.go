package layout

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/idl"
	"github.com/wippyai/idl-codec/layout/internal/abi"
	"github.com/wippyai/idl-codec/layout/internal/calc"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

// Compiler turns IDL type definitions into Layouts. It is safe for
// concurrent use.
type Compiler struct {
	cache sync.Map // cacheKey -> *compiledLayout
}

// cacheKey identifies a definition within one type-definition set.
type cacheKey struct {
	defs *idl.TypeDef
	name string
	n    int
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile builds the layout of def, resolving defined references by name
// against defs. def is normally one of defs.
func (c *Compiler) Compile(def idl.TypeDef, defs []idl.TypeDef) (Layout, error) {
	key := cacheKey{name: def.Name, n: len(defs)}
	if len(defs) > 0 {
		key.defs = &defs[0]
	}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*compiledLayout), nil
	}

	st := newCompileState(defs, errors.PhaseCompile)
	ct, err := st.compileDef(def, []string{def.Name})
	if err != nil {
		return nil, err
	}
	if err := st.finish(ct); err != nil {
		return nil, err
	}

	l := &compiledLayout{ct: ct}
	actual, _ := c.cache.LoadOrStore(key, l)

	Logger().Debug("compiled layout",
		zap.String("type", def.Name),
		zap.String("kind", ct.Kind.String()),
		zap.Int("static_size", ct.Size),
		zap.Bool("fixed", ct.Fixed))

	return actual.(*compiledLayout), nil
}

// CompileType builds the layout of an arbitrary type reference.
func (c *Compiler) CompileType(t idl.Type, defs []idl.TypeDef) (Layout, error) {
	st := newCompileState(defs, errors.PhaseCompile)
	ct, err := st.compileType(t, []string{t.String()})
	if err != nil {
		return nil, err
	}
	if err := st.finish(ct); err != nil {
		return nil, err
	}
	return &compiledLayout{ct: ct}, nil
}

// StaticSize is the static size of t, computed from the schema's type
// definitions. Length-prefixed shapes contribute only their prefix; options
// contribute their tag and element.
func StaticSize(t idl.Type, schema *idl.IDL) (int, error) {
	var defs []idl.TypeDef
	if schema != nil {
		defs = schema.Types
	}
	st := newCompileState(defs, errors.PhaseSize)
	ct, err := st.compileType(t, []string{t.String()})
	if err != nil {
		return 0, err
	}
	info, err := calc.NewCalculator(errors.PhaseSize).Calculate(ct)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// compileState tracks the definitions compiled for one root. A definition
// is registered before its members are compiled so self references
// resolve to the same node.
type compileState struct {
	defined map[string]*types.CompiledType
	defs    []idl.TypeDef
	phase   errors.Phase
}

func newCompileState(defs []idl.TypeDef, phase errors.Phase) *compileState {
	return &compileState{
		defined: make(map[string]*types.CompiledType),
		defs:    defs,
		phase:   phase,
	}
}

func (s *compileState) compileType(t idl.Type, path []string) (*types.CompiledType, error) {
	if kind, ok := primitiveKinds[t.Kind]; ok {
		return &types.CompiledType{Kind: kind}, nil
	}

	switch t.Kind {
	case idl.KindVec, idl.KindOption, idl.KindCOption, idl.KindArray:
		if t.Elem == nil {
			return nil, errors.New(s.phase, errors.KindSchema).
				Path(path...).
				Detail("%s without element type", t.Kind).
				Build()
		}
		if t.Kind == idl.KindArray && t.Len < 0 {
			return nil, errors.New(s.phase, errors.KindSchema).
				Path(path...).
				Detail("negative array length %d", t.Len).
				Build()
		}
		elem, err := s.compileType(*t.Elem, path)
		if err != nil {
			return nil, err
		}
		return &types.CompiledType{Kind: containerKinds[t.Kind], Elem: elem, Len: t.Len}, nil

	case idl.KindDefined:
		return s.compileDefined(t.Defined, path)

	default:
		return nil, errors.New(s.phase, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported type %q", string(t.Kind)).
			Build()
	}
}

var containerKinds = map[idl.TypeKind]Kind{
	idl.KindVec:     KindVec,
	idl.KindOption:  KindOption,
	idl.KindCOption: KindCOption,
	idl.KindArray:   KindArray,
}

func (s *compileState) compileDefined(name string, path []string) (*types.CompiledType, error) {
	if ct, ok := s.defined[name]; ok {
		return ct, nil
	}
	def, ok := idl.FindTypeDef(s.defs, name)
	if !ok {
		return nil, errors.New(s.phase, errors.KindSchema).
			Path(path...).
			Detail("unknown type %q", name).
			Build()
	}
	return s.compileDef(def, path)
}

func (s *compileState) compileDef(def idl.TypeDef, path []string) (*types.CompiledType, error) {
	ct := &types.CompiledType{Name: def.Name}
	s.defined[def.Name] = ct

	switch def.Type.Kind {
	case idl.TypeDefStruct:
		ct.Kind = KindStruct
		if def.Type.Fields.IsTuple() {
			ct.Kind = KindTuple
		}
		fields, err := s.compileFields(def.Type.Fields, path)
		if err != nil {
			return nil, err
		}
		ct.Fields = fields

	case idl.TypeDefEnum:
		ct.Kind = KindEnum
		if len(def.Type.Variants) > abi.MaxVariants {
			return nil, errors.New(s.phase, errors.KindSchema).
				Path(path...).
				Detail("enum %q has %d variants, max %d", def.Name, len(def.Type.Variants), abi.MaxVariants).
				Build()
		}
		seen := make(map[string]bool, len(def.Type.Variants))
		for _, v := range def.Type.Variants {
			if seen[v.Name] {
				return nil, errors.New(s.phase, errors.KindSchema).
					Path(path...).
					Detail("enum %q declares variant %q twice", def.Name, v.Name).
					Build()
			}
			seen[v.Name] = true
			fields, err := s.compileFields(v.Fields, fieldPath(path, v.Name))
			if err != nil {
				return nil, err
			}
			ct.Variants = append(ct.Variants, types.Variant{
				Name:   v.Name,
				Fields: fields,
				Tuple:  v.Fields.IsTuple(),
			})
		}

	default:
		return nil, errors.New(s.phase, errors.KindSchema).
			Path(path...).
			Detail("type %q has unknown kind %q", def.Name, string(def.Type.Kind)).
			Build()
	}
	return ct, nil
}

func (s *compileState) compileFields(fields idl.Fields, path []string) ([]types.Field, error) {
	out := make([]types.Field, 0, len(fields))
	for i, f := range fields {
		ft, err := s.compileType(f.Type, memberPath(path, f.Name, i))
		if err != nil {
			return nil, err
		}
		out = append(out, types.Field{Name: f.Name, Type: ft})
	}
	return out, nil
}

// finish sizes every node reachable from root and checks the constraints
// that depend on sizes.
func (s *compileState) finish(root *types.CompiledType) error {
	c := calc.NewCalculator(s.phase)
	if _, err := c.Calculate(root); err != nil {
		return err
	}

	seen := make(map[*types.CompiledType]bool)
	var walk func(ct *types.CompiledType) error
	walk = func(ct *types.CompiledType) error {
		if seen[ct] {
			return nil
		}
		seen[ct] = true
		info, err := c.Calculate(ct)
		if err != nil {
			return err
		}
		ct.Size, ct.Fixed = info.Size, info.Fixed
		for _, child := range ct.Children() {
			if err := walk(child); err != nil {
				return err
			}
		}
		if ct.Kind == KindCOption && !ct.Elem.Fixed {
			return errors.Schema(s.phase, "coption of variable-size type %s", ct.Elem.Label())
		}
		return nil
	}
	return walk(root)
}
