package calc

import (
	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/layout/internal/abi"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

// Info is the static size of a type. Variable-length shapes count only
// their length prefix or tag, so Size is the smallest possible encoding
// and Fixed reports whether every value encodes to exactly Size bytes.
type Info struct {
	Size  int
	Fixed bool
}

type Calculator struct {
	cache    map[*types.CompiledType]Info
	visiting map[*types.CompiledType]bool
	phase    errors.Phase
}

func NewCalculator(phase errors.Phase) *Calculator {
	return &Calculator{
		cache:    make(map[*types.CompiledType]Info),
		visiting: make(map[*types.CompiledType]bool),
		phase:    phase,
	}
}

// Calculate returns the static size of ct. A type that contains itself
// other than behind a length prefix has no finite size and is rejected.
func (c *Calculator) Calculate(ct *types.CompiledType) (Info, error) {
	if cached, ok := c.cache[ct]; ok {
		return cached, nil
	}
	if c.visiting[ct] {
		return Info{}, errors.Schema(c.phase, "recursive type %s has no finite size", ct.Label())
	}
	c.visiting[ct] = true
	defer delete(c.visiting, ct)

	info, err := c.calculate(ct)
	if err != nil {
		return Info{}, err
	}
	c.cache[ct] = info
	return info, nil
}

func (c *Calculator) calculate(ct *types.CompiledType) (Info, error) {
	if ct.Kind.IsLengthPrefixed() {
		return Info{Size: abi.LengthSize}, nil
	}

	switch ct.Kind {
	case types.KindOption:
		elem, err := c.Calculate(ct.Elem)
		if err != nil {
			return Info{}, err
		}
		return c.add(ct, Info{Size: abi.OptionSize}, elem, false)

	case types.KindCOption:
		elem, err := c.Calculate(ct.Elem)
		if err != nil {
			return Info{}, err
		}
		return c.add(ct, Info{Size: abi.COptionSize, Fixed: true}, elem, elem.Fixed)

	case types.KindArray:
		elem, err := c.Calculate(ct.Elem)
		if err != nil {
			return Info{}, err
		}
		size, ok := abi.SafeMul(elem.Size, ct.Len)
		if !ok {
			return Info{}, errors.Schema(c.phase, "%s size overflows", ct.Label())
		}
		return Info{Size: size, Fixed: elem.Fixed || ct.Len == 0}, nil

	case types.KindStruct, types.KindTuple:
		return c.sumFields(ct, ct.Fields, Info{Fixed: true})

	case types.KindEnum:
		return c.calculateEnum(ct)

	default:
		return Info{Size: ct.Kind.ScalarSize(), Fixed: true}, nil
	}
}

// calculateEnum sizes an enum as its tag plus the largest variant. The
// enum is fixed only when every variant encodes to the same length.
func (c *Calculator) calculateEnum(ct *types.CompiledType) (Info, error) {
	infos := make([]Info, len(ct.Variants))
	largest := 0
	for i, v := range ct.Variants {
		info, err := c.sumFields(ct, v.Fields, Info{Fixed: true})
		if err != nil {
			return Info{}, err
		}
		infos[i] = info
		largest = max(largest, info.Size)
	}
	fixed := true
	for _, info := range infos {
		if !info.Fixed || info.Size != largest {
			fixed = false
		}
	}
	return Info{Size: 1 + largest, Fixed: fixed}, nil
}

func (c *Calculator) sumFields(ct *types.CompiledType, fields []types.Field, acc Info) (Info, error) {
	for _, f := range fields {
		info, err := c.Calculate(f.Type)
		if err != nil {
			return Info{}, err
		}
		acc, err = c.add(ct, acc, info, acc.Fixed && info.Fixed)
		if err != nil {
			return Info{}, err
		}
	}
	return acc, nil
}

func (c *Calculator) add(ct *types.CompiledType, a, b Info, fixed bool) (Info, error) {
	size, ok := abi.SafeAdd(a.Size, b.Size)
	if !ok {
		return Info{}, errors.Schema(c.phase, "%s size overflows", ct.Label())
	}
	return Info{Size: size, Fixed: fixed}, nil
}
