package layout

import (
	"math"
	"unicode/utf8"

	idlcodec "github.com/wippyai/idl-codec"
	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/layout/internal/abi"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

// decoder reads values from buf starting at pos. Every read goes through
// the Buffer readers so bounds are always checked.
type decoder struct {
	buf idlcodec.Buffer
	pos int
}

func (d *decoder) bounds(n int, path []string) error {
	return errors.OutOfBounds(errors.PhaseDecode, path, d.pos+n, d.buf.Len())
}

func (d *decoder) u8(path []string) (uint8, error) {
	v, err := d.buf.ReadU8(d.pos)
	if err != nil {
		return 0, d.bounds(1, path)
	}
	d.pos++
	return v, nil
}

func (d *decoder) u16(path []string) (uint16, error) {
	v, err := d.buf.ReadU16(d.pos)
	if err != nil {
		return 0, d.bounds(2, path)
	}
	d.pos += 2
	return v, nil
}

func (d *decoder) u32(path []string) (uint32, error) {
	v, err := d.buf.ReadU32(d.pos)
	if err != nil {
		return 0, d.bounds(4, path)
	}
	d.pos += 4
	return v, nil
}

func (d *decoder) u64(path []string) (uint64, error) {
	v, err := d.buf.ReadU64(d.pos)
	if err != nil {
		return 0, d.bounds(8, path)
	}
	d.pos += 8
	return v, nil
}

func (d *decoder) u128(path []string) (lo, hi uint64, err error) {
	lo, hi, err = d.buf.ReadU128(d.pos)
	if err != nil {
		return 0, 0, d.bounds(16, path)
	}
	d.pos += 16
	return lo, hi, nil
}

// take returns a copy of the next n bytes.
func (d *decoder) take(n int, path []string) ([]byte, error) {
	b, err := d.buf.Read(d.pos, n)
	if err != nil {
		return nil, d.bounds(n, path)
	}
	d.pos += n
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *decoder) skip(n int, path []string) error {
	if _, err := d.buf.Read(d.pos, n); err != nil {
		return d.bounds(n, path)
	}
	d.pos += n
	return nil
}

func (d *decoder) length(path []string) (int, error) {
	n, err := d.u32(path)
	if err != nil {
		return 0, err
	}
	if n > abi.MaxLength {
		return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).
			Path(path...).
			Detail("length %d exceeds limit %d", n, abi.MaxLength).
			Build()
	}
	return int(n), nil
}

func (d *decoder) remaining() int {
	return d.buf.Len() - d.pos
}

func (d *decoder) decode(ct *types.CompiledType, path []string) (any, error) {
	switch ct.Kind {
	case KindBool:
		b, err := d.u8(path)
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, errors.InvalidData(errors.PhaseDecode, path, "invalid bool byte")
		}
		return b == 1, nil

	case KindU8:
		return d.u8(path)

	case KindI8:
		v, err := d.u8(path)
		return int8(v), err

	case KindU16:
		return d.u16(path)

	case KindI16:
		v, err := d.u16(path)
		return int16(v), err

	case KindU32:
		return d.u32(path)

	case KindI32:
		v, err := d.u32(path)
		return int32(v), err

	case KindU64:
		return d.u64(path)

	case KindI64:
		v, err := d.u64(path)
		return int64(v), err

	case KindF32:
		v, err := d.u32(path)
		return math.Float32frombits(v), err

	case KindF64:
		v, err := d.u64(path)
		return math.Float64frombits(v), err

	case KindU128:
		lo, hi, err := d.u128(path)
		if err != nil {
			return nil, err
		}
		return abi.U128(lo, hi), nil

	case KindI128:
		lo, hi, err := d.u128(path)
		if err != nil {
			return nil, err
		}
		return abi.I128(lo, hi), nil

	case KindPubkey:
		b, err := d.take(PublicKeySize, path)
		if err != nil {
			return nil, err
		}
		return PublicKey(b), nil

	case KindString:
		n, err := d.length(path)
		if err != nil {
			return nil, err
		}
		b, err := d.take(n, path)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, errors.InvalidUTF8(errors.PhaseDecode, path, b)
		}
		return string(b), nil

	case KindBytes:
		n, err := d.length(path)
		if err != nil {
			return nil, err
		}
		return d.take(n, path)

	case KindVec:
		n, err := d.length(path)
		if err != nil {
			return nil, err
		}
		if err := d.checkCount(ct.Elem, n, path); err != nil {
			return nil, err
		}
		return d.decodeSeq(ct.Elem, n, path)

	case KindArray:
		return d.decodeSeq(ct.Elem, ct.Len, path)

	case KindOption:
		tag, err := d.u8(path)
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			return nil, nil
		case 1:
			return d.decode(ct.Elem, path)
		}
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, path, uint32(tag), 1)

	case KindCOption:
		tag, err := d.u32(path)
		if err != nil {
			return nil, err
		}
		switch tag {
		case 0:
			return nil, d.skip(ct.Elem.Size, path)
		case 1:
			return d.decode(ct.Elem, path)
		}
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, path, tag, 1)

	case KindStruct:
		return d.decodeNamed(ct.Fields, path)

	case KindTuple:
		return d.decodeTuple(ct.Fields, path)

	case KindEnum:
		return d.decodeEnum(ct, path)

	default:
		return nil, errors.Unsupported(errors.PhaseDecode, "kind "+ct.Kind.String())
	}
}

// checkCount bounds a vec length read from the buffer. Elements with a
// nonzero static size consume at least one byte each; zero-size elements
// consume nothing, so their count is capped separately.
func (d *decoder) checkCount(elem *types.CompiledType, n int, path []string) error {
	if elem.Size == 0 {
		if n > abi.MaxZeroSizeElements {
			return errors.New(errors.PhaseDecode, errors.KindOverflow).
				Path(path...).
				Detail("%d zero-size elements exceed limit %d", n, abi.MaxZeroSizeElements).
				Build()
		}
		return nil
	}
	if n > d.remaining() {
		return d.bounds(n, path)
	}
	return nil
}

func (d *decoder) decodeSeq(elem *types.CompiledType, n int, path []string) ([]any, error) {
	// Cap the preallocation by what the buffer could possibly hold.
	capacity := n
	if elem.Size > 0 {
		capacity = min(n, d.remaining()/elem.Size)
	}
	out := make([]any, 0, capacity)
	for i := 0; i < n; i++ {
		v, err := d.decode(elem, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) decodeNamed(fields []types.Field, path []string) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := d.decode(f.Type, fieldPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func (d *decoder) decodeTuple(fields []types.Field, path []string) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		v, err := d.decode(f.Type, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (d *decoder) decodeEnum(ct *types.CompiledType, path []string) (map[string]any, error) {
	idx, err := d.u8(path)
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(ct.Variants) {
		return nil, errors.InvalidDiscriminant(errors.PhaseDecode, path, uint32(idx), uint32(max(len(ct.Variants)-1, 0)))
	}
	variant := ct.Variants[idx]
	variantPath := fieldPath(path, variant.Name)

	var payload any
	switch {
	case len(variant.Fields) == 0:
	case variant.Tuple:
		payload, err = d.decodeTuple(variant.Fields, variantPath)
	default:
		payload, err = d.decodeNamed(variant.Fields, variantPath)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{variant.Name: payload}, nil
}
