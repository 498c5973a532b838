package layout

import (
	"encoding/binary"
	"math"
	"reflect"
	"unicode/utf8"

	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/layout/internal/abi"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

// Local wrappers for abi package functions
var (
	typeName = abi.TypeName
)

// writer appends little-endian values to buf. In measure mode it only
// counts bytes.
type writer struct {
	buf     []byte
	pos     int
	measure bool
}

func (w *writer) next(n int, path []string) ([]byte, error) {
	end, ok := abi.SafeAdd(w.pos, n)
	if !ok {
		return nil, errors.Overflow(errors.PhaseEncode, path, n, "encoded length")
	}
	if w.measure {
		w.pos = end
		return nil, nil
	}
	if end > len(w.buf) {
		return nil, errors.OutOfBounds(errors.PhaseEncode, path, end, len(w.buf))
	}
	b := w.buf[w.pos:end]
	w.pos = end
	return b, nil
}

func (w *writer) u8(v uint8, path []string) error {
	b, err := w.next(1, path)
	if b != nil {
		b[0] = v
	}
	return err
}

func (w *writer) u16(v uint16, path []string) error {
	b, err := w.next(2, path)
	if b != nil {
		binary.LittleEndian.PutUint16(b, v)
	}
	return err
}

func (w *writer) u32(v uint32, path []string) error {
	b, err := w.next(4, path)
	if b != nil {
		binary.LittleEndian.PutUint32(b, v)
	}
	return err
}

func (w *writer) u64(v uint64, path []string) error {
	b, err := w.next(8, path)
	if b != nil {
		binary.LittleEndian.PutUint64(b, v)
	}
	return err
}

func (w *writer) u128(lo, hi uint64, path []string) error {
	b, err := w.next(16, path)
	if b != nil {
		binary.LittleEndian.PutUint64(b, lo)
		binary.LittleEndian.PutUint64(b[8:], hi)
	}
	return err
}

func (w *writer) bytes(p []byte, path []string) error {
	b, err := w.next(len(p), path)
	if b != nil {
		copy(b, p)
	}
	return err
}

func (w *writer) zeros(n int, path []string) error {
	b, err := w.next(n, path)
	if b != nil {
		clear(b)
	}
	return err
}

func (w *writer) length(n int, path []string) error {
	if n > abi.MaxLength {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(path...).
			Detail("length %d exceeds limit %d", n, abi.MaxLength).
			Build()
	}
	return w.u32(uint32(n), path)
}

type encoder struct {
	w writer
}

func (e *encoder) encode(ct *types.CompiledType, value any, path []string) error {
	switch ct.Kind {
	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "bool")
		}
		var b uint8
		if v {
			b = 1
		}
		return e.w.u8(b, path)

	case KindU8:
		v, ok := abi.CoerceToUint8(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u8(v, path)

	case KindI8:
		v, ok := abi.CoerceToInt8(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u8(uint8(v), path)

	case KindU16:
		v, ok := abi.CoerceToUint16(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u16(v, path)

	case KindI16:
		v, ok := abi.CoerceToInt16(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u16(uint16(v), path)

	case KindU32:
		v, ok := abi.CoerceToUint32(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u32(v, path)

	case KindI32:
		v, ok := abi.CoerceToInt32(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u32(uint32(v), path)

	case KindU64:
		v, ok := abi.CoerceToUint64(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u64(v, path)

	case KindI64:
		v, ok := abi.CoerceToInt64(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u64(uint64(v), path)

	case KindF32:
		v, ok := abi.CoerceToFloat64(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "f32")
		}
		return e.w.u32(math.Float32bits(float32(v)), path)

	case KindF64:
		v, ok := abi.CoerceToFloat64(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "f64")
		}
		return e.w.u64(math.Float64bits(v), path)

	case KindU128:
		lo, hi, ok := abi.CoerceToU128(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u128(lo, hi, path)

	case KindI128:
		lo, hi, ok := abi.CoerceToI128(value)
		if !ok {
			return numberError(path, value, ct)
		}
		return e.w.u128(lo, hi, path)

	case KindPubkey:
		pk, ok := toPublicKey(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "pubkey")
		}
		return e.w.bytes(pk[:], path)

	case KindString:
		s, ok := value.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "string")
		}
		if !utf8.ValidString(s) {
			return errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s))
		}
		if err := e.w.length(len(s), path); err != nil {
			return err
		}
		return e.w.bytes([]byte(s), path)

	case KindBytes:
		b, ok := toBytes(value)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "bytes")
		}
		if err := e.w.length(len(b), path); err != nil {
			return err
		}
		return e.w.bytes(b, path)

	case KindVec:
		return e.encodeVec(ct, value, path)

	case KindArray:
		return e.encodeArray(ct, value, path)

	case KindOption:
		if isNil(value) {
			return e.w.u8(0, path)
		}
		if err := e.w.u8(1, path); err != nil {
			return err
		}
		return e.encode(ct.Elem, value, path)

	case KindCOption:
		if isNil(value) {
			if err := e.w.u32(0, path); err != nil {
				return err
			}
			return e.w.zeros(ct.Elem.Size, path)
		}
		if err := e.w.u32(1, path); err != nil {
			return err
		}
		return e.encode(ct.Elem, value, path)

	case KindStruct:
		m, ok := value.(map[string]any)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Label())
		}
		return e.encodeNamed(ct.Fields, m, path)

	case KindTuple:
		return e.encodeTuple(ct.Fields, value, ct.Label(), path)

	case KindEnum:
		return e.encodeEnum(ct, value, path)

	default:
		return errors.Unsupported(errors.PhaseEncode, "kind "+ct.Kind.String())
	}
}

func (e *encoder) encodeVec(ct *types.CompiledType, value any, path []string) error {
	if b, ok := value.([]byte); ok && ct.Elem.Kind == KindU8 {
		if err := e.w.length(len(b), path); err != nil {
			return err
		}
		return e.w.bytes(b, path)
	}

	rv, ok := sequence(value)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Label())
	}
	n := rv.Len()
	if err := e.w.length(n, path); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := e.encode(ct.Elem, rv.Index(i).Interface(), indexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeArray(ct *types.CompiledType, value any, path []string) error {
	rv, ok := sequence(value)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Label())
	}
	if rv.Len() != ct.Len {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			Detail("array has %d elements, want %d", rv.Len(), ct.Len).
			Build()
	}
	for i := 0; i < ct.Len; i++ {
		if err := e.encode(ct.Elem, rv.Index(i).Interface(), indexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeNamed(fields []types.Field, m map[string]any, path []string) error {
	for _, f := range fields {
		v, ok := m[f.Name]
		if !ok {
			return errors.FieldMissing(errors.PhaseEncode, path, f.Name)
		}
		if err := e.encode(f.Type, v, fieldPath(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeTuple(fields []types.Field, value any, label string, path []string) error {
	rv, ok := sequence(value)
	if !ok {
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), label)
	}
	if rv.Len() != len(fields) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			Detail("tuple has %d elements, want %d", rv.Len(), len(fields)).
			Build()
	}
	for i, f := range fields {
		if err := e.encode(f.Type, rv.Index(i).Interface(), indexPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeEnum accepts {"Variant": payload} or, for unit variants, the bare
// variant name. A single-field tuple variant takes its field value either
// bare or wrapped in a one-element sequence.
func (e *encoder) encodeEnum(ct *types.CompiledType, value any, path []string) error {
	var name string
	var payload any
	switch v := value.(type) {
	case string:
		name = v
	case map[string]any:
		if len(v) != 1 {
			return errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
				Path(path...).
				Detail("enum value must have exactly one variant key, got %d", len(v)).
				Build()
		}
		for k, p := range v {
			name, payload = k, p
		}
	default:
		return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Label())
	}

	idx := -1
	for i, variant := range ct.Variants {
		if variant.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidVariant).
			Path(path...).
			Detail("unknown variant %q of %s", name, ct.Label()).
			Build()
	}
	variant := ct.Variants[idx]
	variantPath := fieldPath(path, name)

	if err := e.w.u8(uint8(idx), path); err != nil {
		return err
	}

	switch {
	case len(variant.Fields) == 0:
		if !isNil(payload) && !isEmpty(payload) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(variantPath...).
				Detail("unit variant takes no payload, got %s", typeName(payload)).
				Build()
		}
		return nil
	case variant.Tuple:
		if len(variant.Fields) == 1 && !wrapped(variant.Fields[0].Type, payload) {
			return e.encode(variant.Fields[0].Type, payload, indexPath(variantPath, 0))
		}
		return e.encodeTuple(variant.Fields, payload, name, variantPath)
	default:
		m, ok := payload.(map[string]any)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, variantPath, typeName(payload), name)
		}
		return e.encodeNamed(variant.Fields, m, variantPath)
	}
}

// wrapped reports whether payload is the []any{value} form of a single-field
// tuple variant rather than the field value itself. Fields that hold
// sequences take a sequence payload as their value unless it is a
// one-element sequence around another sequence, or a one-element sequence
// that cannot be the field (a pubkey or an array of another length).
func wrapped(field *types.CompiledType, payload any) bool {
	rv, ok := sequence(payload)
	if !ok {
		return false
	}
	base := field
	for base.Kind == KindOption || base.Kind == KindCOption {
		base = base.Elem
	}
	switch base.Kind {
	case KindBytes, KindVec, KindArray, KindTuple, KindPubkey:
	default:
		return true
	}
	if rv.Len() != 1 {
		return false
	}
	if _, inner := sequence(rv.Index(0).Interface()); inner {
		return true
	}
	switch base.Kind {
	case KindPubkey:
		return true
	case KindArray:
		return base.Len != 1
	}
	return false
}

// numberError distinguishes out-of-range numbers from values of the wrong type.
func numberError(path []string, value any, ct *types.CompiledType) error {
	if _, ok := abi.CoerceToBigInt(value); ok {
		return errors.Overflow(errors.PhaseEncode, path, value, ct.Kind.String())
	}
	return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Kind.String())
}

func toBytes(value any) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	case []any:
		out := make([]byte, len(v))
		for i, item := range v {
			b, ok := abi.CoerceToUint8(item)
			if !ok {
				return nil, false
			}
			out[i] = b
		}
		return out, true
	}
	return nil, false
}

// sequence returns value as a reflect slice or array. Strings and maps are
// not sequences.
func sequence(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, true
	}
	return reflect.Value{}, false
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}
