package layout

import (
	"bytes"
	stderrors "errors"
	"math"
	"math/big"
	"reflect"
	"strings"
	"sync"
	"testing"

	idlcodec "github.com/wippyai/idl-codec"
	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/idl"
)

func named(name string, t idl.Type) idl.Field {
	return idl.Field{Name: name, Type: t}
}

func structDef(name string, fields ...idl.Field) idl.TypeDef {
	return idl.TypeDef{Name: name, Type: idl.TypeDefBody{Kind: idl.TypeDefStruct, Fields: fields}}
}

func enumDef(name string, variants ...idl.Variant) idl.TypeDef {
	return idl.TypeDef{Name: name, Type: idl.TypeDefBody{Kind: idl.TypeDefEnum, Variants: variants}}
}

var (
	u8     = idl.Primitive(idl.KindU8)
	u16    = idl.Primitive(idl.KindU16)
	u32    = idl.Primitive(idl.KindU32)
	u64    = idl.Primitive(idl.KindU64)
	i64    = idl.Primitive(idl.KindI64)
	str    = idl.Primitive(idl.KindString)
	pubkey = idl.Primitive(idl.KindPubkey)
)

// vaultDefs is a schema touching every compound shape.
func vaultDefs() []idl.TypeDef {
	return []idl.TypeDef{
		structDef("Vault",
			named("owner", pubkey),
			named("balance", u64),
			named("history", idl.Vec(idl.Defined("Entry"))),
			named("slots", idl.Array(u8, 4)),
			named("label", idl.Option(str)),
			named("status", idl.Defined("Status")),
		),
		{Name: "Entry", Type: idl.TypeDefBody{Kind: idl.TypeDefStruct, Fields: idl.Fields{{Type: i64}, {Type: u32}}}},
		enumDef("Status",
			idl.Variant{Name: "Closed"},
			idl.Variant{Name: "Open", Fields: idl.Fields{named("since", i64)}},
			idl.Variant{Name: "Frozen", Fields: idl.Fields{{Type: u16}, {Type: u8}}},
		),
	}
}

func compile(t *testing.T, name string, defs []idl.TypeDef) Layout {
	t.Helper()
	def, ok := idl.FindTypeDef(defs, name)
	if !ok {
		t.Fatalf("no definition %q", name)
	}
	l, err := NewCompiler().Compile(def, defs)
	if err != nil {
		t.Fatalf("Compile(%s): %v", name, err)
	}
	return l
}

func encode(t *testing.T, l Layout, value any) []byte {
	t.Helper()
	n, err := l.EncodedSize(value)
	if err != nil {
		t.Fatalf("EncodedSize: %v", err)
	}
	buf := make([]byte, n)
	written, err := l.Encode(value, buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if written != n {
		t.Fatalf("Encode wrote %d bytes, EncodedSize said %d", written, n)
	}
	return buf
}

func TestCounterLayout(t *testing.T) {
	defs := []idl.TypeDef{structDef("Counter", named("count", u64))}
	l := compile(t, "Counter", defs)

	got := encode(t, l, map[string]any{"count": uint64(42)})
	want := []byte{42, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}

	value, err := l.Decode(idlcodec.Buffer(got))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(value, map[string]any{"count": uint64(42)}) {
		t.Errorf("Decode = %#v", value)
	}
	if l.StaticSize() != 8 || !l.IsFixedSize() {
		t.Errorf("StaticSize = %d, fixed = %v", l.StaticSize(), l.IsFixedSize())
	}
}

func TestPrimitiveEncoding(t *testing.T) {
	tests := []struct {
		value any
		want  any
		typ   idl.Type
		name  string
		bytes []byte
	}{
		{true, true, idl.Primitive(idl.KindBool), "bool", []byte{1}},
		{uint8(200), uint8(200), u8, "u8", []byte{200}},
		{int8(-2), int8(-2), idl.Primitive(idl.KindI8), "i8", []byte{0xfe}},
		{float64(0x1234), uint16(0x1234), u16, "u16 from float64", []byte{0x34, 0x12}},
		{int(-1), int16(-1), idl.Primitive(idl.KindI16), "i16", []byte{0xff, 0xff}},
		{uint32(1), uint32(1), u32, "u32", []byte{1, 0, 0, 0}},
		{int64(-2), int32(-2), idl.Primitive(idl.KindI32), "i32", []byte{0xfe, 0xff, 0xff, 0xff}},
		{float32(1.5), float32(1.5), idl.Primitive(idl.KindF32), "f32", []byte{0, 0, 0xc0, 0x3f}},
		{uint64(math.MaxUint64), uint64(math.MaxUint64), u64, "u64", bytes.Repeat([]byte{0xff}, 8)},
		{int64(-1), int64(-1), i64, "i64", bytes.Repeat([]byte{0xff}, 8)},
		{float64(-2), float64(-2), idl.Primitive(idl.KindF64), "f64", []byte{0, 0, 0, 0, 0, 0, 0, 0xc0}},
		{"hi", "hi", str, "string", []byte{2, 0, 0, 0, 'h', 'i'}},
		{[]byte{9, 8}, []byte{9, 8}, idl.Primitive(idl.KindBytes), "bytes", []byte{2, 0, 0, 0, 9, 8}},
		{[]any{uint16(1), 2}, []any{uint16(1), uint16(2)}, idl.Vec(u16), "vec", []byte{2, 0, 0, 0, 1, 0, 2, 0}},
		{[]uint8{7, 7}, []any{uint8(7), uint8(7)}, idl.Array(u8, 2), "array", []byte{7, 7}},
		{nil, nil, idl.Option(u32), "option none", []byte{0}},
		{5, uint32(5), idl.Option(u32), "option some", []byte{1, 5, 0, 0, 0}},
		{nil, nil, idl.COption(u16), "coption none", []byte{0, 0, 0, 0, 0, 0}},
		{3, uint16(3), idl.COption(u16), "coption some", []byte{1, 0, 0, 0, 3, 0}},
	}

	c := NewCompiler()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := c.CompileType(tc.typ, nil)
			if err != nil {
				t.Fatalf("CompileType: %v", err)
			}
			got := encode(t, l, tc.value)
			if !bytes.Equal(got, tc.bytes) {
				t.Fatalf("Encode = %v, want %v", got, tc.bytes)
			}
			value, err := l.Decode(idlcodec.Buffer(got))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(value, tc.want) {
				t.Errorf("Decode = %#v, want %#v", value, tc.want)
			}
		})
	}
}

func TestInt128(t *testing.T) {
	c := NewCompiler()
	u128, err := c.CompileType(idl.Primitive(idl.KindU128), nil)
	if err != nil {
		t.Fatal(err)
	}
	i128, err := c.CompileType(idl.Primitive(idl.KindI128), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := encode(t, u128, "18446744073709551617") // 2^64 + 1
	want := []byte{1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("u128 = %v, want %v", got, want)
	}
	v, err := u128.Decode(idlcodec.Buffer(got))
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(*big.Int); !ok || n.String() != "18446744073709551617" {
		t.Errorf("u128 decode = %v", v)
	}

	got = encode(t, i128, big.NewInt(-3))
	v, err = i128.Decode(idlcodec.Buffer(got))
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := v.(*big.Int); !ok || n.Int64() != -3 {
		t.Errorf("i128 decode = %v", v)
	}
}

func TestVaultRoundTrip(t *testing.T) {
	defs := vaultDefs()
	l := compile(t, "Vault", defs)

	var owner PublicKey
	owner[0], owner[31] = 1, 2

	values := []map[string]any{
		{
			"owner":   owner,
			"balance": uint64(1_000_000),
			"history": []any{[]any{int64(-5), uint32(7)}, []any{int64(9), uint32(0)}},
			"slots":   []any{uint8(1), uint8(2), uint8(3), uint8(4)},
			"label":   "main",
			"status":  map[string]any{"Open": map[string]any{"since": int64(1700000000)}},
		},
		{
			"owner":   owner,
			"balance": uint64(0),
			"history": []any{},
			"slots":   []any{uint8(0), uint8(0), uint8(0), uint8(0)},
			"label":   nil,
			"status":  map[string]any{"Closed": nil},
		},
		{
			"owner":   owner,
			"balance": uint64(3),
			"history": []any{},
			"slots":   []any{uint8(9), uint8(9), uint8(9), uint8(9)},
			"label":   "",
			"status":  map[string]any{"Frozen": []any{uint16(4), uint8(5)}},
		},
	}

	for i, value := range values {
		buf := encode(t, l, value)
		got, err := l.Decode(idlcodec.Buffer(buf))
		if err != nil {
			t.Fatalf("value %d: Decode: %v", i, err)
		}
		if !reflect.DeepEqual(got, value) {
			t.Errorf("value %d: round trip\n got %#v\nwant %#v", i, got, value)
		}
	}
}

func TestJSONStyleInput(t *testing.T) {
	defs := vaultDefs()
	l := compile(t, "Vault", defs)

	var owner PublicKey
	owner[5] = 0xaa

	// The shapes encoding/json produces: float64 numbers, strings for keys.
	value := map[string]any{
		"owner":   owner.String(),
		"balance": float64(12),
		"history": []any{[]any{float64(-1), float64(2)}},
		"slots":   []any{float64(1), float64(2), float64(3), float64(4)},
		"label":   "x",
		"status":  "Closed",
	}
	buf := encode(t, l, value)
	got, err := l.Decode(idlcodec.Buffer(buf))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m := got.(map[string]any)
	if m["owner"] != owner {
		t.Errorf("owner = %v, want %v", m["owner"], owner)
	}
	if m["balance"] != uint64(12) {
		t.Errorf("balance = %#v", m["balance"])
	}
	if !reflect.DeepEqual(m["status"], map[string]any{"Closed": nil}) {
		t.Errorf("status = %#v", m["status"])
	}
}

func TestRecursiveThroughVec(t *testing.T) {
	defs := []idl.TypeDef{
		structDef("Node", named("value", u32), named("children", idl.Vec(idl.Defined("Node")))),
	}
	l := compile(t, "Node", defs)
	if l.IsFixedSize() || l.StaticSize() != 8 {
		t.Errorf("StaticSize = %d, fixed = %v", l.StaticSize(), l.IsFixedSize())
	}

	value := map[string]any{
		"value": uint32(1),
		"children": []any{
			map[string]any{"value": uint32(2), "children": []any{}},
			map[string]any{"value": uint32(3), "children": []any{
				map[string]any{"value": uint32(4), "children": []any{}},
			}},
		},
	}
	buf := encode(t, l, value)
	got, err := l.Decode(idlcodec.Buffer(buf))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got, value) {
		t.Errorf("round trip = %#v", got)
	}
}

func TestTrailingBytesIgnored(t *testing.T) {
	defs := []idl.TypeDef{structDef("Counter", named("count", u64))}
	l := compile(t, "Counter", defs)
	buf := append(encode(t, l, map[string]any{"count": 7}), 0xde, 0xad)
	got, err := l.Decode(idlcodec.Buffer(buf))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.(map[string]any)["count"] != uint64(7) {
		t.Errorf("count = %v", got)
	}
}

func TestEncodeErrors(t *testing.T) {
	defs := vaultDefs()
	l := compile(t, "Vault", defs)

	valid := func() map[string]any {
		return map[string]any{
			"owner":   PublicKey{},
			"balance": uint64(1),
			"history": []any{},
			"slots":   []any{1, 2, 3, 4},
			"label":   nil,
			"status":  "Closed",
		}
	}

	tests := []struct {
		mutate func(map[string]any)
		name   string
		kind   errors.Kind
		path   string
	}{
		{func(m map[string]any) { delete(m, "balance") }, "missing field", errors.KindFieldMissing, "Vault"},
		{func(m map[string]any) { m["balance"] = "lots" }, "wrong type", errors.KindTypeMismatch, "Vault.balance"},
		{func(m map[string]any) { m["balance"] = -1 }, "negative unsigned", errors.KindOverflow, "Vault.balance"},
		{func(m map[string]any) { m["slots"] = []any{1, 2} }, "short array", errors.KindInvalidData, "Vault.slots"},
		{func(m map[string]any) { m["slots"] = []any{1, 2, 3, 300} }, "array element overflow", errors.KindOverflow, "Vault.slots[3]"},
		{func(m map[string]any) { m["history"] = []any{[]any{1}} }, "short tuple", errors.KindInvalidData, "Vault.history[0]"},
		{func(m map[string]any) { m["status"] = "Melted" }, "unknown variant", errors.KindInvalidVariant, "Vault.status"},
		{func(m map[string]any) { m["status"] = map[string]any{"Open": map[string]any{}} }, "variant field missing", errors.KindFieldMissing, "Vault.status.Open"},
		{func(m map[string]any) { m["status"] = map[string]any{"A": nil, "B": nil} }, "two variant keys", errors.KindInvalidVariant, "Vault.status"},
		{func(m map[string]any) { m["owner"] = "not base58!" }, "bad pubkey", errors.KindTypeMismatch, "Vault.owner"},
		{func(m map[string]any) { m["label"] = "\xff" }, "invalid utf8", errors.KindInvalidUTF8, "Vault.label"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value := valid()
			tc.mutate(value)
			_, err := l.EncodedSize(value)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error type %T", err)
			}
			if e.Kind != tc.kind || e.Phase != errors.PhaseEncode {
				t.Errorf("error = %v, want kind %s", err, tc.kind)
			}
			if got := strings.Join(e.Path, "."); got != tc.path {
				t.Errorf("path = %q, want %q", got, tc.path)
			}
		})
	}
}

func TestEncodeShortDestination(t *testing.T) {
	defs := []idl.TypeDef{structDef("Counter", named("count", u64))}
	l := compile(t, "Counter", defs)
	_, err := l.Encode(map[string]any{"count": 1}, make([]byte, 4))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindOutOfBounds {
		t.Errorf("error = %v, want out of bounds", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	c := NewCompiler()
	tests := []struct {
		typ  idl.Type
		name string
		kind errors.Kind
		buf  []byte
	}{
		{u64, "short scalar", errors.KindOutOfBounds, []byte{1, 2, 3}},
		{idl.Primitive(idl.KindBool), "invalid bool", errors.KindInvalidData, []byte{2}},
		{idl.Option(u8), "invalid option tag", errors.KindInvalidVariant, []byte{2, 0}},
		{idl.COption(u8), "invalid coption tag", errors.KindInvalidVariant, []byte{5, 0, 0, 0, 0}},
		{str, "short string", errors.KindOutOfBounds, []byte{5, 0, 0, 0, 'a'}},
		{str, "invalid utf8", errors.KindInvalidUTF8, []byte{1, 0, 0, 0, 0xff}},
		{idl.Vec(u8), "length over limit", errors.KindOverflow, []byte{0xff, 0xff, 0xff, 0xff}},
		{idl.Vec(u64), "short vec", errors.KindOutOfBounds, []byte{2, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}},
		{pubkey, "short pubkey", errors.KindOutOfBounds, make([]byte, 31)},
		{u8, "empty", errors.KindOutOfBounds, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l, err := c.CompileType(tc.typ, nil)
			if err != nil {
				t.Fatalf("CompileType: %v", err)
			}
			_, err = l.Decode(idlcodec.Buffer(tc.buf))
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v (%T)", err, err)
			}
			if e.Kind != tc.kind || e.Phase != errors.PhaseDecode {
				t.Errorf("error = %v, want kind %s", err, tc.kind)
			}
		})
	}
}

func TestDecodeInvalidVariant(t *testing.T) {
	l := compile(t, "Status", vaultDefs())
	_, err := l.Decode(idlcodec.Buffer{3})
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidVariant {
		t.Fatalf("error = %v, want invalid variant", err)
	}
	if !strings.Contains(err.Error(), "max 2") {
		t.Errorf("error = %v", err)
	}
}

func TestDecodeErrorPath(t *testing.T) {
	l := compile(t, "Vault", vaultDefs())
	buf := encode(t, l, map[string]any{
		"owner":   PublicKey{},
		"balance": 1,
		"history": []any{[]any{1, 2}, []any{3, 4}},
		"slots":   []any{1, 2, 3, 4},
		"label":   nil,
		"status":  "Closed",
	})
	// Cut inside the second history entry.
	cut := 32 + 8 + 4 + 12 + 6
	_, err := l.Decode(idlcodec.Buffer(buf[:cut]))
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if got := strings.Join(e.Path, "."); got != "Vault.history[1][0]" {
		t.Errorf("path = %q", got)
	}
}

func TestDecodeVecLengthLimits(t *testing.T) {
	defs := []idl.TypeDef{
		structDef("Unit"),
		structDef("Bag", named("items", idl.Vec(idl.Defined("Unit")))),
	}
	bag := compile(t, "Bag", defs)

	v, err := bag.Decode(idlcodec.Buffer{3, 0, 0, 0})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if items := v.(map[string]any)["items"].([]any); len(items) != 3 {
		t.Errorf("items = %v", items)
	}

	tests := []struct {
		l    Layout
		name string
		kind errors.Kind
		buf  []byte
	}{
		{bag, "zero-size elements over limit", errors.KindOverflow, []byte{0, 0, 0, 1}},
		{bag, "zero-size elements just over limit", errors.KindOverflow, []byte{0x01, 0x04, 0, 0}},
		{nil, "count beyond input", errors.KindOutOfBounds, []byte{0xe8, 0x03, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.l
			if l == nil {
				var err error
				if l, err = NewCompiler().CompileType(idl.Vec(u64), nil); err != nil {
					t.Fatalf("CompileType: %v", err)
				}
			}
			_, err := l.Decode(idlcodec.Buffer(tc.buf))
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error = %v (%T)", err, err)
			}
			if e.Kind != tc.kind || e.Phase != errors.PhaseDecode {
				t.Errorf("error = %v, want kind %s", err, tc.kind)
			}
		})
	}
}

func TestSingleFieldTupleVariant(t *testing.T) {
	defs := []idl.TypeDef{enumDef("Payload",
		idl.Variant{Name: "Data", Fields: idl.Fields{{Type: idl.Vec(u8)}}},
		idl.Variant{Name: "Blob", Fields: idl.Fields{{Type: idl.Primitive(idl.KindBytes)}}},
		idl.Variant{Name: "Key", Fields: idl.Fields{{Type: pubkey}}},
		idl.Variant{Name: "Pair", Fields: idl.Fields{{Type: idl.Array(u8, 2)}}},
		idl.Variant{Name: "Count", Fields: idl.Fields{{Type: u32}}},
	)}
	l := compile(t, "Payload", defs)

	key := PublicKey{1}
	keyBytes := append([]byte{2}, key[:]...)

	tests := []struct {
		value any
		name  string
		want  []byte
	}{
		{map[string]any{"Data": []any{1, 2, 3}}, "bare vec", []byte{0, 3, 0, 0, 0, 1, 2, 3}},
		{map[string]any{"Data": []byte{1, 2, 3}}, "bare byte slice", []byte{0, 3, 0, 0, 0, 1, 2, 3}},
		{map[string]any{"Data": []any{[]any{1, 2, 3}}}, "wrapped vec", []byte{0, 3, 0, 0, 0, 1, 2, 3}},
		{map[string]any{"Data": []any{7}}, "bare one-element vec", []byte{0, 1, 0, 0, 0, 7}},
		{map[string]any{"Blob": []byte{7}}, "bare bytes", []byte{1, 1, 0, 0, 0, 7}},
		{map[string]any{"Blob": []any{[]byte{7}}}, "wrapped bytes", []byte{1, 1, 0, 0, 0, 7}},
		{map[string]any{"Key": key}, "bare pubkey", keyBytes},
		{map[string]any{"Key": []any{key}}, "wrapped pubkey", keyBytes},
		{map[string]any{"Pair": []any{4, 5}}, "bare array", []byte{3, 4, 5}},
		{map[string]any{"Pair": []any{[]any{4, 5}}}, "wrapped array", []byte{3, 4, 5}},
		{map[string]any{"Count": 9}, "bare scalar", []byte{4, 9, 0, 0, 0}},
		{map[string]any{"Count": []any{9}}, "wrapped scalar", []byte{4, 9, 0, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := encode(t, l, tc.value); !bytes.Equal(got, tc.want) {
				t.Errorf("encoded % x, want % x", got, tc.want)
			}
		})
	}

	// Decoded values use the wrapped form and encode back unchanged.
	want := []byte{0, 2, 0, 0, 0, 8, 9}
	v, err := l.Decode(idlcodec.Buffer(want))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := encode(t, l, v); !bytes.Equal(got, want) {
		t.Errorf("re-encoded % x, want % x", got, want)
	}

	if _, err := l.EncodedSize(map[string]any{"Count": []any{1, 2}}); err == nil {
		t.Error("two-element payload for a scalar field should fail")
	}
}

func TestCompileErrors(t *testing.T) {
	manyVariants := make([]idl.Variant, 257)
	for i := range manyVariants {
		manyVariants[i] = idl.Variant{Name: "V" + strings.Repeat("x", i)}
	}

	tests := []struct {
		name string
		root string
		defs []idl.TypeDef
	}{
		{"unknown reference", "A", []idl.TypeDef{structDef("A", named("b", idl.Defined("Missing")))}},
		{"recursion through option", "List", []idl.TypeDef{structDef("List", named("next", idl.Option(idl.Defined("List"))))}},
		{"indirect recursion", "A", []idl.TypeDef{
			structDef("A", named("b", idl.Defined("B"))),
			structDef("B", named("a", idl.Array(idl.Defined("A"), 1))),
		}},
		{"recursion behind vec element", "Root", []idl.TypeDef{
			structDef("Root", named("items", idl.Vec(idl.Defined("Loop")))),
			structDef("Loop", named("self", idl.Defined("Loop"))),
		}},
		{"coption of string", "A", []idl.TypeDef{structDef("A", named("s", idl.COption(str)))}},
		{"too many variants", "E", []idl.TypeDef{enumDef("E", manyVariants...)}},
		{"duplicate variant", "E", []idl.TypeDef{enumDef("E", idl.Variant{Name: "X"}, idl.Variant{Name: "X"})}},
		{"unknown kind", "A", []idl.TypeDef{{Name: "A", Type: idl.TypeDefBody{Kind: "union"}}}},
		{"vec without element", "A", []idl.TypeDef{structDef("A", named("v", idl.Type{Kind: idl.KindVec}))}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def, _ := idl.FindTypeDef(tc.defs, tc.root)
			_, err := NewCompiler().Compile(def, tc.defs)
			if !stderrors.Is(err, errors.ErrSchema) {
				t.Errorf("error = %v, want schema error", err)
			}
		})
	}
}

func TestCompilerCache(t *testing.T) {
	defs := vaultDefs()
	c := NewCompiler()

	var wg sync.WaitGroup
	results := make([]Layout, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l, err := c.Compile(defs[0], defs)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = l
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("Compile %d returned a different layout", i)
		}
	}
}

func TestLayoutNameAndKind(t *testing.T) {
	defs := vaultDefs()
	l := compile(t, "Status", defs)
	if l.Name() != "Status" || l.Kind() != KindEnum {
		t.Errorf("Name = %q, Kind = %s", l.Name(), l.Kind())
	}
	l = compile(t, "Entry", defs)
	if l.Kind() != KindTuple {
		t.Errorf("Entry kind = %s, want tuple", l.Kind())
	}
}
