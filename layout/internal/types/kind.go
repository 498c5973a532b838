package types

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindF32
	KindU64
	KindI64
	KindF64
	KindU128
	KindI128
	KindPubkey
	KindBytes
	KindString
	KindVec
	KindOption
	KindCOption
	KindArray
	KindStruct
	KindTuple
	KindEnum
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindF32:     "f32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindF64:     "f64",
	KindU128:    "u128",
	KindI128:    "i128",
	KindPubkey:  "pubkey",
	KindBytes:   "bytes",
	KindString:  "string",
	KindVec:     "vec",
	KindOption:  "option",
	KindCOption: "coption",
	KindArray:   "array",
	KindStruct:  "struct",
	KindTuple:   "tuple",
	KindEnum:    "enum",
}

var kindSizes = [...]int{
	KindBool:   1,
	KindU8:     1,
	KindI8:     1,
	KindU16:    2,
	KindI16:    2,
	KindU32:    4,
	KindI32:    4,
	KindF32:    4,
	KindU64:    8,
	KindI64:    8,
	KindF64:    8,
	KindU128:   16,
	KindI128:   16,
	KindPubkey: 32,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether k has a fixed width and no children.
func (k Kind) IsScalar() bool {
	return k <= KindPubkey
}

// ScalarSize returns the width of a scalar kind, 0 otherwise.
func (k Kind) ScalarSize() int {
	if k.IsScalar() {
		return kindSizes[k]
	}
	return 0
}

// IsLengthPrefixed reports whether values carry a u32 length prefix.
func (k Kind) IsLengthPrefixed() bool {
	return k == KindBytes || k == KindString || k == KindVec
}
