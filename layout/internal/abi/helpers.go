package abi

import (
	"math"
	"reflect"
)

// Safety limits applied while decoding untrusted buffers.
const (
	MaxLength   = 1 << 24 // max elements in a vec, bytes in a string or bytes
	MaxVariants = 256     // u8 variant index
	LengthSize  = 4       // u32 length prefix
	OptionSize  = 1       // option tag
	COptionSize = 4       // u32 coption tag
)

// MaxZeroSizeElements caps vecs of zero-size values, which decode without
// consuming input.
const MaxZeroSizeElements = 1 << 10

func SafeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func SafeAdd(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}
