package abi

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

var (
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// CoerceToUint64 handles JSON decoded numbers (float64) and every Go integer type.
func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		// 2^64 is exactly representable; anything at or above it overflows.
		if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		f := float64(v)
		if f >= 0 && f < math.MaxUint64 && f == math.Trunc(f) {
			return uint64(f), true
		}
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(f), true
		}
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func CoerceToUint8(value any) (uint8, bool) {
	v, ok := CoerceToUint64(value)
	if !ok || v > math.MaxUint8 {
		return 0, false
	}
	return uint8(v), true
}

func CoerceToUint16(value any) (uint16, bool) {
	v, ok := CoerceToUint64(value)
	if !ok || v > math.MaxUint16 {
		return 0, false
	}
	return uint16(v), true
}

func CoerceToUint32(value any) (uint32, bool) {
	v, ok := CoerceToUint64(value)
	if !ok || v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

func CoerceToInt8(value any) (int8, bool) {
	v, ok := CoerceToInt64(value)
	if !ok || v < math.MinInt8 || v > math.MaxInt8 {
		return 0, false
	}
	return int8(v), true
}

func CoerceToInt16(value any) (int16, bool) {
	v, ok := CoerceToInt64(value)
	if !ok || v < math.MinInt16 || v > math.MaxInt16 {
		return 0, false
	}
	return int16(v), true
}

func CoerceToInt32(value any) (int32, bool) {
	v, ok := CoerceToInt64(value)
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	if i, ok := CoerceToInt64(value); ok {
		return float64(i), true
	}
	if u, ok := CoerceToUint64(value); ok {
		return float64(u), true
	}
	return 0, false
}

// CoerceToBigInt accepts *big.Int, big.Int, decimal strings and any value
// CoerceToInt64 or CoerceToUint64 accepts. The result is a fresh copy.
func CoerceToBigInt(value any) (*big.Int, bool) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	case big.Int:
		return new(big.Int).Set(&v), true
	case string:
		return new(big.Int).SetString(v, 10)
	case json.Number:
		return new(big.Int).SetString(v.String(), 10)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, false
		}
		n, acc := new(big.Float).SetFloat64(v).Int(nil)
		return n, acc == big.Exact
	}
	if i, ok := CoerceToInt64(value); ok {
		return big.NewInt(i), true
	}
	if u, ok := CoerceToUint64(value); ok {
		return new(big.Int).SetUint64(u), true
	}
	return nil, false
}

// CoerceToU128 returns the value as little-endian (lo, hi) halves.
func CoerceToU128(value any) (lo, hi uint64, ok bool) {
	n, ok := CoerceToBigInt(value)
	if !ok || n.Sign() < 0 || n.Cmp(maxU128) > 0 {
		return 0, 0, false
	}
	lo, hi = split128(n)
	return lo, hi, true
}

// CoerceToI128 returns the two's complement (lo, hi) halves.
func CoerceToI128(value any) (lo, hi uint64, ok bool) {
	n, ok := CoerceToBigInt(value)
	if !ok || n.Cmp(minI128) < 0 || n.Cmp(maxI128) > 0 {
		return 0, 0, false
	}
	if n.Sign() < 0 {
		n.Add(n, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	lo, hi = split128(n)
	return lo, hi, true
}

// U128 joins little-endian halves into an unsigned integer.
func U128(lo, hi uint64) *big.Int {
	n := new(big.Int).SetUint64(hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(lo))
}

// I128 joins two's complement halves into a signed integer.
func I128(lo, hi uint64) *big.Int {
	n := U128(lo, hi)
	if hi>>63 == 1 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return n
}

func split128(n *big.Int) (lo, hi uint64) {
	mask := new(big.Int).SetUint64(math.MaxUint64)
	lo = new(big.Int).And(n, mask).Uint64()
	hi = new(big.Int).Rsh(n, 64).Uint64()
	return lo, hi
}
