package layout

import (
	"github.com/wippyai/idl-codec/idl"
	"github.com/wippyai/idl-codec/layout/internal/abi"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

type Kind = types.Kind

const (
	KindBool    = types.KindBool
	KindU8      = types.KindU8
	KindI8      = types.KindI8
	KindU16     = types.KindU16
	KindI16     = types.KindI16
	KindU32     = types.KindU32
	KindI32     = types.KindI32
	KindF32     = types.KindF32
	KindU64     = types.KindU64
	KindI64     = types.KindI64
	KindF64     = types.KindF64
	KindU128    = types.KindU128
	KindI128    = types.KindI128
	KindPubkey  = types.KindPubkey
	KindBytes   = types.KindBytes
	KindString  = types.KindString
	KindVec     = types.KindVec
	KindOption  = types.KindOption
	KindCOption = types.KindCOption
	KindArray   = types.KindArray
	KindStruct  = types.KindStruct
	KindTuple   = types.KindTuple
	KindEnum    = types.KindEnum
)

// MaxLength bounds decoded vec, bytes and string lengths.
const MaxLength = abi.MaxLength

var primitiveKinds = map[idl.TypeKind]Kind{
	idl.KindBool:   KindBool,
	idl.KindU8:     KindU8,
	idl.KindI8:     KindI8,
	idl.KindU16:    KindU16,
	idl.KindI16:    KindI16,
	idl.KindU32:    KindU32,
	idl.KindI32:    KindI32,
	idl.KindF32:    KindF32,
	idl.KindU64:    KindU64,
	idl.KindI64:    KindI64,
	idl.KindF64:    KindF64,
	idl.KindU128:   KindU128,
	idl.KindI128:   KindI128,
	idl.KindPubkey: KindPubkey,
	idl.KindBytes:  KindBytes,
	idl.KindString: KindString,
}
