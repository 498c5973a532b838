package accounts

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	idlcodec "github.com/wippyai/idl-codec"
	"github.com/wippyai/idl-codec/errors"
)

// encMode uses Core Deterministic Encoding so equal values bridge to equal
// bytes. TextMarshaler types (layout.PublicKey) travel as text strings.
var encMode cbor.EncMode

// decMode picks map[string]any for any-typed targets so bridged values have
// the shape the layout encoder expects.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("accounts: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("accounts: CBOR decoder initialization failed: " + err.Error())
	}
}

// DecodeInto decodes the named account and stores it in out, which must be
// a pointer. Struct fields are matched by their cbor or json tag, then by
// name. Pubkey fields should use layout.PublicKey.
func (c *Coder) DecodeInto(name string, buf idlcodec.Buffer, out any) error {
	v, err := c.Decode(name, buf)
	if err != nil {
		return err
	}
	return bridge(errors.PhaseDecode, v, out)
}

// EncodeFrom encodes a Go struct (or any value) as the named account.
func (c *Coder) EncodeFrom(name string, in any) ([]byte, error) {
	if _, ok := c.lookup(name); !ok {
		return nil, errors.UnknownAccountType(errors.PhaseEncode, name)
	}
	var v any
	if err := bridge(errors.PhaseEncode, in, &v); err != nil {
		return nil, err
	}
	return c.Encode(name, v)
}

func bridge(phase errors.Phase, in, out any) error {
	data, err := encMode.Marshal(in)
	if err != nil {
		return errors.Wrap(phase, errors.KindTypeMismatch, err, fmt.Sprintf("cannot convert %T", in))
	}
	if err := decMode.Unmarshal(data, out); err != nil {
		return errors.Wrap(phase, errors.KindTypeMismatch, err, fmt.Sprintf("cannot convert into %T", out))
	}
	return nil
}
