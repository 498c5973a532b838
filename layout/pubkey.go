package layout

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeySize is the width of an encoded pubkey.
const PublicKeySize = 32

// PublicKey is a decoded pubkey field. Its text form is base58.
type PublicKey [PublicKeySize]byte

// ParsePublicKey decodes a base58 address.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 public key: %w", err)
	}
	if len(raw) != PublicKeySize {
		return pk, fmt.Errorf("public key is %d bytes, want %d", len(raw), PublicKeySize)
	}
	copy(pk[:], raw)
	return pk, nil
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// toPublicKey accepts PublicKey, *PublicKey, [32]byte, a 32-byte slice or
// a base58 string.
func toPublicKey(value any) (PublicKey, bool) {
	switch v := value.(type) {
	case PublicKey:
		return v, true
	case *PublicKey:
		if v != nil {
			return *v, true
		}
	case [PublicKeySize]byte:
		return PublicKey(v), true
	case []byte:
		if len(v) == PublicKeySize {
			return PublicKey(v), true
		}
	case string:
		pk, err := ParsePublicKey(v)
		return pk, err == nil
	}
	return PublicKey{}, false
}
