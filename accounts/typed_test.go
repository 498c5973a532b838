package accounts

import (
	stderrors "errors"
	"math/big"
	"testing"

	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/layout"
)

type entryRecord struct {
	Amount *big.Int `cbor:"amount"`
	At     int64    `cbor:"at"`
}

type vaultRecord struct {
	State   map[string]any   `cbor:"state"`
	Memo    string           `cbor:"memo"`
	Entries []entryRecord    `cbor:"entries"`
	Balance uint64           `cbor:"balance"`
	Owner   layout.PublicKey `cbor:"owner"`
}

type configRecord struct {
	Fee   *uint16          `json:"fee"`
	Admin layout.PublicKey `json:"admin"`
}

func TestEncodeFromDecodeInto(t *testing.T) {
	c := mustCoder(t, bankIDL)

	amount, _ := new(big.Int).SetString("170141183460469231731687303715884105728", 10)
	in := vaultRecord{
		Owner:   layout.PublicKey{1, 2, 3},
		Balance: 77,
		Memo:    "typed",
		Entries: []entryRecord{{At: -5, Amount: amount}, {At: 6, Amount: big.NewInt(1)}},
		State:   map[string]any{"Active": nil},
	}

	data, err := c.EncodeFrom("Vault", in)
	if err != nil {
		t.Fatalf("EncodeFrom: %v", err)
	}

	dynamic, err := c.Decode("Vault", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dynamic.(map[string]any)["memo"] != "typed" {
		t.Errorf("dynamic decode = %#v", dynamic)
	}

	var out vaultRecord
	if err := c.DecodeInto("Vault", data, &out); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if out.Owner != in.Owner || out.Balance != 77 || out.Memo != "typed" {
		t.Errorf("out = %+v", out)
	}
	if len(out.Entries) != 2 || out.Entries[0].At != -5 || out.Entries[0].Amount.Cmp(amount) != 0 {
		t.Errorf("entries = %+v", out.Entries)
	}
	if _, ok := out.State["Active"]; !ok {
		t.Errorf("state = %#v", out.State)
	}
}

func TestTypedOption(t *testing.T) {
	c := mustCoder(t, bankIDL)
	fee := uint16(300)

	tests := []struct {
		fee  *uint16
		name string
		size int
	}{
		{name: "none", fee: nil, size: 8 + 32 + 1},
		{name: "some", fee: &fee, size: 8 + 32 + 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := c.EncodeFrom("Config", configRecord{Admin: layout.PublicKey{9}, Fee: tc.fee})
			if err != nil {
				t.Fatalf("EncodeFrom: %v", err)
			}
			if len(data) != tc.size {
				t.Errorf("len = %d, want %d", len(data), tc.size)
			}

			var out configRecord
			if err := c.DecodeInto("Config", data, &out); err != nil {
				t.Fatalf("DecodeInto: %v", err)
			}
			if out.Admin != (layout.PublicKey{9}) {
				t.Errorf("admin = %v", out.Admin)
			}
			switch {
			case tc.fee == nil && out.Fee != nil:
				t.Errorf("fee = %d, want none", *out.Fee)
			case tc.fee != nil && (out.Fee == nil || *out.Fee != *tc.fee):
				t.Errorf("fee = %v, want %d", out.Fee, *tc.fee)
			}
		})
	}
}

func TestTypedErrors(t *testing.T) {
	c := mustCoder(t, bankIDL)

	if _, err := c.EncodeFrom("Nope", configRecord{}); !stderrors.Is(err, errors.ErrUnknownAccountType) {
		t.Errorf("EncodeFrom(Nope) = %v", err)
	}

	data, err := c.Encode("Counter", map[string]any{"count": 1})
	if err != nil {
		t.Fatal(err)
	}
	var out configRecord
	if err := c.DecodeInto("Config", data, &out); !stderrors.Is(err, errors.ErrDiscriminatorMismatch) {
		t.Errorf("DecodeInto(Config) = %v", err)
	}

	var wrong struct {
		Count string `cbor:"count"`
	}
	err = c.DecodeInto("Counter", data, &wrong)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindTypeMismatch || e.Phase != errors.PhaseDecode {
		t.Errorf("DecodeInto into string = %v, want type mismatch", err)
	}

	// A channel cannot be represented in CBOR.
	_, err = c.EncodeFrom("Counter", map[string]any{"count": make(chan int)})
	if !stderrors.As(err, &e) || e.Kind != errors.KindTypeMismatch || e.Phase != errors.PhaseEncode {
		t.Errorf("EncodeFrom channel = %v, want type mismatch", err)
	}
}
