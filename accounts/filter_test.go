package accounts

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/wippyai/idl-codec/errors"
)

func TestMemcmp(t *testing.T) {
	c := mustCoder(t, bankIDL)

	tests := []struct {
		name  string
		extra [][]byte
		want  []byte
	}{
		{"discriminator only", nil, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"with extra bytes", [][]byte{{42}, {0, 0}}, []byte{1, 2, 3, 4, 5, 6, 7, 8, 42, 0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := c.Memcmp("Counter", tc.extra...)
			if err != nil {
				t.Fatalf("Memcmp: %v", err)
			}
			if f.Offset != 0 || f.Bytes != base58.Encode(tc.want) {
				t.Errorf("filter = %+v, want bytes %s", f, base58.Encode(tc.want))
			}
		})
	}
}

func TestMemcmpMatchesEncoding(t *testing.T) {
	c := mustCoder(t, bankIDL)
	data, err := c.Encode("Counter", map[string]any{"count": 42})
	if err != nil {
		t.Fatal(err)
	}

	own, _ := c.Memcmp("Counter")
	withValue, _ := c.Memcmp("Counter", []byte{42})
	other, _ := c.Memcmp("Vault")
	wrongValue, _ := c.Memcmp("Counter", []byte{43})

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"own discriminator", own.Filter(), true},
		{"discriminator and value", withValue.Filter(), true},
		{"other account", other.Filter(), false},
		{"wrong value", wrongValue.Filter(), false},
		{"offset past end", MemcmpFilter{Bytes: own.Bytes, Offset: 100}.Filter(), false},
		{"bad base58", MemcmpFilter{Bytes: "0OIl"}.Filter(), false},
		{"empty filter", Filter{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(data); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDataSize(t *testing.T) {
	c := mustCoder(t, bankIDL)

	f, err := c.DataSize("Counter")
	if err != nil {
		t.Fatalf("DataSize: %v", err)
	}
	if f.DataSize == nil || *f.DataSize != 16 {
		t.Fatalf("filter = %+v", f)
	}
	if !f.Matches(make([]byte, 16)) || f.Matches(make([]byte, 17)) {
		t.Error("Matches does not compare the length")
	}

	_, err = c.DataSize("Vault")
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindUnsupported || e.Phase != errors.PhaseFilter {
		t.Errorf("DataSize(Vault) = %v, want unsupported", err)
	}

	if _, err := c.DataSize("Nope"); !stderrors.Is(err, errors.ErrUnknownAccountType) {
		t.Errorf("DataSize(Nope) = %v", err)
	}
}

func TestFilterJSON(t *testing.T) {
	c := mustCoder(t, counterIDL)
	m, _ := c.Memcmp("Counter")
	size, _ := c.DataSize("Counter")

	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"memcmp", m.Filter(), `{"memcmp":{"bytes":"` + m.Bytes + `","offset":0}}`},
		{"dataSize", size, `{"dataSize":16}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.filter)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tc.want {
				t.Errorf("JSON = %s, want %s", got, tc.want)
			}
		})
	}
}
