package accounts

import (
	"bytes"

	"github.com/mr-tron/base58"

	"github.com/wippyai/idl-codec/errors"
)

// MemcmpFilter matches accounts whose data holds Bytes (base58) at Offset.
type MemcmpFilter struct {
	Bytes  string `json:"bytes"`
	Offset int    `json:"offset"`
}

// Filter is one entry of an account query's filter list. Exactly one of
// the fields is set.
type Filter struct {
	Memcmp   *MemcmpFilter `json:"memcmp,omitempty"`
	DataSize *int          `json:"dataSize,omitempty"`
}

// Filter wraps m as a query filter.
func (m MemcmpFilter) Filter() Filter {
	return Filter{Memcmp: &m}
}

// Matches applies the filter to raw account data.
func (f Filter) Matches(data []byte) bool {
	switch {
	case f.Memcmp != nil:
		want, err := base58.Decode(f.Memcmp.Bytes)
		if err != nil || f.Memcmp.Offset < 0 || f.Memcmp.Offset > len(data) {
			return false
		}
		return bytes.HasPrefix(data[f.Memcmp.Offset:], want)
	case f.DataSize != nil:
		return len(data) == *f.DataSize
	}
	return true
}

// Memcmp builds a filter matching the named account's discriminator,
// optionally followed by extra bytes, at offset zero.
func (c *Coder) Memcmp(name string, extra ...[]byte) (MemcmpFilter, error) {
	disc, err := c.discriminator(errors.PhaseFilter, name)
	if err != nil {
		return MemcmpFilter{}, err
	}
	for _, b := range extra {
		disc = append(disc, b...)
	}
	return MemcmpFilter{Offset: 0, Bytes: base58.Encode(disc)}, nil
}

// DataSize builds a filter matching the exact encoded length of a
// fixed-size account.
func (c *Coder) DataSize(name string) (Filter, error) {
	fixed, err := c.IsFixedSize(name)
	if err != nil {
		return Filter{}, err
	}
	if !fixed {
		return Filter{}, errors.New(errors.PhaseFilter, errors.KindUnsupported).
			Path(name).
			Detail("account %q has no fixed size", name).
			Build()
	}
	n, err := c.Size(name)
	if err != nil {
		return Filter{}, err
	}
	return Filter{DataSize: &n}, nil
}
