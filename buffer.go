package idlcodec

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/idl-codec/errors"
)

// Buffer is a read-only little-endian view over encoded account bytes.
// Sub-slicing a Buffer yields a Buffer, so an offset view keeps every
// numeric reader of the original.
type Buffer []byte

// Len returns the number of bytes in the view.
func (b Buffer) Len() int {
	return len(b)
}

// Bytes returns the underlying bytes without copying.
func (b Buffer) Bytes() []byte {
	return b
}

// HasPrefix reports whether the view starts with prefix.
func (b Buffer) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(b, prefix)
}

// Slice returns the view starting at offset.
func (b Buffer) Slice(offset int) (Buffer, error) {
	if offset < 0 || offset > len(b) {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, offset, len(b))
	}
	return b[offset:], nil
}

// Read returns length bytes at offset. The result aliases the buffer.
func (b Buffer) Read(offset, length int) ([]byte, error) {
	if err := b.check(offset, length); err != nil {
		return nil, err
	}
	return b[offset : offset+length], nil
}

func (b Buffer) ReadU8(offset int) (uint8, error) {
	if err := b.check(offset, 1); err != nil {
		return 0, err
	}
	return b[offset], nil
}

func (b Buffer) ReadU16(offset int) (uint16, error) {
	if err := b.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[offset:]), nil
}

func (b Buffer) ReadU32(offset int) (uint32, error) {
	if err := b.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[offset:]), nil
}

func (b Buffer) ReadU64(offset int) (uint64, error) {
	if err := b.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[offset:]), nil
}

// ReadU128 returns the low and high 64-bit halves of a 128-bit value.
func (b Buffer) ReadU128(offset int) (lo, hi uint64, err error) {
	if err := b.check(offset, 16); err != nil {
		return 0, 0, err
	}
	return binary.LittleEndian.Uint64(b[offset:]), binary.LittleEndian.Uint64(b[offset+8:]), nil
}

func (b Buffer) check(offset, length int) error {
	if offset < 0 || length < 0 || offset > len(b)-length {
		return errors.OutOfBounds(errors.PhaseDecode, nil, offset+length, len(b))
	}
	return nil
}
