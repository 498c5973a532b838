package layout

import (
	idlcodec "github.com/wippyai/idl-codec"
	"github.com/wippyai/idl-codec/layout/internal/types"
)

// Layout is the compiled encode/decode procedure for one type.
type Layout interface {
	// Name is the type definition name, or the rendered type for anonymous
	// references.
	Name() string
	Kind() Kind

	// Encode writes value into dst and returns the number of bytes written.
	// dst must hold at least EncodedSize(value) bytes.
	Encode(value any, dst []byte) (int, error)

	// EncodedSize returns the exact length Encode will write for value.
	EncodedSize(value any) (int, error)

	// Decode reads one value from the start of buf. Trailing bytes are
	// ignored.
	Decode(buf idlcodec.Buffer) (any, error)

	// StaticSize counts length-prefixed shapes as empty and options as
	// present.
	StaticSize() int

	// IsFixedSize reports whether every value encodes to StaticSize bytes.
	IsFixedSize() bool
}

type compiledLayout struct {
	ct *types.CompiledType
}

func (l *compiledLayout) Name() string      { return l.ct.Label() }
func (l *compiledLayout) Kind() Kind        { return l.ct.Kind }
func (l *compiledLayout) StaticSize() int   { return l.ct.Size }
func (l *compiledLayout) IsFixedSize() bool { return l.ct.Fixed }

func (l *compiledLayout) Encode(value any, dst []byte) (int, error) {
	e := &encoder{w: writer{buf: dst}}
	if err := e.encode(l.ct, value, []string{l.ct.Label()}); err != nil {
		return 0, err
	}
	return e.w.pos, nil
}

func (l *compiledLayout) EncodedSize(value any) (int, error) {
	if l.ct.Fixed {
		return l.ct.Size, nil
	}
	e := &encoder{w: writer{measure: true}}
	if err := e.encode(l.ct, value, []string{l.ct.Label()}); err != nil {
		return 0, err
	}
	return e.w.pos, nil
}

func (l *compiledLayout) Decode(buf idlcodec.Buffer) (any, error) {
	d := &decoder{buf: buf}
	return d.decode(l.ct, []string{l.ct.Label()})
}
