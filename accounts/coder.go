package accounts

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	idlcodec "github.com/wippyai/idl-codec"
	"github.com/wippyai/idl-codec/errors"
	"github.com/wippyai/idl-codec/idl"
	"github.com/wippyai/idl-codec/layout"
)

// DefaultMaxAccountSize is the largest encoding Encode produces unless
// Config.MaxAccountSize says otherwise. It matches the on-chain account
// data ceiling of 10 MiB.
const DefaultMaxAccountSize = 10 << 20

// Config holds configuration for coder creation
type Config struct {
	// Logger overrides the package logger for this coder.
	Logger *zap.Logger

	// Compiler is shared between coders built from the same type
	// definitions. A fresh compiler is used when nil.
	Compiler *layout.Compiler

	// MaxAccountSize caps the discriminator plus payload length of
	// Encode. Zero means DefaultMaxAccountSize.
	MaxAccountSize int
}

// Collision reports two accounts whose discriminators are equal or where
// one is a prefix of the other. DecodeAny resolves such buffers to the
// account declared first.
type Collision struct {
	First     string
	Second    string
	Identical bool
}

type entry struct {
	layout layout.Layout
	name   string
	disc   []byte
}

// Coder encodes and decodes the accounts declared by one IDL. It is
// immutable after construction and safe for concurrent use.
type Coder struct {
	schema     *idl.IDL
	logger     *zap.Logger
	index      map[string]int
	entries    []entry
	collisions []Collision
	maxSize    int
}

// New builds a coder for every account the schema declares.
func New(schema *idl.IDL) (*Coder, error) {
	return NewWithConfig(schema, nil)
}

// NewWithConfig builds a coder with custom configuration. Construction is
// all-or-nothing: a missing type definition or a layout that fails to
// compile aborts it. The schema must not be modified afterwards.
func NewWithConfig(schema *idl.IDL, cfg *Config) (*Coder, error) {
	if schema == nil {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "nil IDL")
	}

	c := &Coder{
		schema:  schema,
		logger:  Logger(),
		index:   make(map[string]int, len(schema.Accounts)),
		maxSize: DefaultMaxAccountSize,
	}
	compiler := layout.NewCompiler()
	if cfg != nil {
		if cfg.Logger != nil {
			c.logger = cfg.Logger
		}
		if cfg.Compiler != nil {
			compiler = cfg.Compiler
		}
		if cfg.MaxAccountSize > 0 {
			c.maxSize = cfg.MaxAccountSize
		}
	}

	if len(schema.Accounts) > 0 && schema.Types == nil {
		return nil, errors.Schema(errors.PhaseRegistry, "accounts require type definitions")
	}

	for _, acc := range schema.Accounts {
		def, ok := schema.TypeDef(acc.Name)
		if !ok {
			return nil, errors.Schema(errors.PhaseRegistry, "account not found: %s", acc.Name)
		}
		l, err := compiler.Compile(def, schema.Types)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseRegistry, errors.KindSchema, err,
				fmt.Sprintf("compile account %q", acc.Name))
		}

		if _, dup := c.index[acc.Name]; dup {
			c.logger.Warn("duplicate account declaration ignored", zap.String("account", acc.Name))
			continue
		}
		c.index[acc.Name] = len(c.entries)
		c.entries = append(c.entries, entry{
			layout: l,
			name:   acc.Name,
			disc:   bytes.Clone(acc.Discriminator),
		})

		c.logger.Debug("registered account",
			zap.String("account", acc.Name),
			zap.String("discriminator", hex.EncodeToString(acc.Discriminator)),
			zap.Int("static_size", l.StaticSize()),
			zap.Bool("fixed", l.IsFixedSize()))
	}

	c.collisions = findCollisions(c.entries)
	for _, col := range c.collisions {
		c.logger.Warn("discriminator collision",
			zap.String("first", col.First),
			zap.String("second", col.Second),
			zap.Bool("identical", col.Identical))
	}

	return c, nil
}

func findCollisions(entries []entry) []Collision {
	var out []Collision
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i].disc, entries[j].disc
			if bytes.HasPrefix(a, b) || bytes.HasPrefix(b, a) {
				out = append(out, Collision{
					First:     entries[i].name,
					Second:    entries[j].name,
					Identical: bytes.Equal(a, b),
				})
			}
		}
	}
	return out
}

func (c *Coder) lookup(name string) (*entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return &c.entries[i], true
}

// Encode serializes value as the named account: discriminator followed by
// the payload.
func (c *Coder) Encode(name string, value any) ([]byte, error) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, errors.UnknownAccountType(errors.PhaseEncode, name)
	}

	n, err := e.layout.EncodedSize(value)
	if err != nil {
		return nil, err
	}
	total := len(e.disc) + n
	if total > c.maxSize {
		return nil, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Path(name).
			Detail("encoded account is %d bytes, limit %d", total, c.maxSize).
			Build()
	}

	buf := make([]byte, total)
	copy(buf, e.disc)
	written, err := e.layout.Encode(value, buf[len(e.disc):])
	if err != nil {
		return nil, err
	}
	return buf[:len(e.disc)+written], nil
}

// Decode checks that buf starts with the named account's discriminator and
// decodes the payload after it.
func (c *Coder) Decode(name string, buf idlcodec.Buffer) (any, error) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, errors.UnknownAccountType(errors.PhaseDecode, name)
	}
	if !buf.HasPrefix(e.disc) {
		return nil, errors.DiscriminatorMismatch(name, e.disc, buf)
	}
	return decodeEntry(e, buf)
}

// DecodeUnchecked skips the discriminator without comparing it. Use it
// when the tag was already verified.
func (c *Coder) DecodeUnchecked(name string, buf idlcodec.Buffer) (any, error) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, errors.UnknownAccountType(errors.PhaseDecode, name)
	}
	return decodeEntry(e, buf)
}

func decodeEntry(e *entry, buf idlcodec.Buffer) (any, error) {
	payload, err := buf.Slice(len(e.disc))
	if err != nil {
		return nil, err
	}
	return e.layout.Decode(payload)
}

// DecodeAny decodes buf as the first declared account whose discriminator
// prefixes it.
func (c *Coder) DecodeAny(buf idlcodec.Buffer) (any, error) {
	_, v, err := c.DecodeAnyNamed(buf)
	return v, err
}

// DecodeAnyNamed is DecodeAny that also returns the matched account name.
func (c *Coder) DecodeAnyNamed(buf idlcodec.Buffer) (string, any, error) {
	for i := range c.entries {
		e := &c.entries[i]
		if !buf.HasPrefix(e.disc) {
			continue
		}
		v, err := decodeEntry(e, buf)
		if err != nil {
			return e.name, nil, err
		}
		return e.name, v, nil
	}
	prefix := buf
	if len(prefix) > idl.DiscriminatorSize {
		prefix = prefix[:idl.DiscriminatorSize]
	}
	return "", nil, errors.AccountNotFound(errors.PhaseDecode,
		fmt.Sprintf("no account discriminator matches %s", hex.EncodeToString(prefix)))
}

// Size is the discriminator length plus the static payload size, computed
// from the schema. Length-prefixed fields count as empty and options count
// their element, so for variable-length accounts it is not an exact bound.
func (c *Coder) Size(name string) (int, error) {
	e, ok := c.lookup(name)
	if !ok {
		return 0, errors.New(errors.PhaseSize, errors.KindSchema).
			Cause(errors.UnknownAccountType(errors.PhaseSize, name)).
			Detail("cannot size undeclared account %q", name).
			Build()
	}
	n, err := layout.StaticSize(idl.Defined(name), c.schema)
	if err != nil {
		return 0, err
	}
	return len(e.disc) + n, nil
}

// IsFixedSize reports whether every encoding of the account is Size bytes.
func (c *Coder) IsFixedSize(name string) (bool, error) {
	e, ok := c.lookup(name)
	if !ok {
		return false, errors.UnknownAccountType(errors.PhaseSize, name)
	}
	return e.layout.IsFixedSize(), nil
}

// AccountDiscriminator returns a copy of the discriminator the schema
// declares for name.
func (c *Coder) AccountDiscriminator(name string) ([]byte, error) {
	return c.discriminator(errors.PhaseRegistry, name)
}

func (c *Coder) discriminator(phase errors.Phase, name string) ([]byte, error) {
	acc, ok := c.schema.Account(name)
	if !ok {
		return nil, errors.AccountNotFound(phase, "account not found: "+name)
	}
	return bytes.Clone(acc.Discriminator), nil
}

// Layout returns the compiled layout of a registered account.
func (c *Coder) Layout(name string) (layout.Layout, bool) {
	e, ok := c.lookup(name)
	if !ok {
		return nil, false
	}
	return e.layout, true
}

// Names lists the registered accounts in declaration order.
func (c *Coder) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.name
	}
	return out
}

// Collisions lists discriminator pairs that make DecodeAny ambiguous.
func (c *Coder) Collisions() []Collision {
	return append([]Collision(nil), c.collisions...)
}

// IDL returns the schema the coder was built from.
func (c *Coder) IDL() *idl.IDL {
	return c.schema
}
