package errors

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // IDL loading
	PhaseCompile  Phase = "compile"  // layout compilation
	PhaseRegistry Phase = "registry" // account registry construction
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseSize     Phase = "size"     // static size computation
	PhaseFilter   Phase = "filter"   // query filter construction
)

// Kind categorizes the error
type Kind string

const (
	KindSchema                Kind = "schema"
	KindUnknownAccountType    Kind = "unknown_account_type"
	KindDiscriminatorMismatch Kind = "discriminator_mismatch"
	KindAccountNotFound       Kind = "account_not_found"
	KindTypeMismatch          Kind = "type_mismatch"
	KindOutOfBounds           Kind = "out_of_bounds"
	KindInvalidData           Kind = "invalid_data"
	KindUnsupported           Kind = "unsupported"
	KindFieldMissing          Kind = "field_missing"
	KindInvalidUTF8           Kind = "invalid_utf8"
	KindOverflow              Kind = "overflow"
	KindInvalidVariant        Kind = "invalid_variant"
	KindInvalidInput          Kind = "invalid_input"
)

// Sentinels for errors.Is. A sentinel has no Phase and matches any error of
// the same Kind.
var (
	ErrSchema                = &Error{Kind: KindSchema}
	ErrUnknownAccountType    = &Error{Kind: KindUnknownAccountType}
	ErrDiscriminatorMismatch = &Error{Kind: KindDiscriminatorMismatch}
	ErrAccountNotFound       = &Error{Kind: KindAccountNotFound}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	IDLType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.IDLType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.IDLType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", IDL type ")
			b.WriteString(e.IDLType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("IDL type ")
			b.WriteString(e.IDLType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.IDLType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Targets without a Phase
// match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// IDLType sets the IDL type name
func (b *Builder) IDLType(t string) *Builder {
	b.err.IDLType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Account registry errors

// Schema creates a schema error
func Schema(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindSchema).Detail(detail, args...).Build()
}

// UnknownAccountType reports a name absent from the account registry
func UnknownAccountType(phase Phase, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownAccountType,
		Detail: fmt.Sprintf("unknown account type %q", name),
		Value:  name,
	}
}

// DiscriminatorMismatch reports a buffer whose leading bytes are not the
// expected discriminator. got is truncated to the expected length.
func DiscriminatorMismatch(name string, want, got []byte) *Error {
	if len(got) > len(want) {
		got = got[:len(want)]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindDiscriminatorMismatch,
		Detail: fmt.Sprintf("account %q: want discriminator %s, got %s", name, hex.EncodeToString(want), hex.EncodeToString(got)),
		Value:  name,
	}
}

// AccountNotFound reports that no declared account matched
func AccountNotFound(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAccountNotFound,
		Detail: detail,
	}
}

// Value errors

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, idlType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		IDLType: idlType,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// InvalidDiscriminant creates an invalid tag error for enums and options
func InvalidDiscriminant(phase Phase, path []string, disc uint32, maxValid uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid),
		Value:  disc,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Path:    path,
		IDLType: targetType,
		Detail:  fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:   value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates an IDL parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
