package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // AST to descriptor bytes
	PhaseValidate Phase = "validate" // AST contract checks
	PhaseDecode   Phase = "decode"   // descriptor bytes to document
	PhaseLoad     Phase = "load"     // description file loading
	PhaseEmbed    Phase = "embed"    // Go source / wasm section embedding
	PhaseConfig   Phase = "config"   // configuration loading
	PhaseParse    Phase = "parse"    // wasm binary parsing
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidTypeLocation Kind = "invalid_type_location"
	KindUnsafeString        Kind = "unsafe_string"
	KindDescriptorRange     Kind = "descriptor_range"
	KindDescriptorMismatch  Kind = "descriptor_mismatch"
	KindInvalidSetter       Kind = "invalid_setter"
	KindFieldMissing        Kind = "field_missing"
	KindInvalidData         Kind = "invalid_data"
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindUnsupported         Kind = "unsupported"
	KindSink                Kind = "sink"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Path   []string
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

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Path sets the node path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the boundary type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// Contract violations. The encoder panics with these; Validate returns them.

// InvalidTypeLocation reports a (kind, location) pair no descriptor rule covers
func InvalidTypeLocation(phase Phase, path []string, typeName string, kind, loc fmt.Stringer) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidTypeLocation,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("no descriptor rule for kind %s at %s", kind, loc),
		Value:  [2]string{kind.String(), loc.String()},
	}
}

// UnsafeString reports a string containing a byte that would need JSON escaping
func UnsafeString(phase Phase, path []string, s string, offset int) *Error {
	preview := s
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindUnsafeString,
		Path:   path,
		Detail: fmt.Sprintf("byte 0x%02x at offset %d of %q requires escaping", s[offset], offset, preview),
		Value:  s,
	}
}

// DescriptorRange reports a descriptor that does not fit the fixed-width encoding
func DescriptorRange(value uint32, limit uint32) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDescriptorRange,
		Detail: fmt.Sprintf("descriptor %d does not fit below %d", value, limit),
		Value:  value,
	}
}

// DescriptorMismatch reports a custom type whose descriptor disagrees with
// the one custom_type_names lists for its name
func DescriptorMismatch(path []string, typeName string, got, want uint32) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDescriptorMismatch,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("type carries descriptor %d but the name maps to %d", got, want),
		Value:  [2]uint32{got, want},
	}
}

// InvalidSetter reports a setter whose property name cannot be inferred
func InvalidSetter(phase Phase, path []string, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidSetter,
		Path:   path,
		Detail: fmt.Sprintf("setters must start with `set_`, found: %s", name),
		Value:  name,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not set", fieldName),
	}
}

// Recoverable failures.

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
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

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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

// Sink wraps a failure of the byte sink the encoder writes to
func Sink(cause error) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSink,
		Detail: "write descriptor byte",
		Cause:  cause,
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

// Load creates a description loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Recover converts a contract-violation panic raised with an *Error back into
// an error value. Any other panic is re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*errp = e
		return
	}
	panic(r)
}
