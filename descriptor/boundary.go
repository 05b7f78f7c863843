package descriptor

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Boundary is the capability a type provides to cross the interface. Each
// of the three descriptors is a fixed property of the type.
type Boundary interface {
	// Name is the type's source-level name.
	Name() string
	// ValueDescriptor applies to owned occurrences at any location.
	ValueDescriptor() Descriptor
	// ToRefDescriptor applies to borrows handed into foreign code or
	// returned from generated code.
	ToRefDescriptor() Descriptor
	// FromRefDescriptor applies to borrows received from foreign code or
	// accepted as export arguments.
	FromRefDescriptor() Descriptor
}

// Built-in boundary descriptors.
const (
	Bool        Descriptor = 2
	U8          Descriptor = 4
	S8          Descriptor = 6
	U16         Descriptor = 8
	S16         Descriptor = 10
	U32         Descriptor = 12
	S32         Descriptor = 14
	U64         Descriptor = 16
	S64         Descriptor = 18
	F32         Descriptor = 20
	F64         Descriptor = 22
	Char        Descriptor = 24
	String      Descriptor = 26
	BorrowedStr Descriptor = 27
	JSOwned     Descriptor = 40
	JSRef       Descriptor = 41
)

type primitive struct {
	name    string
	value   Descriptor
	toRef   Descriptor
	fromRef Descriptor
}

func (p *primitive) Name() string                  { return p.name }
func (p *primitive) ValueDescriptor() Descriptor   { return p.value }
func (p *primitive) ToRefDescriptor() Descriptor   { return p.toRef }
func (p *primitive) FromRefDescriptor() Descriptor { return p.fromRef }

func scalar(name string, d Descriptor) *primitive {
	return &primitive{name: name, value: d, toRef: d.Borrowed(), fromRef: d.Borrowed()}
}

var primitives = map[string]*primitive{
	"bool":   scalar("bool", Bool),
	"u8":     scalar("u8", U8),
	"s8":     scalar("s8", S8),
	"u16":    scalar("u16", U16),
	"s16":    scalar("s16", S16),
	"u32":    scalar("u32", U32),
	"s32":    scalar("s32", S32),
	"u64":    scalar("u64", U64),
	"s64":    scalar("s64", S64),
	"f32":    scalar("f32", F32),
	"f64":    scalar("f64", F64),
	"char":   scalar("char", Char),
	"string": {name: "string", value: String, toRef: BorrowedStr, fromRef: BorrowedStr},
}

// aliases maps source spellings onto WIT primitive names.
var aliases = map[string]string{
	"i8":     "s8",
	"i16":    "s16",
	"i32":    "s32",
	"i64":    "s64",
	"str":    "string",
	"String": "string",
}

var jsValue = &primitive{name: "JsValue", value: JSOwned, toRef: JSRef, fromRef: JSRef}

// witName names a WIT primitive; the empty string means t is not one.
func witName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	default:
		return ""
	}
}

// witType is the inverse of witName; nil means name is not a WIT primitive.
func witType(name string) wit.Type {
	switch name {
	case "bool":
		return wit.Bool{}
	case "u8":
		return wit.U8{}
	case "s8":
		return wit.S8{}
	case "u16":
		return wit.U16{}
	case "s16":
		return wit.S16{}
	case "u32":
		return wit.U32{}
	case "s32":
		return wit.S32{}
	case "u64":
		return wit.U64{}
	case "s64":
		return wit.S64{}
	case "f32":
		return wit.F32{}
	case "f64":
		return wit.F64{}
	case "char":
		return wit.Char{}
	case "string":
		return wit.String{}
	default:
		return nil
	}
}

// Primitive returns the boundary of a WIT primitive type.
func Primitive(t wit.Type) (Boundary, bool) {
	p, ok := primitives[witName(t)]
	if !ok {
		return nil, false
	}
	return p, true
}

// JSValue is the boundary of an opaque foreign value handle.
func JSValue() Boundary { return jsValue }

type custom struct {
	name string
	d    Descriptor
}

func (c *custom) Name() string                  { return c.name }
func (c *custom) ValueDescriptor() Descriptor   { return c.d }
func (c *custom) ToRefDescriptor() Descriptor   { return c.d.Borrowed() }
func (c *custom) FromRefDescriptor() Descriptor { return c.d.Borrowed() }

// Custom returns the boundary of a user-defined type, its descriptors
// derived from the name via NameToDescriptor.
func Custom(name string) Boundary {
	return CustomWith(name, NameToDescriptor)
}

// CustomWith is Custom with an explicit name mapping.
func CustomWith(name string, mapping func(string) uint32) Boundary {
	return &custom{name: name, d: Descriptor(mapping(name))}
}

// Resolver maps a type name from a description file to its boundary.
type Resolver interface {
	Resolve(name string) (Boundary, error)
}

// DefaultResolver resolves WIT primitive names and their aliases, JsValue,
// and treats every other identifier as a user-defined type.
type DefaultResolver struct {
	// NameToDescriptor overrides the custom type mapping when set.
	NameToDescriptor func(string) uint32
}

// Resolve implements Resolver.
func (r DefaultResolver) Resolve(name string) (Boundary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("empty type name")
	}
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if t := witType(name); t != nil {
		if p, ok := Primitive(t); ok {
			return p, nil
		}
	}
	if name == jsValue.name {
		return jsValue, nil
	}
	if !isIdent(name) {
		return nil, fmt.Errorf("invalid type name %q", name)
	}
	mapping := r.NameToDescriptor
	if mapping == nil {
		mapping = NameToDescriptor
	}
	return CustomWith(name, mapping), nil
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return len(s) > 0
}

var builtinNames = func() map[Descriptor]string {
	m := make(map[Descriptor]string, 2*len(primitives)+2)
	for name, p := range primitives {
		m[p.value] = name
		m[p.fromRef] = "&" + name
	}
	m[BorrowedStr] = "&str"
	m[jsValue.value] = jsValue.name
	m[jsValue.fromRef] = "&" + jsValue.name
	return m
}()

// BuiltinName returns the source spelling of a built-in descriptor, with a
// leading & for borrowed forms.
func BuiltinName(d Descriptor) (string, bool) {
	name, ok := builtinNames[d]
	return name, ok
}
