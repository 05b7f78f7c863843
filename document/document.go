package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
)

// Import kinds as they appear on the wire.
const (
	KindFunction = "function"
	KindStatic   = "static"
	KindType     = "type"
)

// Document is the decoded descriptor document.
type Document struct {
	Exports         []Export         `json:"exports"`
	Imports         []Import         `json:"imports"`
	Enums           []Enum           `json:"enums"`
	CustomTypeNames []CustomTypeName `json:"custom_type_names"`
	Version         string           `json:"version"`
	SchemaVersion   string           `json:"schema_version"`
}

// Function is a signature: argument and return descriptors.
type Function struct {
	Ret       *uint32  `json:"ret"`
	Name      string   `json:"name"`
	Arguments []uint32 `json:"arguments"`
}

// Export is a free function or a class method exposed by the module.
type Export struct {
	Class    *string  `json:"class"`
	Function Function `json:"function"`
	Method   bool     `json:"method"`
}

// Import is a host binding the module expects, scoped by module and JS namespace.
type Import struct {
	Module      *string       `json:"module"`
	JSNamespace *string       `json:"js_namespace"`
	Kind        ImportDetails `json:"kind"`
}

// ImportDetails is the union of the three import kinds. Fields that do not
// belong to Kind are left zero.
type ImportDetails struct {
	Function   *Function `json:"function,omitempty"`
	Getter     *string   `json:"getter,omitempty"`
	Setter     *string   `json:"setter,omitempty"`
	Class      *string   `json:"class,omitempty"`
	Kind       string    `json:"kind"`
	Shim       string    `json:"shim,omitempty"`
	Name       string    `json:"name,omitempty"`
	Catch      bool      `json:"catch,omitempty"`
	Method     bool      `json:"method,omitempty"`
	JSNew      bool      `json:"js_new,omitempty"`
	Structural bool      `json:"structural,omitempty"`
}

// Enum is a C-style enumeration with resolved discriminants.
type Enum struct {
	Name     string    `json:"name"`
	Variants []Variant `json:"variants"`
}

// Variant is one enumeration member.
type Variant struct {
	Name  string `json:"name"`
	Value uint32 `json:"value"`
}

// CustomTypeName maps a class or struct name to its descriptor.
type CustomTypeName struct {
	Name       string `json:"name"`
	Descriptor uint32 `json:"descriptor"`
}

// Decode parses an encoded descriptor document. Unknown keys, import kinds
// and anything following the document are rejected.
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "malformed descriptor document")
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "trailing data after document")
	}
	if doc.SchemaVersion == "" {
		return nil, errors.FieldMissing(errors.PhaseDecode, nil, "schema_version")
	}
	for i, imp := range doc.Imports {
		switch imp.Kind.Kind {
		case KindFunction:
			if imp.Kind.Function == nil {
				return nil, errors.FieldMissing(errors.PhaseDecode, []string{"imports", fmt.Sprint(i), "kind"}, "function")
			}
		case KindStatic, KindType:
		default:
			return nil, errors.InvalidData(errors.PhaseDecode, []string{"imports", fmt.Sprint(i), "kind"},
				fmt.Sprintf("unknown import kind %q", imp.Kind.Kind))
		}
	}
	return &doc, nil
}

// TypeName renders a descriptor the way it would be spelled in source:
// built-ins by name, custom types through custom_type_names, anything else
// as #<value>.
func (d *Document) TypeName(v uint32) string {
	if name, ok := descriptor.BuiltinName(descriptor.Descriptor(v)); ok {
		return name
	}
	owned := descriptor.Descriptor(v) &^ 1
	for _, c := range d.CustomTypeNames {
		switch descriptor.Descriptor(c.Descriptor) {
		case descriptor.Descriptor(v):
			return c.Name
		case owned:
			return "&" + c.Name
		}
	}
	return "#" + descriptor.Descriptor(v).String()
}

// Signature renders f as name(arg, ...) -> ret.
func (d *Document) Signature(f *Function) string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, a := range f.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.TypeName(a))
	}
	b.WriteByte(')')
	if f.Ret != nil {
		b.WriteString(" -> ")
		b.WriteString(d.TypeName(*f.Ret))
	}
	return b.String()
}

// Summary counts the entries of a document.
type Summary struct {
	Version       string
	SchemaVersion string
	Exports       int
	Methods       int
	Functions     int
	Statics       int
	Types         int
	Enums         int
	Variants      int
	CustomTypes   int
}

// Summary tallies the document's exports, imports and enums.
func (d *Document) Summary() Summary {
	s := Summary{
		Version:       d.Version,
		SchemaVersion: d.SchemaVersion,
		Exports:       len(d.Exports),
		Enums:         len(d.Enums),
		CustomTypes:   len(d.CustomTypeNames),
	}
	for _, e := range d.Exports {
		if e.Method {
			s.Methods++
		}
	}
	for _, imp := range d.Imports {
		switch imp.Kind.Kind {
		case KindFunction:
			s.Functions++
		case KindStatic:
			s.Statics++
		case KindType:
			s.Types++
		}
	}
	for _, e := range d.Enums {
		s.Variants += len(e.Variants)
	}
	return s
}

// Imports returns the total number of imports.
func (s Summary) Imports() int {
	return s.Functions + s.Statics + s.Types
}

func (s Summary) String() string {
	return fmt.Sprintf("version %s (schema %s): %d exports (%d methods), %d imports (%d functions, %d statics, %d types), %d enums, %d custom types",
		s.Version, s.SchemaVersion,
		s.Exports, s.Methods,
		s.Imports(), s.Functions, s.Statics, s.Types,
		s.Enums, s.CustomTypes)
}
