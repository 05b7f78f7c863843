package ast

import (
	"sort"
	"strings"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
)

// Program is the root of a parsed interface description.
type Program struct {
	Exports []Export
	Imports []Import
	Enums   []Enum
	Structs []Struct
}

// CustomTypeNames returns every exported class name and struct name,
// deduplicated and sorted, so the order of the source lists never leaks
// into the output.
func (p *Program) CustomTypeNames() []string {
	seen := make(map[string]struct{}, len(p.Exports)+len(p.Structs))
	for _, e := range p.Exports {
		if e.Class != "" {
			seen[e.Class] = struct{}{}
		}
	}
	for _, s := range p.Structs {
		seen[s.Name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Function is a signature shared by exports and imports.
type Function struct {
	Ret       *Type
	Name      string
	Arguments []Type
	Opts      FunctionOpts
}

// FunctionOpts holds attribute flags attached to a function.
type FunctionOpts struct {
	Getter     *Accessor
	Setter     *Accessor
	Catch      bool
	Structural bool
}

// Accessor marks a function as a property getter or setter. An empty Name
// means the property name is inferred from the function name.
type Accessor struct {
	Name string
}

// Type is one occurrence of a type in a signature.
type Type struct {
	Ty   descriptor.Boundary
	Kind TypeKind
	Loc  TypeLocation
}

// String renders a type occurrence the way description files spell it.
func (t Type) String() string {
	name := "<nil>"
	if t.Ty != nil {
		name = t.Ty.Name()
	}
	switch t.Kind {
	case ByRef:
		return "&" + name
	case ByMutRef:
		return "&mut " + name
	default:
		return name
	}
}

// Export is a function exposed to the other side of the boundary.
// Class is empty for free functions.
type Export struct {
	Class    string
	Function Function
	Method   bool
}

// Import is an item consumed from the other side of the boundary.
// Module and JSNamespace are empty when absent.
type Import struct {
	Kind        ImportKind
	Module      string
	JSNamespace string
}

// ImportKind is the closed set of importable items: *ImportFunction,
// *ImportStatic and *ImportType.
type ImportKind interface {
	isImportKind()
}

// ImportFunction is an imported function.
type ImportFunction struct {
	Kind     ImportFunctionKind
	Shim     string
	Function Function
}

// ImportFunctionKind is the closed set of import function flavors:
// MethodKind, ConstructorKind and NormalKind.
type ImportFunctionKind interface {
	isImportFunctionKind()
}

// MethodKind is an instance method of Class.
type MethodKind struct {
	Class string
}

// ConstructorKind is a foreign constructor of Class.
type ConstructorKind struct {
	Class string
}

// NormalKind is a free function.
type NormalKind struct{}

func (MethodKind) isImportFunctionKind()      {}
func (ConstructorKind) isImportFunctionKind() {}
func (NormalKind) isImportFunctionKind()      {}

// ImportStatic is an imported static value.
type ImportStatic struct {
	JSName string
	Shim   string
}

// ImportType is an imported opaque type.
type ImportType struct{}

func (*ImportFunction) isImportKind() {}
func (*ImportStatic) isImportKind()   {}
func (*ImportType) isImportKind()     {}

// Enum is a C-style enumeration.
type Enum struct {
	Name     string
	Variants []Variant
}

// Variant is one enumeration case.
type Variant struct {
	Name  string
	Value uint32
}

// Struct is an exported struct; only its name matters here.
type Struct struct {
	Name string
}

const setterPrefix = "set_"

// InferGetterProperty returns the property a getter without an explicit
// name exposes: the function name itself.
func (f *ImportFunction) InferGetterProperty() string {
	return f.Function.Name
}

// InferSetterProperty returns the property a setter without an explicit
// name assigns: the function name minus its mandatory "set_" prefix.
func (f *ImportFunction) InferSetterProperty() string {
	name := f.Function.Name
	if !strings.HasPrefix(name, setterPrefix) {
		panic(errors.InvalidSetter(errors.PhaseEncode, nil, name))
	}
	return name[len(setterPrefix):]
}

// GetterName returns the property name if the function is a getter.
func (f *ImportFunction) GetterName() (string, bool) {
	g := f.Function.Opts.Getter
	if g == nil {
		return "", false
	}
	if g.Name != "" {
		return g.Name, true
	}
	return f.InferGetterProperty(), true
}

// SetterName returns the property name if the function is a setter.
func (f *ImportFunction) SetterName() (string, bool) {
	s := f.Function.Opts.Setter
	if s == nil {
		return "", false
	}
	if s.Name != "" {
		return s.Name, true
	}
	return f.InferSetterProperty(), true
}
