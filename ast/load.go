package ast

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
)

// Description file schema. Type references are strings: "u32", "&str",
// "&mut Counter". The reference prefix selects the TypeKind; the location
// follows from where the type appears.
type fileProgram struct {
	Exports []fileExport `yaml:"exports"`
	Imports []fileImport `yaml:"imports"`
	Enums   []fileEnum   `yaml:"enums"`
	Structs []string     `yaml:"structs"`
}

type fileExport struct {
	Class     string   `yaml:"class"`
	Name      string   `yaml:"name"`
	Ret       string   `yaml:"ret"`
	Arguments []string `yaml:"arguments"`
	Method    bool     `yaml:"method"`
}

type fileImport struct {
	Getter      *string  `yaml:"getter"`
	Setter      *string  `yaml:"setter"`
	Module      string   `yaml:"module"`
	JSNamespace string   `yaml:"js_namespace"`
	Kind        string   `yaml:"kind"`
	Name        string   `yaml:"name"`
	Shim        string   `yaml:"shim"`
	Method      string   `yaml:"method"`
	Constructor string   `yaml:"constructor"`
	Ret         string   `yaml:"ret"`
	Arguments   []string `yaml:"arguments"`
	Catch       bool     `yaml:"catch"`
	Structural  bool     `yaml:"structural"`
}

type fileEnum struct {
	Name     string        `yaml:"name"`
	Variants []fileVariant `yaml:"variants"`
}

type fileVariant struct {
	Value *uint32 `yaml:"value"`
	Name  string  `yaml:"name"`
}

// LoadFile reads a YAML description from filename.
func LoadFile(filename string, r descriptor.Resolver) (*Program, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Load("open description", err)
	}
	defer f.Close()
	return LoadYAML(f, r)
}

// LoadYAML decodes a YAML description into a Program. Unknown keys are
// rejected.
func LoadYAML(in io.Reader, r descriptor.Resolver) (*Program, error) {
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)

	var fp fileProgram
	if err := dec.Decode(&fp); err != nil && err != io.EOF {
		return nil, errors.Load("decode description", err)
	}
	if r == nil {
		r = descriptor.DefaultResolver{}
	}

	l := &loader{resolver: r}
	p := &Program{}
	for i, e := range fp.Exports {
		p.Exports = append(p.Exports, l.export(e, path(nil, "exports", i)))
	}
	for i, imp := range fp.Imports {
		p.Imports = append(p.Imports, l.imp(imp, path(nil, "imports", i)))
	}
	for _, e := range fp.Enums {
		p.Enums = append(p.Enums, l.enum(e))
	}
	for _, s := range fp.Structs {
		p.Structs = append(p.Structs, Struct{Name: s})
	}
	if l.err != nil {
		return nil, l.err
	}
	return p, nil
}

type loader struct {
	resolver descriptor.Resolver
	err      error
}

func (l *loader) fail(at []string, format string, args ...any) {
	if l.err != nil {
		return
	}
	l.err = errors.New(errors.PhaseLoad, errors.KindInvalidData).
		Path(at...).
		Detail(format, args...).
		Build()
}

// typ parses "T", "&T" or "&mut T".
func (l *loader) typ(ref string, loc TypeLocation, at []string) Type {
	kind := ByValue
	name := strings.TrimSpace(ref)
	if rest, ok := strings.CutPrefix(name, "&"); ok {
		kind = ByRef
		rest = strings.TrimSpace(rest)
		if after, ok := strings.CutPrefix(rest, "mut "); ok {
			kind = ByMutRef
			rest = after
		}
		name = rest
	}
	b, err := l.resolver.Resolve(name)
	if err != nil {
		l.fail(at, "resolve type %q: %v", ref, err)
	}
	return Type{Ty: b, Kind: kind, Loc: loc}
}

func (l *loader) function(name string, args []string, ret string, argLoc, retLoc TypeLocation, at []string) Function {
	f := Function{Name: name}
	for i, a := range args {
		f.Arguments = append(f.Arguments, l.typ(a, argLoc, path(at, "arguments", i)))
	}
	if ret != "" {
		t := l.typ(ret, retLoc, path(at, "ret"))
		f.Ret = &t
	}
	return f
}

func (l *loader) export(e fileExport, at []string) Export {
	return Export{
		Class:    e.Class,
		Method:   e.Method,
		Function: l.function(e.Name, e.Arguments, e.Ret, ExportArgument, ExportRet, at),
	}
}

func (l *loader) imp(fi fileImport, at []string) Import {
	imp := Import{Module: fi.Module, JSNamespace: fi.JSNamespace}

	switch fi.Kind {
	case "", "function":
		f := &ImportFunction{
			Shim:     fi.Shim,
			Function: l.function(fi.Name, fi.Arguments, fi.Ret, ImportArgument, ImportRet, at),
		}
		switch {
		case fi.Method != "" && fi.Constructor != "":
			l.fail(at, "import %q cannot be both a method and a constructor", fi.Name)
		case fi.Method != "":
			f.Kind = MethodKind{Class: fi.Method}
		case fi.Constructor != "":
			f.Kind = ConstructorKind{Class: fi.Constructor}
		default:
			f.Kind = NormalKind{}
		}
		f.Function.Opts = FunctionOpts{Catch: fi.Catch, Structural: fi.Structural}
		if fi.Getter != nil {
			f.Function.Opts.Getter = &Accessor{Name: *fi.Getter}
		}
		if fi.Setter != nil {
			f.Function.Opts.Setter = &Accessor{Name: *fi.Setter}
		}
		imp.Kind = f
	case "static":
		imp.Kind = &ImportStatic{JSName: fi.Name, Shim: fi.Shim}
	case "type":
		imp.Kind = &ImportType{}
	default:
		l.fail(at, "unknown import kind %q", fi.Kind)
	}
	return imp
}

func (l *loader) enum(e fileEnum) Enum {
	out := Enum{Name: e.Name}
	var next uint32
	for _, v := range e.Variants {
		value := next
		if v.Value != nil {
			value = *v.Value
		}
		out.Variants = append(out.Variants, Variant{Name: v.Name, Value: value})
		next = value + 1
	}
	return out
}
