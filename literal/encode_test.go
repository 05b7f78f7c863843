package literal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-descriptor/ast"
	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
)

func testOptions() Options {
	return Options{
		Version:       "0.1.0",
		SchemaVersion: "1",
		NameToDescriptor: func(name string) uint32 {
			return 1000 + uint32(len(name))*2
		},
	}
}

func prim(t wit.Type) descriptor.Boundary {
	b, ok := descriptor.Primitive(t)
	if !ok {
		panic("not a primitive")
	}
	return b
}

func typ(b descriptor.Boundary, kind ast.TypeKind, loc ast.TypeLocation) ast.Type {
	return ast.Type{Ty: b, Kind: kind, Loc: loc}
}

func TestEncodeStructOnly(t *testing.T) {
	p := &ast.Program{Structs: []ast.Struct{{Name: "Foo"}}}
	opts := testOptions()
	opts.NameToDescriptor = func(name string) uint32 {
		if name != "Foo" {
			t.Errorf("unexpected name %q", name)
		}
		return 1234
	}

	got := string(Encode(p, opts))
	want := `{"exports":[],"imports":[],"enums":[],` +
		`"custom_type_names":[{"descriptor":1234,"name":"Foo"}],` +
		`"version":"0.1.0","schema_version":"1"}`
	if got != want {
		t.Errorf("Encode =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeEmptyProgram(t *testing.T) {
	got := string(Encode(&ast.Program{}, testOptions()))
	want := `{"exports":[],"imports":[],"enums":[],"custom_type_names":[],"version":"0.1.0","schema_version":"1"}`
	if got != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestEncodeExport(t *testing.T) {
	p := &ast.Program{Exports: []ast.Export{{
		Function: ast.Function{
			Name:      "f",
			Arguments: []ast.Type{typ(prim(wit.U32{}), ast.ByValue, ast.ExportArgument)},
		},
	}}}

	got := string(Encode(p, testOptions()))
	want := `{"class":null,"method":false,"function":{"name":"f","arguments":[  12],"ret":null}}`
	if !strings.Contains(got, `"exports":[`+want+`]`) {
		t.Errorf("export encoding not found in\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeMethodExport(t *testing.T) {
	counter := descriptor.CustomWith("Counter", func(string) uint32 { return 2000 })
	ret := typ(counter, ast.ByRef, ast.ExportRet)
	p := &ast.Program{Exports: []ast.Export{{
		Class:  "Counter",
		Method: true,
		Function: ast.Function{
			Name:      "peek",
			Arguments: []ast.Type{typ(counter, ast.ByRef, ast.ExportArgument)},
			Ret:       &ret,
		},
	}}}

	opts := testOptions()
	opts.NameToDescriptor = func(string) uint32 { return 2000 }
	got := string(Encode(p, opts))
	want := `{"class":"Counter","method":true,"function":{"name":"peek","arguments":[2001],"ret":2001}}`
	if !strings.Contains(got, want) {
		t.Errorf("method export not found in\n%s", got)
	}
	if !strings.Contains(got, `"custom_type_names":[{"descriptor":2000,"name":"Counter"}]`) {
		t.Errorf("custom_type_names disagrees with signature in\n%s", got)
	}
}

func TestEncodeImportFunction(t *testing.T) {
	tests := []struct {
		name string
		kind ast.ImportFunctionKind
		opts ast.FunctionOpts
		fn   string
		want string
	}{
		{
			name: "normal",
			kind: ast.NormalKind{},
			fn:   "log",
			want: `{"kind":"function","catch":false,"method":false,"js_new":false,"structural":false,` +
				`"shim":"__wbg_s","getter":null,"setter":null,` +
				`"function":{"name":"log","arguments":[],"ret":null},"class":null}`,
		},
		{
			name: "method getter",
			kind: ast.MethodKind{Class: "Element"},
			opts: ast.FunctionOpts{Getter: &ast.Accessor{}, Structural: true},
			fn:   "width",
			want: `{"kind":"function","catch":false,"method":true,"js_new":false,"structural":true,` +
				`"shim":"__wbg_s","getter":"width","setter":null,` +
				`"function":{"name":"width","arguments":[],"ret":null},"class":"Element"}`,
		},
		{
			name: "constructor",
			kind: ast.ConstructorKind{Class: "Date"},
			opts: ast.FunctionOpts{Catch: true},
			fn:   "new",
			want: `{"kind":"function","catch":true,"method":false,"js_new":true,"structural":false,` +
				`"shim":"__wbg_s","getter":null,"setter":null,` +
				`"function":{"name":"new","arguments":[],"ret":null},"class":"Date"}`,
		},
		{
			name: "inferred setter",
			kind: ast.MethodKind{Class: "Element"},
			opts: ast.FunctionOpts{Setter: &ast.Accessor{}},
			fn:   "set_width",
			want: `"getter":null,"setter":"width"`,
		},
		{
			name: "explicit setter",
			kind: ast.MethodKind{Class: "Element"},
			opts: ast.FunctionOpts{Setter: &ast.Accessor{Name: "size"}},
			fn:   "resize",
			want: `"getter":null,"setter":"size"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ast.Program{Imports: []ast.Import{{
				Kind: &ast.ImportFunction{
					Kind:     tt.kind,
					Shim:     "__wbg_s",
					Function: ast.Function{Name: tt.fn, Opts: tt.opts},
				},
			}}}
			got := string(Encode(p, testOptions()))
			if !strings.Contains(got, tt.want) {
				t.Errorf("encoding\n%s\ndoes not contain\n%s", got, tt.want)
			}
			if !strings.Contains(got, `"imports":[{"module":null,"js_namespace":null,"kind":{"kind":"function"`) {
				t.Errorf("import wrapper malformed:\n%s", got)
			}
		})
	}
}

func TestEncodeImportStaticAndType(t *testing.T) {
	p := &ast.Program{Imports: []ast.Import{
		{Module: "./env.js", JSNamespace: "window", Kind: &ast.ImportStatic{JSName: "document", Shim: "__wbg_static"}},
		{Kind: &ast.ImportType{}},
	}}
	got := string(Encode(p, testOptions()))
	want := `"imports":[` +
		`{"module":"./env.js","js_namespace":"window","kind":{"kind":"static","name":"document","shim":"__wbg_static"}},` +
		`{"module":null,"js_namespace":null,"kind":{"kind":"type"}}]`
	if !strings.Contains(got, want) {
		t.Errorf("encoding\n%s\ndoes not contain\n%s", got, want)
	}
}

func TestEncodeEnums(t *testing.T) {
	p := &ast.Program{Enums: []ast.Enum{
		{Name: "Color", Variants: []ast.Variant{{Name: "Red", Value: 0}, {Name: "Blue", Value: 42}}},
		{Name: "Empty"},
	}}
	got := string(Encode(p, testOptions()))
	want := `"enums":[{"name":"Color","variants":[{"name":"Red","value":0},{"name":"Blue","value":42}]},` +
		`{"name":"Empty","variants":[]}]`
	if !strings.Contains(got, want) {
		t.Errorf("encoding\n%s\ndoes not contain\n%s", got, want)
	}
}

func TestResolveDescriptorRules(t *testing.T) {
	s := prim(wit.String{})

	tests := []struct {
		kind ast.TypeKind
		loc  ast.TypeLocation
		want descriptor.Descriptor
	}{
		{ast.ByValue, ast.ImportArgument, descriptor.String},
		{ast.ByValue, ast.ImportRet, descriptor.String},
		{ast.ByValue, ast.ExportArgument, descriptor.String},
		{ast.ByValue, ast.ExportRet, descriptor.String},
		{ast.ByRef, ast.ImportArgument, s.ToRefDescriptor()},
		{ast.ByRef, ast.ExportRet, s.ToRefDescriptor()},
		{ast.ByRef, ast.ImportRet, s.FromRefDescriptor()},
		{ast.ByRef, ast.ExportArgument, s.FromRefDescriptor()},
		{ast.ByMutRef, ast.ImportArgument, s.ToRefDescriptor()},
		{ast.ByMutRef, ast.ExportRet, s.ToRefDescriptor()},
		{ast.ByMutRef, ast.ImportRet, s.FromRefDescriptor()},
		{ast.ByMutRef, ast.ExportArgument, s.FromRefDescriptor()},
	}

	for _, tt := range tests {
		if got := resolveDescriptor(typ(s, tt.kind, tt.loc)); got != tt.want {
			t.Errorf("resolveDescriptor(%s, %s) = %d, want %d", tt.kind, tt.loc, got, tt.want)
		}
	}
}

// distinct gives every rule a different descriptor so a wrong pick shows.
type distinct struct{}

func (distinct) Name() string                             { return "Distinct" }
func (distinct) ValueDescriptor() descriptor.Descriptor   { return 100 }
func (distinct) ToRefDescriptor() descriptor.Descriptor   { return 200 }
func (distinct) FromRefDescriptor() descriptor.Descriptor { return 300 }

func TestResolveDescriptorDistinct(t *testing.T) {
	tests := []struct {
		kind ast.TypeKind
		loc  ast.TypeLocation
		want descriptor.Descriptor
	}{
		{ast.ByValue, ast.ImportRet, 100},
		{ast.ByRef, ast.ImportArgument, 200},
		{ast.ByMutRef, ast.ExportRet, 200},
		{ast.ByRef, ast.ExportArgument, 300},
		{ast.ByMutRef, ast.ImportRet, 300},
	}
	for _, tt := range tests {
		if got := resolveDescriptor(typ(distinct{}, tt.kind, tt.loc)); got != tt.want {
			t.Errorf("resolveDescriptor(%s, %s) = %d, want %d", tt.kind, tt.loc, got, tt.want)
		}
	}
}

func TestResolveDescriptorInvalid(t *testing.T) {
	tests := []struct {
		kind ast.TypeKind
		loc  ast.TypeLocation
	}{
		{0, ast.ImportArgument},
		{ast.ByValue, 0},
		{ast.ByRef, 0},
		{ast.ByMutRef, ast.TypeLocation(7)},
		{ast.TypeKind(7), ast.ExportRet},
	}
	for _, tt := range tests {
		expectPanic(t, errors.KindInvalidTypeLocation, func() {
			resolveDescriptor(typ(distinct{}, tt.kind, tt.loc))
		})
	}
}

func TestEncodeContractViolationsWriteNothing(t *testing.T) {
	tests := []struct {
		name string
		p    *ast.Program
		kind errors.Kind
	}{
		{
			name: "invalid location",
			p: &ast.Program{Exports: []ast.Export{{Function: ast.Function{
				Name:      "f",
				Arguments: []ast.Type{typ(distinct{}, ast.ByRef, 0)},
			}}}},
			kind: errors.KindInvalidTypeLocation,
		},
		{
			name: "unsafe enum name",
			p:    &ast.Program{Enums: []ast.Enum{{Name: `Co"lor`}}},
			kind: errors.KindUnsafeString,
		},
		{
			name: "setter without prefix",
			p: &ast.Program{Imports: []ast.Import{{Kind: &ast.ImportFunction{
				Kind:     ast.NormalKind{},
				Shim:     "s",
				Function: ast.Function{Name: "width", Opts: ast.FunctionOpts{Setter: &ast.Accessor{}}},
			}}}},
			kind: errors.KindInvalidSetter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			expectPanic(t, tt.kind, func() { EncodeTo(&buf, tt.p, testOptions()) })
			if buf.Len() != 0 {
				t.Errorf("partial output written: %q", buf.String())
			}
		})
	}
}

func TestEncodeCustomDescriptorMismatch(t *testing.T) {
	opts := testOptions()
	opts.NameToDescriptor = func(string) uint32 { return 2000 }

	tests := []struct {
		name string
		p    *ast.Program
	}{
		{
			name: "export argument",
			p: &ast.Program{Exports: []ast.Export{{
				Class:  "Counter",
				Method: true,
				Function: ast.Function{
					Name:      "inc",
					Arguments: []ast.Type{typ(descriptor.Custom("Counter"), ast.ByMutRef, ast.ExportArgument)},
				},
			}}},
		},
		{
			name: "import return of struct",
			p: &ast.Program{
				Structs: []ast.Struct{{Name: "Point"}},
				Imports: []ast.Import{{Kind: &ast.ImportFunction{
					Kind: ast.NormalKind{},
					Shim: "__wbg_origin",
					Function: ast.Function{
						Name: "origin",
						Ret:  &ast.Type{Ty: descriptor.CustomWith("Point", func(string) uint32 { return 3000 }), Kind: ast.ByValue, Loc: ast.ImportRet},
					},
				}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			expectPanic(t, errors.KindDescriptorMismatch, func() { EncodeTo(&buf, tt.p, opts) })
			if buf.Len() != 0 {
				t.Errorf("partial output written: %q", buf.String())
			}
		})
	}
}

func TestEncodeImportedClassNotChecked(t *testing.T) {
	opts := testOptions()
	opts.NameToDescriptor = func(string) uint32 { return 2000 }
	element := descriptor.CustomWith("Element", func(string) uint32 { return 3000 })
	p := &ast.Program{Imports: []ast.Import{{Kind: &ast.ImportFunction{
		Kind:     ast.MethodKind{Class: "Element"},
		Shim:     "__wbg_id",
		Function: ast.Function{Name: "id", Arguments: []ast.Type{typ(element, ast.ByRef, ast.ImportArgument)}},
	}}}}

	got := string(Encode(p, opts))
	if !strings.Contains(got, `"arguments":[3001]`) {
		t.Errorf("import argument not encoded in\n%s", got)
	}
}

func TestEncodeUnsafeVersion(t *testing.T) {
	opts := testOptions()
	opts.Version = "1.0\n"
	expectPanic(t, errors.KindUnsafeString, func() { Encode(&ast.Program{}, opts) })
}

func TestEncodeDefaultsApplied(t *testing.T) {
	got := string(Encode(&ast.Program{Structs: []ast.Struct{{Name: "Foo"}}}, Options{}))
	if !strings.Contains(got, `"schema_version":"`+descriptor.SchemaVersion+`"`) {
		t.Errorf("default schema version missing: %s", got)
	}
	if !strings.Contains(got, `"version":"`+Version()+`"`) {
		t.Errorf("default version missing: %s", got)
	}
	want := `{"descriptor":` + descriptor.Descriptor(descriptor.NameToDescriptor("Foo")).String() + `,"name":"Foo"}`
	if !strings.Contains(got, want) {
		t.Errorf("default name mapping not used: %s", got)
	}
}

func sampleProgram(exportOrder []string) *ast.Program {
	p := &ast.Program{Structs: []ast.Struct{{Name: "Point"}, {Name: "Counter"}}}
	for _, class := range exportOrder {
		p.Exports = append(p.Exports, ast.Export{Class: class, Method: true, Function: ast.Function{Name: "m"}})
	}
	return p
}

func customTypeNames(t *testing.T, doc []byte) []any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(doc, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v["custom_type_names"].([]any)
}

func TestCustomTypeNamesDeterministic(t *testing.T) {
	a := Encode(sampleProgram([]string{"Zed", "Alpha", "Counter"}), testOptions())
	b := Encode(sampleProgram([]string{"Counter", "Zed", "Alpha", "Alpha"}), testOptions())

	if diff := cmp.Diff(customTypeNames(t, a), customTypeNames(t, b)); diff != "" {
		t.Errorf("custom_type_names differ (-a +b):\n%s", diff)
	}

	names := customTypeNames(t, a)
	var got []string
	for _, n := range names {
		got = append(got, n.(map[string]any)["name"].(string))
	}
	if diff := cmp.Diff([]string{"Alpha", "Counter", "Point", "Zed"}, got); diff != "" {
		t.Errorf("custom_type_names order (-want +got):\n%s", diff)
	}
}

func TestEncodeCountMatchesOutput(t *testing.T) {
	p := fullProgram()
	var buf bytes.Buffer
	n := EncodeTo(&buf, p, testOptions())
	if n != buf.Len() {
		t.Errorf("EncodeTo count = %d, sink received %d", n, buf.Len())
	}
	if got := len(Encode(p, testOptions())); got != n {
		t.Errorf("Encode length = %d, EncodeTo count = %d", got, n)
	}
}

func fullProgram() *ast.Program {
	mapping := testOptions().NameToDescriptor
	counter := descriptor.CustomWith("Counter", mapping)
	element := descriptor.CustomWith("Element", mapping)
	u32 := prim(wit.U32{})
	str := prim(wit.String{})

	exportRet := typ(u32, ast.ByValue, ast.ExportRet)
	importRet := typ(str, ast.ByValue, ast.ImportRet)
	return &ast.Program{
		Exports: []ast.Export{
			{
				Class:  "Counter",
				Method: true,
				Function: ast.Function{
					Name:      "add",
					Arguments: []ast.Type{typ(counter, ast.ByMutRef, ast.ExportArgument), typ(u32, ast.ByValue, ast.ExportArgument)},
					Ret:       &exportRet,
				},
			},
			{Function: ast.Function{Name: "greet", Arguments: []ast.Type{typ(str, ast.ByRef, ast.ExportArgument)}}},
		},
		Imports: []ast.Import{
			{
				Module: "./dom.js",
				Kind: &ast.ImportFunction{
					Kind: ast.MethodKind{Class: "Element"},
					Shim: "__wbg_id_0",
					Function: ast.Function{
						Name:      "id",
						Arguments: []ast.Type{typ(element, ast.ByRef, ast.ImportArgument)},
						Ret:       &importRet,
						Opts:      ast.FunctionOpts{Getter: &ast.Accessor{}},
					},
				},
			},
			{Kind: &ast.ImportStatic{JSName: "document", Shim: "__wbg_static_document"}},
			{Kind: &ast.ImportType{}},
		},
		Enums:   []ast.Enum{{Name: "Color", Variants: []ast.Variant{{Name: "Red"}, {Name: "Green", Value: 1}}}},
		Structs: []ast.Struct{{Name: "Point"}},
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p := fullProgram()
	doc := Encode(p, testOptions())

	var v struct {
		Exports []struct {
			Class    *string `json:"class"`
			Method   bool    `json:"method"`
			Function struct {
				Ret       *uint32  `json:"ret"`
				Name      string   `json:"name"`
				Arguments []uint32 `json:"arguments"`
			} `json:"function"`
		} `json:"exports"`
		Imports []struct {
			Module *string        `json:"module"`
			Kind   map[string]any `json:"kind"`
		} `json:"imports"`
		Enums []struct {
			Name     string `json:"name"`
			Variants []struct {
				Name  string `json:"name"`
				Value uint32 `json:"value"`
			} `json:"variants"`
		} `json:"enums"`
		Version       string `json:"version"`
		SchemaVersion string `json:"schema_version"`
	}
	if err := json.Unmarshal(doc, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", doc, err)
	}

	if len(v.Exports) != len(p.Exports) || len(v.Imports) != len(p.Imports) || len(v.Enums) != len(p.Enums) {
		t.Fatalf("lengths = %d/%d/%d", len(v.Exports), len(v.Imports), len(v.Enums))
	}

	add := v.Exports[0]
	if add.Class == nil || *add.Class != "Counter" || !add.Method || add.Function.Name != "add" {
		t.Errorf("export 0 = %+v", add)
	}
	wantArgs := []uint32{
		uint32(descriptor.CustomWith("Counter", testOptions().NameToDescriptor).FromRefDescriptor()),
		uint32(descriptor.U32),
	}
	if diff := cmp.Diff(wantArgs, add.Function.Arguments); diff != "" {
		t.Errorf("arguments (-want +got):\n%s", diff)
	}
	if add.Function.Ret == nil || *add.Function.Ret != uint32(descriptor.U32) {
		t.Errorf("ret = %v", add.Function.Ret)
	}

	greet := v.Exports[1]
	if greet.Class != nil || greet.Function.Ret != nil {
		t.Errorf("free function should have null class and ret: %+v", greet)
	}
	if diff := cmp.Diff([]uint32{uint32(descriptor.BorrowedStr)}, greet.Function.Arguments); diff != "" {
		t.Errorf("greet arguments (-want +got):\n%s", diff)
	}

	id := v.Imports[0]
	if id.Module == nil || *id.Module != "./dom.js" {
		t.Errorf("module = %v", id.Module)
	}
	if id.Kind["getter"] != "id" || id.Kind["class"] != "Element" || id.Kind["method"] != true {
		t.Errorf("import function = %v", id.Kind)
	}
	if v.Imports[1].Kind["kind"] != "static" || v.Imports[2].Kind["kind"] != "type" {
		t.Errorf("import kinds = %v / %v", v.Imports[1].Kind, v.Imports[2].Kind)
	}

	if v.Enums[0].Variants[1].Name != "Green" || v.Enums[0].Variants[1].Value != 1 {
		t.Errorf("enum = %+v", v.Enums[0])
	}
	if v.Version != "0.1.0" || v.SchemaVersion != "1" {
		t.Errorf("versions = %q/%q", v.Version, v.SchemaVersion)
	}
}

func TestEncodeTopLevelKeyOrder(t *testing.T) {
	doc := string(Encode(fullProgram(), testOptions()))
	keys := []string{`{"exports":`, `"imports":`, `"enums":`, `"custom_type_names":`, `"version":`, `"schema_version":`}
	last := -1
	for _, k := range keys {
		i := strings.LastIndex(doc, k)
		if i <= last {
			t.Fatalf("key %s out of order in %s", k, doc)
		}
		last = i
	}
}
