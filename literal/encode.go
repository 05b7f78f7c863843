package literal

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-descriptor/ast"
	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
)

// Encode returns the descriptor document for p. Its length is the byte
// count the builder reported.
func Encode(p *ast.Program, opts Options) []byte {
	var buf bytes.Buffer
	EncodeTo(&buf, p, opts)
	return buf.Bytes()
}

// EncodeTo writes the descriptor document for p to dst and returns the
// number of bytes emitted.
//
// A malformed tree is a contract violation: EncodeTo panics with an
// *errors.Error before writing anything to dst. Use ast.Validate beforehand
// to get every diagnostic as an error value instead.
func EncodeTo(dst io.ByteWriter, p *ast.Program, opts Options) int {
	opts = opts.withDefaults()
	preflight(p, opts)
	b := NewBuilder(dst)
	e := &encoder{opts: opts}
	e.program(b, p)
	n := b.Finish()
	Logger().Debug("encoded descriptor document",
		zap.Int("bytes", n),
		zap.Int("exports", len(p.Exports)),
		zap.Int("imports", len(p.Imports)),
		zap.Int("enums", len(p.Enums)),
	)
	return n
}

// preflight aborts on the first contract violation so that no partial
// document ever reaches the sink.
func preflight(p *ast.Program, opts Options) {
	if err := opts.validate(); err != nil {
		panic(err)
	}
	err := ast.Validate(p)
	if err == nil {
		checkCustomDescriptors(p, opts.NameToDescriptor)
		return
	}
	var merr *multierror.Error
	if stderrors.As(err, &merr) && len(merr.Errors) > 0 {
		var e *errors.Error
		if stderrors.As(merr.Errors[0], &e) {
			panic(e)
		}
	}
	panic(errors.Wrap(errors.PhaseValidate, errors.KindInvalidData, err, "invalid program"))
}

// checkCustomDescriptors panics unless every occurrence of a type listed in
// custom_type_names carries the descriptor the name maps to.
func checkCustomDescriptors(p *ast.Program, mapping func(string) uint32) {
	names := p.CustomTypeNames()
	if len(names) == 0 {
		return
	}
	want := make(map[string]uint32, len(names))
	for _, name := range names {
		want[name] = mapping(name)
	}
	check := func(f *ast.Function, at ...string) {
		for i := range f.Arguments {
			checkCustomType(&f.Arguments[i], want, append(at, "arguments", strconv.Itoa(i)))
		}
		if f.Ret != nil {
			checkCustomType(f.Ret, want, append(at, "ret"))
		}
	}
	for i := range p.Exports {
		check(&p.Exports[i].Function, "exports", strconv.Itoa(i), "function")
	}
	for i := range p.Imports {
		if k, ok := p.Imports[i].Kind.(*ast.ImportFunction); ok {
			check(&k.Function, "imports", strconv.Itoa(i), "kind", "function")
		}
	}
}

func checkCustomType(t *ast.Type, want map[string]uint32, at []string) {
	name := t.Ty.Name()
	d, ok := want[name]
	if !ok {
		return
	}
	if got := uint32(t.Ty.ValueDescriptor()); got != d {
		panic(errors.DescriptorMismatch(at, name, got, d))
	}
}

type encoder struct {
	opts Options
}

// customType is one entry of custom_type_names.
type customType struct {
	name       string
	descriptor uint32
}

func (c customType) Literal(b *Builder) {
	b.Fields(
		F("descriptor", func(b *Builder) { b.U32(c.descriptor) }),
		F("name", func(b *Builder) { b.Str(c.name) }),
	)
}

func (e *encoder) program(b *Builder, p *ast.Program) {
	b.Fields(
		F("exports", func(b *Builder) { List(b, p.Exports, e.export) }),
		F("imports", func(b *Builder) { List(b, p.Imports, e.imp) }),
		F("enums", func(b *Builder) { List(b, p.Enums, e.enum) }),
		F("custom_type_names", func(b *Builder) {
			names := p.CustomTypeNames()
			types := make([]customType, len(names))
			for i, name := range names {
				types[i] = customType{name: name, descriptor: e.opts.NameToDescriptor(name)}
			}
			ListOf(b, types)
		}),
		F("version", func(b *Builder) { b.Str(e.opts.Version) }),
		F("schema_version", func(b *Builder) { b.Str(e.opts.SchemaVersion) }),
	)
}

func (e *encoder) function(b *Builder, f *ast.Function) {
	b.Fields(
		F("name", func(b *Builder) { b.Str(f.Name) }),
		F("arguments", func(b *Builder) { List(b, f.Arguments, e.typ) }),
		F("ret", func(b *Builder) {
			if f.Ret == nil {
				b.Null()
				return
			}
			e.typ(b, *f.Ret)
		}),
	)
}

func (e *encoder) typ(b *Builder, t ast.Type) {
	b.Descriptor(resolveDescriptor(t))
}

// resolveDescriptor picks the boundary descriptor a type occurrence uses.
// There is no fallback: an uncovered (kind, location) pair panics.
func resolveDescriptor(t ast.Type) descriptor.Descriptor {
	if t.Ty == nil {
		panic(errors.FieldMissing(errors.PhaseEncode, nil, "ty"))
	}
	switch ast.DescriptorRule(t.Kind, t.Loc) {
	case ast.RuleValue:
		return t.Ty.ValueDescriptor()
	case ast.RuleToRef:
		return t.Ty.ToRefDescriptor()
	case ast.RuleFromRef:
		return t.Ty.FromRefDescriptor()
	default:
		panic(errors.InvalidTypeLocation(errors.PhaseEncode, nil, t.Ty.Name(), t.Kind, t.Loc))
	}
}

func (e *encoder) export(b *Builder, x ast.Export) {
	b.Fields(
		F("class", func(b *Builder) { b.OptStr(x.Class) }),
		F("method", func(b *Builder) { b.Bool(x.Method) }),
		F("function", func(b *Builder) { e.function(b, &x.Function) }),
	)
}

func (e *encoder) imp(b *Builder, imp ast.Import) {
	b.Fields(
		F("module", func(b *Builder) { b.OptStr(imp.Module) }),
		F("js_namespace", func(b *Builder) { b.OptStr(imp.JSNamespace) }),
		F("kind", func(b *Builder) { e.importKind(b, imp.Kind) }),
	)
}

func (e *encoder) importKind(b *Builder, k ast.ImportKind) {
	switch k := k.(type) {
	case *ast.ImportFunction:
		e.importFunction(b, k)
	case *ast.ImportStatic:
		e.importStatic(b, k)
	case *ast.ImportType:
		e.importType(b, k)
	default:
		panic(errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("import kind %T", k)))
	}
}

func (e *encoder) importFunction(b *Builder, f *ast.ImportFunction) {
	var (
		method    bool
		jsNew     bool
		className string
	)
	switch k := f.Kind.(type) {
	case ast.MethodKind:
		method = true
		className = k.Class
	case ast.ConstructorKind:
		jsNew = true
		className = k.Class
	case ast.NormalKind:
	default:
		panic(errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("import function kind %T", k)))
	}

	getter, hasGetter := f.GetterName()
	setter, hasSetter := f.SetterName()
	opts := f.Function.Opts

	b.Fields(
		F("kind", func(b *Builder) { b.Str("function") }),
		F("catch", func(b *Builder) { b.Bool(opts.Catch) }),
		F("method", func(b *Builder) { b.Bool(method) }),
		F("js_new", func(b *Builder) { b.Bool(jsNew) }),
		F("structural", func(b *Builder) { b.Bool(opts.Structural) }),
		F("shim", func(b *Builder) { b.Str(f.Shim) }),
		F("getter", func(b *Builder) { optional(b, getter, hasGetter) }),
		F("setter", func(b *Builder) { optional(b, setter, hasSetter) }),
		F("function", func(b *Builder) { e.function(b, &f.Function) }),
		F("class", func(b *Builder) { optional(b, className, method || jsNew) }),
	)
}

// optional emits s when present, null otherwise. Unlike OptStr an empty
// present string is still emitted as a string.
func optional(b *Builder, s string, present bool) {
	if !present {
		b.Null()
		return
	}
	b.Str(s)
}

func (e *encoder) enum(b *Builder, en ast.Enum) {
	b.Fields(
		F("name", func(b *Builder) { b.Str(en.Name) }),
		F("variants", func(b *Builder) { List(b, en.Variants, e.variant) }),
	)
}

func (e *encoder) variant(b *Builder, v ast.Variant) {
	b.Fields(
		F("name", func(b *Builder) { b.Str(v.Name) }),
		F("value", func(b *Builder) { b.U32(v.Value) }),
	)
}

func (e *encoder) importStatic(b *Builder, s *ast.ImportStatic) {
	b.Fields(
		F("kind", func(b *Builder) { b.Str("static") }),
		F("name", func(b *Builder) { b.Str(s.JSName) }),
		F("shim", func(b *Builder) { b.Str(s.Shim) }),
	)
}

func (e *encoder) importType(b *Builder, _ *ast.ImportType) {
	b.Fields(
		F("kind", func(b *Builder) { b.Str("type") }),
	)
}
