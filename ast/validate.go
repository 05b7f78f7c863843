package ast

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/errors"
	"github.com/wippyai/wasm-descriptor/internal/alphabet"
)

// Validate reports every contract violation the encoder would abort on.
// A nil result means Program can be encoded without panicking.
func Validate(p *Program) error {
	v := &validator{}
	for i := range p.Exports {
		v.export(&p.Exports[i], path(nil, "exports", i))
	}
	for i := range p.Imports {
		v.imp(&p.Imports[i], path(nil, "imports", i))
	}
	for i := range p.Enums {
		v.enum(&p.Enums[i], path(nil, "enums", i))
	}
	for i := range p.Structs {
		v.name(p.Structs[i].Name, path(nil, "structs", i, "name"))
	}
	return v.result.ErrorOrNil()
}

type validator struct {
	result *multierror.Error
}

func (v *validator) add(err error) {
	v.result = multierror.Append(v.result, err)
}

func path(base []string, elems ...any) []string {
	out := append([]string(nil), base...)
	for _, e := range elems {
		switch e := e.(type) {
		case string:
			out = append(out, e)
		case int:
			out = append(out, strconv.Itoa(e))
		}
	}
	return out
}

func (v *validator) name(s string, at []string) {
	if s == "" {
		v.add(errors.FieldMissing(errors.PhaseValidate, at[:len(at)-1], at[len(at)-1]))
		return
	}
	v.str(s, at)
}

// str checks an optional string; empty is allowed.
func (v *validator) str(s string, at []string) {
	if i := alphabet.Unsafe(s); i >= 0 {
		v.add(errors.UnsafeString(errors.PhaseValidate, at, s, i))
	}
}

func (v *validator) export(e *Export, at []string) {
	v.str(e.Class, path(at, "class"))
	v.function(&e.Function, path(at, "function"))
}

func (v *validator) function(f *Function, at []string) {
	v.name(f.Name, path(at, "name"))
	for i := range f.Arguments {
		v.typ(&f.Arguments[i], path(at, "arguments", i))
	}
	if f.Ret != nil {
		v.typ(f.Ret, path(at, "ret"))
	}
}

func (v *validator) typ(t *Type, at []string) {
	typeName := ""
	if t.Ty == nil {
		v.add(errors.FieldMissing(errors.PhaseValidate, at, "ty"))
	} else {
		typeName = t.Ty.Name()
	}
	var d descriptor.Descriptor
	switch DescriptorRule(t.Kind, t.Loc) {
	case RuleNone:
		v.add(errors.InvalidTypeLocation(errors.PhaseValidate, at, typeName, t.Kind, t.Loc))
		return
	case RuleValue:
		if t.Ty != nil {
			d = t.Ty.ValueDescriptor()
		}
	case RuleToRef:
		if t.Ty != nil {
			d = t.Ty.ToRefDescriptor()
		}
	case RuleFromRef:
		if t.Ty != nil {
			d = t.Ty.FromRefDescriptor()
		}
	}
	if d >= descriptor.Max {
		v.add(errors.New(errors.PhaseValidate, errors.KindDescriptorRange).
			Path(at...).
			Type(typeName).
			Value(uint32(d)).
			Detail("descriptor %d does not fit below %d", d, descriptor.Max).
			Build())
	}
}

func (v *validator) imp(imp *Import, at []string) {
	v.str(imp.Module, path(at, "module"))
	v.str(imp.JSNamespace, path(at, "js_namespace"))

	kindAt := path(at, "kind")
	switch k := imp.Kind.(type) {
	case *ImportFunction:
		v.importFunction(k, kindAt)
	case *ImportStatic:
		v.name(k.JSName, path(kindAt, "name"))
		v.name(k.Shim, path(kindAt, "shim"))
	case *ImportType:
	case nil:
		v.add(errors.FieldMissing(errors.PhaseValidate, at, "kind"))
	default:
		v.add(errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Path(kindAt...).
			Detail("unknown import kind %T", k).
			Build())
	}
}

func (v *validator) importFunction(f *ImportFunction, at []string) {
	v.name(f.Shim, path(at, "shim"))
	v.function(&f.Function, path(at, "function"))

	switch k := f.Kind.(type) {
	case MethodKind:
		v.name(k.Class, path(at, "class"))
	case ConstructorKind:
		v.name(k.Class, path(at, "class"))
	case NormalKind:
	case nil:
		v.add(errors.FieldMissing(errors.PhaseValidate, at, "kind"))
	default:
		v.add(errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Path(at...).
			Detail("unknown import function kind %T", k).
			Build())
	}

	opts := f.Function.Opts
	if opts.Getter != nil {
		v.str(opts.Getter.Name, path(at, "getter"))
	}
	if opts.Setter != nil {
		if opts.Setter.Name == "" && !strings.HasPrefix(f.Function.Name, setterPrefix) {
			v.add(errors.InvalidSetter(errors.PhaseValidate, path(at, "setter"), f.Function.Name))
		}
		v.str(opts.Setter.Name, path(at, "setter"))
	}
}

func (v *validator) enum(e *Enum, at []string) {
	v.name(e.Name, path(at, "name"))
	for i := range e.Variants {
		v.name(e.Variants[i].Name, path(at, "variants", i, "name"))
	}
}
