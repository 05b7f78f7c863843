package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-descriptor/document"
)

func orNull(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

func exportLabel(doc *document.Document, e *document.Export) string {
	sig := doc.Signature(&e.Function)
	if e.Class == nil {
		return sig
	}
	sep := "::"
	if e.Method {
		sep = "."
	}
	return *e.Class + sep + sig
}

func exportDetail(doc *document.Document, e *document.Export) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class      %s\n", orNull(e.Class))
	fmt.Fprintf(&b, "method     %t\n", e.Method)
	functionDetail(&b, doc, &e.Function)
	return strings.TrimRight(b.String(), "\n")
}

func functionDetail(b *strings.Builder, doc *document.Document, f *document.Function) {
	fmt.Fprintf(b, "name       %s\n", f.Name)
	for i, a := range f.Arguments {
		fmt.Fprintf(b, "arg %-6d %s (%d)\n", i, doc.TypeName(a), a)
	}
	if f.Ret == nil {
		b.WriteString("ret        null\n")
	} else {
		fmt.Fprintf(b, "ret        %s (%d)\n", doc.TypeName(*f.Ret), *f.Ret)
	}
}

func importLabel(doc *document.Document, imp *document.Import) string {
	k := &imp.Kind
	switch k.Kind {
	case document.KindFunction:
		label := doc.Signature(k.Function)
		if k.Class != nil {
			label = *k.Class + "." + label
		}
		if k.JSNew {
			label = "new " + label
		}
		return label
	case document.KindStatic:
		return "static " + k.Name
	default:
		return k.Kind
	}
}

func importDetail(doc *document.Document, imp *document.Import) string {
	var b strings.Builder
	k := &imp.Kind
	fmt.Fprintf(&b, "module       %s\n", orNull(imp.Module))
	fmt.Fprintf(&b, "js_namespace %s\n", orNull(imp.JSNamespace))
	fmt.Fprintf(&b, "kind         %s\n", k.Kind)
	switch k.Kind {
	case document.KindFunction:
		fmt.Fprintf(&b, "shim         %s\n", k.Shim)
		fmt.Fprintf(&b, "catch        %t\n", k.Catch)
		fmt.Fprintf(&b, "method       %t\n", k.Method)
		fmt.Fprintf(&b, "js_new       %t\n", k.JSNew)
		fmt.Fprintf(&b, "structural   %t\n", k.Structural)
		fmt.Fprintf(&b, "getter       %s\n", orNull(k.Getter))
		fmt.Fprintf(&b, "setter       %s\n", orNull(k.Setter))
		fmt.Fprintf(&b, "class        %s\n", orNull(k.Class))
		functionDetail(&b, doc, k.Function)
	case document.KindStatic:
		fmt.Fprintf(&b, "name         %s\n", k.Name)
		fmt.Fprintf(&b, "shim         %s\n", k.Shim)
	}
	return strings.TrimRight(b.String(), "\n")
}

func enumLabel(e *document.Enum) string {
	return fmt.Sprintf("%s (%d variants)", e.Name, len(e.Variants))
}

func enumDetail(e *document.Enum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "enum %s\n", e.Name)
	for _, v := range e.Variants {
		fmt.Fprintf(&b, "  %s = %d\n", v.Name, v.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}
