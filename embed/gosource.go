package embed

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-descriptor/ast"
	"github.com/wippyai/wasm-descriptor/errors"
	"github.com/wippyai/wasm-descriptor/literal"
)

// GoOptions configures GoSource.
type GoOptions struct {
	// Package is the package clause of the generated file.
	Package string
	// Variable names the generated array.
	Variable string
	// Generator is named in the "Code generated" header. Empty omits it.
	Generator string
	// Encode configures the descriptor encoder.
	Encode literal.Options
}

const bytesPerLine = 12

// byteList renders every byte it receives as a Go byte literal preceded by
// a comma separator.
type byteList struct {
	buf bytes.Buffer
	n   int
}

func (l *byteList) WriteByte(c byte) error {
	l.buf.WriteByte(',')
	if l.n%bytesPerLine == 0 {
		l.buf.WriteString("\n\t")
	} else {
		l.buf.WriteByte(' ')
	}
	fmt.Fprintf(&l.buf, "0x%02x", c)
	l.n++
	return nil
}

// GoSource renders the descriptor of p as a Go source file declaring
//
//	var <Variable> = [N]byte{...}
//
// where N is the byte count reported by the encoder. A malformed program
// is reported as an error.
func GoSource(p *ast.Program, opts GoOptions) (_ []byte, err error) {
	if !token.IsIdentifier(opts.Package) {
		return nil, errors.InvalidInput(errors.PhaseEmbed, fmt.Sprintf("invalid package name %q", opts.Package))
	}
	if !token.IsIdentifier(opts.Variable) {
		return nil, errors.InvalidInput(errors.PhaseEmbed, fmt.Sprintf("invalid variable name %q", opts.Variable))
	}
	defer errors.Recover(&err)

	var list byteList
	n := literal.EncodeTo(&list, p, opts.Encode)

	var src bytes.Buffer
	if opts.Generator != "" {
		fmt.Fprintf(&src, "// Code generated by %s. DO NOT EDIT.\n\n", opts.Generator)
	}
	fmt.Fprintf(&src, "package %s\n\n", opts.Package)
	fmt.Fprintf(&src, "var %s = [%d]byte{", opts.Variable, n)
	if n > 0 {
		// Drop the separator in front of the first byte.
		src.Write(list.buf.Bytes()[1:])
		src.WriteString(",\n")
	}
	src.WriteString("}\n")

	out, err := format.Source(src.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEmbed, errors.KindInvalidData, err, "format generated source")
	}
	Logger().Debug("generated go source",
		zap.String("package", opts.Package),
		zap.String("variable", opts.Variable),
		zap.Int("descriptor_bytes", n),
		zap.Int("source_bytes", len(out)),
	)
	return out, nil
}
