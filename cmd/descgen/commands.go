package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-descriptor/ast"
	"github.com/wippyai/wasm-descriptor/descriptor"
	"github.com/wippyai/wasm-descriptor/document"
	"github.com/wippyai/wasm-descriptor/embed"
	"github.com/wippyai/wasm-descriptor/literal"
)

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "YAML interface description",
		Required: true,
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "output file, stdout when omitted",
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "wasm module carrying the descriptor section"},
		&cli.StringFlag{Name: "raw", Usage: "file holding raw descriptor bytes"},
		&cli.StringFlag{Name: "section", Usage: "custom section name, from the configuration when omitted"},
	}
}

func encodeCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "encode",
		Usage: "write the raw descriptor document",
		Flags: []cli.Flag{inputFlag(), outFlag()},
		Action: func(c *cli.Context) error {
			p, err := st.loadProgram(c.String("input"))
			if err != nil {
				return err
			}
			doc := literal.Encode(p, st.encodeOptions())
			st.log.Info("encoded descriptor", zap.String("size", humanize.Bytes(uint64(len(doc)))))
			return writeOutput(c, doc)
		},
	}
}

func goSourceCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "gosrc",
		Usage: "write a Go source file declaring the descriptor as a byte array",
		Flags: []cli.Flag{
			inputFlag(),
			outFlag(),
			&cli.StringFlag{Name: "package", Usage: "package name, from the configuration when omitted"},
			&cli.StringFlag{Name: "var", Usage: "variable name, from the configuration when omitted"},
		},
		Action: func(c *cli.Context) error {
			p, err := st.loadProgram(c.String("input"))
			if err != nil {
				return err
			}
			opts := embed.GoOptions{
				Package:   st.cfg.Package,
				Variable:  st.cfg.Variable,
				Generator: generator,
				Encode:    st.encodeOptions(),
			}
			if v := c.String("package"); v != "" {
				opts.Package = v
			}
			if v := c.String("var"); v != "" {
				opts.Variable = v
			}
			src, err := embed.GoSource(p, opts)
			if err != nil {
				return err
			}
			return writeOutput(c, src)
		},
	}
}

func embedCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "embed",
		Usage: "store the descriptor in a custom section of a wasm module",
		Flags: []cli.Flag{
			inputFlag(),
			&cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "input wasm module", Required: true},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output wasm module", Required: true},
			&cli.StringFlag{Name: "section", Usage: "custom section name, from the configuration when omitted"},
			&cli.BoolFlag{Name: "verify", Usage: "compile the result with wazero and compare the section"},
		},
		Action: func(c *cli.Context) error {
			p, err := st.loadProgram(c.String("input"))
			if err != nil {
				return err
			}
			module, err := os.ReadFile(c.String("module"))
			if err != nil {
				return fmt.Errorf("read module: %w", err)
			}
			section := st.section(c)

			out, err := embed.Module(module, section, p, st.encodeOptions())
			if err != nil {
				return err
			}

			if c.Bool("verify") || st.cfg.Verify {
				want, err := embed.Extract(out, section)
				if err != nil {
					return err
				}
				got, err := embed.Verify(c.Context, out, section)
				if err != nil {
					return err
				}
				if !bytes.Equal(got, want) {
					return fmt.Errorf("verify: section %q differs after compilation", section)
				}
				st.log.Debug("verified module", zap.String("section", section))
			}

			if err := os.WriteFile(c.String("out"), out, 0o644); err != nil {
				return fmt.Errorf("write module: %w", err)
			}
			st.log.Info("embedded descriptor",
				zap.String("section", section),
				zap.String("module", humanize.Bytes(uint64(len(module)))),
				zap.String("result", humanize.Bytes(uint64(len(out)))),
			)
			return nil
		},
	}
}

func inspectCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "print a summary of an encoded descriptor",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			doc, size, err := st.readDocument(c)
			if err != nil {
				return err
			}
			styled := term.IsTerminal(int(os.Stdout.Fd()))
			_, err = io.WriteString(c.App.Writer, renderInspect(doc, size, styled))
			return err
		},
	}
}

func browseCommand(st *state) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "browse an encoded descriptor interactively",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			doc, _, err := st.readDocument(c)
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("browse needs an interactive terminal")
			}
			return runInteractive(sourceName(c), doc)
		},
	}
}

func (st *state) loadProgram(path string) (*ast.Program, error) {
	p, err := ast.LoadFile(path, descriptor.DefaultResolver{})
	if err != nil {
		return nil, err
	}
	if err := ast.Validate(p); err != nil {
		return nil, err
	}
	st.log.Debug("loaded description",
		zap.String("path", path),
		zap.Int("exports", len(p.Exports)),
		zap.Int("imports", len(p.Imports)),
	)
	return p, nil
}

func (st *state) encodeOptions() literal.Options {
	opts := literal.DefaultOptions()
	if v := st.cfg.DocumentVersion(); v != "" {
		opts.Version = v
	}
	return opts
}

func (st *state) section(c *cli.Context) string {
	if s := c.String("section"); s != "" {
		return s
	}
	return st.cfg.Section
}

func (st *state) readDocument(c *cli.Context) (*document.Document, int, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case c.String("module") != "" && c.String("raw") != "":
		return nil, 0, fmt.Errorf("--module and --raw are mutually exclusive")
	case c.String("module") != "":
		var module []byte
		module, err = os.ReadFile(c.String("module"))
		if err != nil {
			return nil, 0, fmt.Errorf("read module: %w", err)
		}
		data, err = embed.Extract(module, st.section(c))
	case c.String("raw") != "":
		data, err = os.ReadFile(c.String("raw"))
	default:
		return nil, 0, fmt.Errorf("one of --module or --raw is required")
	}
	if err != nil {
		return nil, 0, err
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return doc, len(data), nil
}

func sourceName(c *cli.Context) string {
	if m := c.String("module"); m != "" {
		return m
	}
	return c.String("raw")
}

func writeOutput(c *cli.Context, data []byte) error {
	path := c.String("out")
	if path == "" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderInspect(doc *document.Document, size int, styled bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	sum := doc.Summary()
	fmt.Fprintf(&b, "%s %s\n", style(titleStyle, "Descriptor"), humanize.Bytes(uint64(size)))
	fmt.Fprintf(&b, "%s\n", sum)

	if len(doc.Exports) > 0 {
		b.WriteString("\nExports:\n")
		for _, e := range doc.Exports {
			b.WriteString("  " + style(funcStyle, exportLabel(doc, &e)) + "\n")
		}
	}
	if len(doc.Imports) > 0 {
		b.WriteString("\nImports:\n")
		for _, imp := range doc.Imports {
			b.WriteString("  " + style(funcStyle, importLabel(doc, &imp)) + "\n")
		}
	}
	if len(doc.Enums) > 0 {
		b.WriteString("\nEnums:\n")
		for _, e := range doc.Enums {
			b.WriteString("  " + style(typeStyle, enumLabel(&e)) + "\n")
		}
	}
	if len(doc.CustomTypeNames) > 0 {
		b.WriteString("\nCustom types:\n")
		for _, ct := range doc.CustomTypeNames {
			fmt.Fprintf(&b, "  %s %s\n", style(typeStyle, ct.Name), style(helpStyle, descriptor.Descriptor(ct.Descriptor).String()))
		}
	}
	return b.String()
}
