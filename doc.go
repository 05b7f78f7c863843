// Package wasmdescriptor encodes the interface of a program compiled to
// WebAssembly into a compact, JSON-compatible descriptor document that a
// bindings generator reads back out of the compiled artifact.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmdescriptor/      Root package (documentation only)
//	├── ast/             Interface description tree, validation and YAML loading
//	├── descriptor/      Boundary descriptors, built-in catalog, name mapping
//	├── literal/         Byte builder and the document encoder
//	├── document/        Typed decoding of encoded documents
//	├── embed/           Go source and wasm custom section embedding
//	├── wasm/            Minimal wasm section container
//	├── config/          descgen configuration
//	├── errors/          Structured error types
//	└── cmd/descgen/     Command line tool
//
// # Quick Start
//
// Encode a program and embed it in a module:
//
//	doc := literal.Encode(program, literal.DefaultOptions())
//	out, err := embed.CustomSection(module, embed.DefaultSection, doc)
//
// Or generate Go source holding the document as a fixed-size array:
//
//	src, err := embed.GoSource(program, embed.GoOptions{
//	    Package:  "bindings",
//	    Variable: "descriptor",
//	    Encode:   literal.DefaultOptions(),
//	})
//
// # Document Layout
//
// The document is an object with the keys exports, imports, enums,
// custom_type_names, version and schema_version, always in that order.
// Strings are never escaped; every string must stay within printable ASCII
// excluding the quote and backslash. Type descriptors occupy exactly four
// bytes each: the decimal value right-aligned and space-padded, so a
// consumer can index them positionally while the document still parses as
// JSON.
//
// # Contract Violations
//
// A malformed tree (an unset type kind or location, a setter without the
// set_ prefix, an unsafe string) is a programming error. The encoder panics
// with an *errors.Error before writing anything. Call ast.Validate first to
// receive every violation as an error instead.
//
// The encoder also panics when an exported class or struct appears in a
// signature with a descriptor other than the one Options.NameToDescriptor
// assigns its name, since custom_type_names would then contradict the
// signatures. Build custom boundaries with descriptor.CustomWith and the
// same mapping the encoder uses.
package wasmdescriptor
