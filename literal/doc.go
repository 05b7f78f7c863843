// Package literal encodes a program-description tree into a compact,
// self-describing byte sequence: a JSON-like document recording every
// export, import and enum together with per-type boundary descriptors.
//
// The output is a stream of discrete bytes, not a string. A consumer that
// embeds it as a fixed-size array needs the exact element count up front,
// and Builder.Finish is where that count comes from:
//
//	var buf bytes.Buffer
//	n := literal.EncodeTo(&buf, program, literal.DefaultOptions())
//	// n == buf.Len()
//
// # Document shape
//
// The top-level object has the keys exports, imports, enums,
// custom_type_names, version and schema_version, in that order. Key order
// is part of the wire contract at every level and is never sorted. Absent
// optional values are written as null, never omitted.
//
// Each type occurrence is written as a four-byte descriptor (see
// descriptor.Descriptor.Bytes), chosen by the occurrence's ownership kind
// and location:
//
//	by value                                   value descriptor
//	by (mut) ref, import arg or export ret     to-ref descriptor
//	by (mut) ref, import ret or export arg     from-ref descriptor
//
// # Failures
//
// Strings are emitted without escaping and must stay within the safe
// alphabet. A malformed tree (unsafe string, uncovered kind/location pair,
// setter without a set_ prefix) is a contract violation: the encoder
// panics with an *errors.Error and writes nothing. Callers that want an
// error value run ast.Validate first or use errors.Recover.
package literal
