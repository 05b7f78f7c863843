// Package descriptor defines boundary descriptors: the small integers that
// tell a binding generator how a type crosses the interface.
//
// Every type that can appear in a function signature implements Boundary
// and exposes three descriptors, one per ownership/direction rule:
//
//	ValueDescriptor    owned, any location
//	ToRefDescriptor    borrowed, import argument or export return
//	FromRefDescriptor  borrowed, import return or export argument
//
// Built-in boundaries are keyed by WIT primitive types:
//
//	b, ok := descriptor.Primitive(wit.U32{})
//
// User-defined types get descriptors derived from their name:
//
//	b := descriptor.Custom("Counter")
//
// Descriptors are emitted in a fixed four-byte form (see Descriptor.Bytes).
package descriptor
