// Package ast holds the program-description tree the descriptor encoder
// walks: exported and imported functions, statics, opaque types, enums and
// struct names.
//
// The tree is built once, upstream, and is read-only during encoding.
// Closed variant sets (ImportKind, ImportFunctionKind) are sealed interfaces;
// TypeKind and TypeLocation are enums whose zero value is invalid.
//
// Trees are normally produced by a parser. LoadYAML builds one from a
// description file instead:
//
//	exports:
//	  - class: Counter
//	    method: true
//	    name: add
//	    arguments: ["&mut Counter", u32]
//	    ret: u32
//	imports:
//	  - module: ./dom.js
//	    name: width
//	    method: Element
//	    getter: ""
//	    shim: __wbg_width_0
//	    arguments: ["&Element"]
//	    ret: u32
//	structs: [Point]
//
// Validate reports every contract violation an encoder would abort on.
package ast
