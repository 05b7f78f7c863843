// Package wasm reads and writes the section structure of WebAssembly
// binary modules.
//
// Only the container is interpreted: the header, section framing and the
// names of custom sections. Every other section is carried as raw bytes,
// so a parse/encode round trip reproduces any module whose section sizes
// are minimally encoded.
//
//	m, err := wasm.ParseModule(data)
//	if err != nil {
//	    return err
//	}
//	m.SetCustomSection("__wasm_descriptor_unstable", doc)
//	out := m.Encode()
package wasm
