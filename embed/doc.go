// Package embed places encoded descriptors where a toolchain can find
// them: as a fixed-size byte array in generated Go source, or as a custom
// section of a WebAssembly module.
//
// GoSource streams the encoder output straight into the array literal and
// sizes the array from the encoder's byte count. CustomSection and Module
// rewrite a module's custom section; Verify loads the result with wazero to
// check that a real engine accepts it and sees the same payload.
package embed
