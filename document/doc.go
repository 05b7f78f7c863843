// Package document decodes the descriptor byte stream back into typed
// values. Tooling uses it to inspect embedded descriptors; it only knows
// the fixed descriptor schema.
package document
