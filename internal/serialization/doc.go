// Package serialization saves and loads autodiff parameters in the
// SafeTensors format, the de-facto standard checkpoint format of HuggingFace
// models:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header]
//	[tensor data: raw little-endian F32 values]
//
// The JSON header maps every tensor name to its dtype, shape and
// [begin, end) byte offsets into the data section. Tensors are written in
// alphabetical order. The optional "__metadata__" entry holds string
// key/values; the writer records a SHA-256 of the data section in it, which
// the reader verifies when present.
//
// Example usage:
//
//	// Save
//	if err := serialization.WriteFile("model.safetensors", model.Parameters(), nil); err != nil {
//	    return err
//	}
//
//	// Load into parameters of the same names and shapes
//	if err := serialization.ReadFile("model.safetensors", model.Parameters()); err != nil {
//	    return err
//	}
package serialization
