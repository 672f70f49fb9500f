// Package vfile provides the carrier file passed through every stage of a
// mill pipeline. A File bundles the input/output text with per-family
// metadata spaces and diagnostic messages.
//
// Key operations:
// - New/FromString/Copy: construct a File empty, from text, or from another File
// - As: normalize loose input (string, []byte, *File) into a File
// - Space: fetch the mutable metadata bag for a family key
// - Message/Messages: collect and read diagnostics attached by transforms
package vfile
