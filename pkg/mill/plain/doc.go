// Package plain provides a minimal line-oriented processor family for
// package mill, together with a small set of stock transforms. It splits a
// file's value into a root node of line nodes and compiles the tree back by
// joining the lines.
//
// Key operations:
// - New: build a fresh plain-text Family
// - TrimTrailingSpace/SqueezeBlankLines/Uppercase: stock transforms
// - WarnLongLines: attach diagnostics for lines over a limit
//
// The parser and compiler read their behavior from the processor's tables
// (keys "newline" and "eofNewline"), so transforms can retune them per
// instance without touching siblings.
package plain
