// Package mill is a three-stage document-processing engine: parse raw input
// into a syntax tree, transform the tree through an ordered sequence of
// registered plugins, compile the tree into output text. The package is the
// orchestration layer only; concrete parsers, compilers and transforms are
// supplied by callers and composed into one pipeline.
//
// Key operations:
// - New: build a Family from a parser spec, a compiler spec and a name
// - Family.NewProcessor/Default: derive isolated or shared processor instances
// - Use: append a transform to a processor's ordered registry
// - Parse/Run/Stringify: drive the three stages individually
// - Process: run the full parse, transform, stringify pipeline in one call
//
// Every processor owns independent copies of its family's parser and
// compiler tables, so a plugin extending one processor never leaks into a
// sibling or into the family itself.
package mill
