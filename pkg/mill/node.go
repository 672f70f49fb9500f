package mill

// Node is the engine's view of a syntax tree: an opaque value carrying a
// discriminating type name. Concrete node shapes belong to the parser and
// compiler implementations.
type Node interface {
	Type() string
}

// Settings carries per-call options through parse, transform and stringify.
// The engine passes it along untouched except for defaulting in Process.
type Settings map[string]any
