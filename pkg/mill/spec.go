package mill

import (
	"context"

	"github.com/ib-77/mill/pkg/mill/vfile"
)

// Parser turns a carrier file's value into a tree. Implementations may
// resolve asynchronously; Parse must honor ctx.
type Parser interface {
	Parse(ctx context.Context) (Node, error)
}

// Compiler turns a tree into output text. Compilation is synchronous at
// this layer.
type Compiler interface {
	Compile(tree Node) (string, error)
}

// NewParserFunc constructs a fresh Parser bound to the file being parsed,
// the per-call settings and the processor driving the run.
type NewParserFunc func(file *vfile.File, settings Settings, proc *Processor) Parser

// NewCompilerFunc constructs a fresh Compiler with the same binding.
type NewCompilerFunc func(file *vfile.File, settings Settings, proc *Processor) Compiler

// Table is an open extension table for a parser or compiler: grammar rules,
// render options, whatever the implementation reads. Transforms extend a
// processor by mutating its per-instance tables.
type Table map[string]any

// ParserSpec pairs a parser constructor with its extension table.
type ParserSpec struct {
	New   NewParserFunc
	Table Table
}

// CompilerSpec pairs a compiler constructor with its extension table.
type CompilerSpec struct {
	New   NewCompilerFunc
	Table Table
}

func (s ParserSpec) clone() ParserSpec {
	return ParserSpec{New: s.New, Table: Table(deepCopy(s.Table))}
}

func (s CompilerSpec) clone() CompilerSpec {
	return CompilerSpec{New: s.New, Table: Table(deepCopy(s.Table))}
}

// deepCopy copies a bag into fresh containers so that mutating the copy,
// at any depth, never reaches the source. Non-container values (including
// funcs) are shared by reference.
func deepCopy(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case Table:
		return Table(deepCopy(t))
	case Settings:
		return Settings(deepCopy(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
