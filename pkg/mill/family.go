package mill

import (
	"context"
	"errors"
	"sync"

	"github.com/ib-77/mill/pkg/mill/belt"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

// Options configures a new Family.
type Options struct {
	// Name is the family's namespace key on carrier files. Required.
	Name string
	// Parser and Compiler are the family's stage implementations. Both
	// constructors are required.
	Parser   ParserSpec
	Compiler CompilerSpec
	// Data is an optional default settings payload, deep-copied into every
	// processor instance and merged under per-call settings by Process.
	Data Settings
}

// Family is a processor class: one parser implementation, one compiler
// implementation and one namespace key. Processors derived from a family
// own independent copies of its tables, so families never share mutable
// state with their instances or with each other.
type Family struct {
	name     string
	parser   ParserSpec
	compiler CompilerSpec
	data     Settings

	mu  sync.Mutex
	def *Processor
}

// New builds a Family from opts.
func New(opts Options) (*Family, error) {
	if opts.Name == "" {
		return nil, errors.New("mill: family name is required")
	}
	if opts.Parser.New == nil {
		return nil, errors.New("mill: parser constructor is required")
	}
	if opts.Compiler.New == nil {
		return nil, errors.New("mill: compiler constructor is required")
	}
	return &Family{
		name:     opts.Name,
		parser:   opts.Parser.clone(),
		compiler: opts.Compiler.clone(),
		data:     Settings(deepCopy(opts.Data)),
	}, nil
}

// Must returns f or panics if err is non-nil. Intended for package-level
// family construction with known-good options.
func Must(f *Family, err error) *Family {
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the family's namespace key.
func (f *Family) Name() string {
	return f.name
}

// NewProcessor derives a fresh processor: cloned parser and compiler
// tables, a deep copy of the default data, an empty transform registry.
func (f *Family) NewProcessor() *Processor {
	return &Processor{
		family:     f,
		Parser:     f.parser.clone(),
		Compiler:   f.compiler.clone(),
		Data:       Settings(deepCopy(f.data)),
		transforms: belt.New[*task](),
	}
}

// Default returns the family's shared default processor, materializing it
// on first use.
func (f *Family) Default() *Processor {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.def == nil {
		f.def = f.NewProcessor()
	}
	return f.def
}

// Use registers a transform on the family's default processor.
func (f *Family) Use(t Transform) *Processor {
	return f.Default().Use(t)
}

// Parse runs the parse stage on the default processor.
func (f *Family) Parse(ctx context.Context, input any, settings Settings) (Node, error) {
	return f.Default().Parse(ctx, input, settings)
}

// Run runs the transform stage on the default processor.
func (f *Family) Run(ctx context.Context, tree Node, file *vfile.File, done Done) (Node, error) {
	return f.Default().Run(ctx, tree, file, done)
}

// RunSync runs the transform stage on the default processor and waits for
// completion.
func (f *Family) RunSync(ctx context.Context, tree Node, file *vfile.File) (Node, error) {
	return f.Default().RunSync(ctx, tree, file)
}

// Stringify runs the compile stage on the default processor.
func (f *Family) Stringify(tree Node, file *vfile.File, settings Settings) (string, error) {
	return f.Default().Stringify(tree, file, settings)
}

// Process runs the full pipeline on the default processor.
func (f *Family) Process(ctx context.Context, input any, settings Settings) (*Result, error) {
	return f.Default().Process(ctx, input, settings)
}
