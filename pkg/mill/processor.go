package mill

import (
	"context"
	"fmt"

	"dario.cat/mergo"

	"github.com/ib-77/mill/pkg/mill/belt"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

// Transform is a registered plugin invoked during the transform stage with
// the processor it runs under, the tree and the carrier file. A transform
// finishes by returning: nil continues the sequence, an error aborts the
// remaining transforms. Transforms needing to extend parsing or compiling
// mutate proc.Parser.Table or proc.Compiler.Table.
type Transform func(ctx context.Context, proc *Processor, tree Node, file *vfile.File) error

// Done receives the outcome of an asynchronous transform run.
type Done func(err error)

// task is the shared state a transform run moves along the belt.
type task struct {
	proc *Processor
	tree Node
	file *vfile.File
}

// Processor is a live pipeline instance. Parser, Compiler and Data are
// instance-local copies of the family's configuration; transforms may
// mutate them freely without affecting siblings.
type Processor struct {
	family *Family

	Parser   ParserSpec
	Compiler CompilerSpec
	Data     Settings

	transforms *belt.Runner[*task]
}

// Family returns the family this processor was derived from.
func (p *Processor) Family() *Family {
	return p.family
}

// Use appends t to the processor's ordered transform registry and returns
// the processor for chaining. Duplicate registration is permitted; each
// copy runs independently in registration order.
func (p *Processor) Use(t Transform) *Processor {
	if t == nil {
		return p
	}
	p.transforms.Use(func(ctx context.Context, tk *task) error {
		return t(ctx, tk.proc, tk.tree, tk.file)
	})
	return p
}

// Transforms returns the number of registered transforms.
func (p *Processor) Transforms() int {
	return p.transforms.Len()
}

// Parse normalizes input into a carrier file, runs the instance parser and
// attaches the resulting tree to the file's namespace space, overwriting
// any prior tree. Parser errors pass through unchanged.
func (p *Processor) Parse(ctx context.Context, input any, settings Settings) (Node, error) {
	file := vfile.As(input)
	tree, err := p.Parser.New(file, settings, p).Parse(ctx)
	if err != nil {
		return nil, err
	}
	file.Space(p.family.name).Tree = tree
	return tree, nil
}

// Run executes the registered transforms against a tree in registration
// order, one at a time, stopping on the first error. The tree is resolved
// from the explicit argument or, when tree is nil, from the file's
// namespace space; an explicit tree also fills the space if it was empty.
// With no resolvable tree Run returns an ExpectedNodeError immediately.
//
// Run returns the (reference-stable) tree before the transforms complete;
// done is invoked exactly once with the outcome. A nil done bails: any
// transform error becomes a panic on the running goroutine.
func (p *Processor) Run(ctx context.Context, tree Node, file *vfile.File, done Done) (Node, error) {
	if done == nil {
		done = bail
	}
	if file == nil {
		file = vfile.New()
	}
	resolved, err := p.resolveTree("run", tree, file)
	if err != nil {
		return nil, err
	}
	if p.transforms.Len() == 0 {
		done(nil)
		return resolved, nil
	}
	p.transforms.Go(ctx, &task{proc: p, tree: resolved, file: file}, done)
	return resolved, nil
}

// RunSync runs the transforms and waits for completion, returning the tree
// and the first transform error, if any.
func (p *Processor) RunSync(ctx context.Context, tree Node, file *vfile.File) (Node, error) {
	errCh := make(chan error, 1)
	resolved, err := p.Run(ctx, tree, file, func(e error) { errCh <- e })
	if err != nil {
		return nil, err
	}
	select {
	case err = <-errCh:
		return resolved, err
	case <-ctx.Done():
		return resolved, ctx.Err()
	}
}

// Stringify resolves a tree the same way Run does and compiles it with the
// instance compiler. Compiler errors pass through unchanged.
func (p *Processor) Stringify(tree Node, file *vfile.File, settings Settings) (string, error) {
	if file == nil {
		file = vfile.New()
	}
	resolved, err := p.resolveTree("stringify", tree, file)
	if err != nil {
		return "", err
	}
	return p.Compiler.New(file, settings, p).Compile(resolved)
}

// Result pairs the carrier file with the compiled output of a Process run.
type Result struct {
	File   *vfile.File
	Output string
}

// Process runs the fixed parse, transform, stringify plan end to end.
// Textual or carrier-file input is normalized into a file; a Node input is
// treated as an already-parsed tree over a fresh empty file. The parse
// stage is skipped when a tree is already present, either supplied
// directly or left on the file by a prior run. No partial result is
// returned on error.
func (p *Processor) Process(ctx context.Context, input any, settings Settings) (*Result, error) {
	merged, err := p.mergeSettings(settings)
	if err != nil {
		return nil, err
	}
	e := &exec{proc: p, settings: merged}
	switch v := input.(type) {
	case nil:
		e.file = vfile.New()
	case *vfile.File, string, []byte:
		e.file = vfile.As(v)
	default:
		n, ok := v.(Node)
		if !ok {
			return nil, fmt.Errorf("mill: cannot process input of type %T", input)
		}
		e.tree = n
		e.file = vfile.New()
	}
	if err := plan.Run(ctx, e); err != nil {
		return nil, err
	}
	return &Result{File: e.file, Output: e.output}, nil
}

// resolveTree applies the tree precedence rule: an explicit tree wins and
// fills the file's empty namespace space; otherwise the space is read.
func (p *Processor) resolveTree(op string, tree Node, file *vfile.File) (Node, error) {
	space := file.Space(p.family.name)
	if tree != nil {
		if space.Tree == nil {
			space.Tree = tree
		}
		return tree, nil
	}
	if attached, ok := space.Tree.(Node); ok && attached != nil {
		return attached, nil
	}
	return nil, &ExpectedNodeError{Op: op}
}

// attachedTree reads the file's namespace space without the error path.
func (p *Processor) attachedTree(file *vfile.File) (Node, bool) {
	attached, ok := file.Space(p.family.name).Tree.(Node)
	return attached, ok && attached != nil
}

// mergeSettings deep-merges per-call settings over the instance defaults.
func (p *Processor) mergeSettings(settings Settings) (Settings, error) {
	merged := Settings{}
	if settings != nil {
		if err := mergo.Merge(&merged, settings, mergo.WithOverride); err != nil {
			return nil, err
		}
	}
	if p.Data != nil {
		if err := mergo.Merge(&merged, p.Data); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// bail is the default Run callback: errors are fatal.
func bail(err error) {
	if err != nil {
		panic(err)
	}
}
