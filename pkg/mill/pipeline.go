package mill

import (
	"context"

	"github.com/ib-77/mill/pkg/mill/belt"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

// exec is the shared execution context one Process call moves along the
// plan. Each call gets its own exec; the processor itself is read, not
// copied.
type exec struct {
	proc     *Processor
	settings Settings
	file     *vfile.File
	tree     Node
	output   string
}

// plan is the fixed three-step pipeline shared by every family:
// parse if needed, run the transforms, stringify.
var plan = belt.New[*exec]().
	Use(parseStep).
	Use(transformStep).
	Use(stringifyStep)

func parseStep(ctx context.Context, e *exec) error {
	if e.tree != nil {
		return nil
	}
	if attached, ok := e.proc.attachedTree(e.file); ok {
		e.tree = attached
		return nil
	}
	tree, err := e.proc.Parse(ctx, e.file, e.settings)
	if err != nil {
		return err
	}
	e.tree = tree
	return nil
}

func transformStep(ctx context.Context, e *exec) error {
	tree, err := e.proc.RunSync(ctx, e.tree, e.file)
	if err != nil {
		return err
	}
	e.tree = tree
	return nil
}

func stringifyStep(_ context.Context, e *exec) error {
	out, err := e.proc.Stringify(e.tree, e.file, e.settings)
	if err != nil {
		return err
	}
	e.output = out
	return nil
}
