package plain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ib-77/mill/pkg/mill"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

// TrimTrailingSpace removes trailing spaces and tabs from every line.
func TrimTrailingSpace(_ context.Context, _ *mill.Processor, tree mill.Node, _ *vfile.File) error {
	root, err := rootOf(tree)
	if err != nil {
		return err
	}
	for _, line := range root.Children {
		line.Value = strings.TrimRight(line.Value, " \t")
	}
	return nil
}

// SqueezeBlankLines collapses runs of consecutive blank lines into one.
func SqueezeBlankLines(_ context.Context, _ *mill.Processor, tree mill.Node, _ *vfile.File) error {
	root, err := rootOf(tree)
	if err != nil {
		return err
	}
	kept := root.Children[:0]
	blank := false
	for _, line := range root.Children {
		if line.Value == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		kept = append(kept, line)
	}
	root.Children = kept
	return nil
}

// Uppercase maps every line to upper case.
func Uppercase(_ context.Context, _ *mill.Processor, tree mill.Node, _ *vfile.File) error {
	root, err := rootOf(tree)
	if err != nil {
		return err
	}
	for _, line := range root.Children {
		line.Value = strings.ToUpper(line.Value)
	}
	return nil
}

// WarnLongLines returns a transform that attaches a diagnostic to the file
// for every line longer than limit. The tree is left untouched.
func WarnLongLines(limit int) mill.Transform {
	return func(_ context.Context, _ *mill.Processor, tree mill.Node, file *vfile.File) error {
		root, err := rootOf(tree)
		if err != nil {
			return err
		}
		for i, line := range root.Children {
			if len(line.Value) > limit {
				file.Message(Name, fmt.Sprintf("line %d is longer than %d characters", i+1, limit))
			}
		}
		return nil
	}
}

func rootOf(tree mill.Node) (*Root, error) {
	root, ok := tree.(*Root)
	if !ok {
		return nil, &UnexpectedTreeError{Got: tree.Type()}
	}
	return root, nil
}
