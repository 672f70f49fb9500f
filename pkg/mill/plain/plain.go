package plain

import (
	"context"
	"strings"

	"github.com/ib-77/mill/pkg/mill"
	"github.com/ib-77/mill/pkg/mill/vfile"
)

// Name is the family's namespace key on carrier files.
const Name = "plain"

// Root is the top of a plain-text tree.
type Root struct {
	Children []*Line
}

func (r *Root) Type() string { return "root" }

// Line is a single line of text without its terminator.
type Line struct {
	Value string
}

func (l *Line) Type() string { return "line" }

// New builds a fresh plain-text family. Each call returns an independent
// family, so callers can register plugins without affecting one another.
func New() *mill.Family {
	return mill.Must(mill.New(mill.Options{
		Name: Name,
		Parser: mill.ParserSpec{
			New:   newParser,
			Table: mill.Table{"newline": "\n"},
		},
		Compiler: mill.CompilerSpec{
			New:   newCompiler,
			Table: mill.Table{"newline": "\n", "eofNewline": false},
		},
	}))
}

type parser struct {
	file *vfile.File
	proc *mill.Processor
}

func newParser(file *vfile.File, _ mill.Settings, proc *mill.Processor) mill.Parser {
	return &parser{file: file, proc: proc}
}

func (p *parser) Parse(ctx context.Context) (mill.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := &Root{}
	value := p.file.Value()
	if value == "" {
		return root, nil
	}
	newline := tableString(p.proc.Parser.Table, "newline", "\n")
	for _, text := range strings.Split(value, newline) {
		root.Children = append(root.Children, &Line{Value: text})
	}
	return root, nil
}

type compiler struct {
	file *vfile.File
	proc *mill.Processor
}

func newCompiler(file *vfile.File, _ mill.Settings, proc *mill.Processor) mill.Compiler {
	return &compiler{file: file, proc: proc}
}

func (c *compiler) Compile(tree mill.Node) (string, error) {
	root, ok := tree.(*Root)
	if !ok {
		return "", &UnexpectedTreeError{Got: tree.Type()}
	}
	newline := tableString(c.proc.Compiler.Table, "newline", "\n")
	lines := make([]string, 0, len(root.Children))
	for _, line := range root.Children {
		lines = append(lines, line.Value)
	}
	out := strings.Join(lines, newline)
	if eof, _ := c.proc.Compiler.Table["eofNewline"].(bool); eof && !strings.HasSuffix(out, newline) {
		out += newline
	}
	c.file.SetValue(out)
	return out, nil
}

// UnexpectedTreeError reports a compile call over a tree the plain family
// does not understand.
type UnexpectedTreeError struct {
	Got string
}

func (e *UnexpectedTreeError) Error() string {
	return "plain: cannot compile tree of type " + e.Got
}

func tableString(t mill.Table, key, fallback string) string {
	if v, ok := t[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
