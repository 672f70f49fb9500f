package mill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/mill/pkg/mill/vfile"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	parserNew := func(*vfile.File, Settings, *Processor) Parser { return nil }
	compilerNew := func(*vfile.File, Settings, *Processor) Compiler { return nil }

	_, err := New(Options{Parser: ParserSpec{New: parserNew}, Compiler: CompilerSpec{New: compilerNew}})
	assert.Error(t, err)

	_, err = New(Options{Name: "t", Compiler: CompilerSpec{New: compilerNew}})
	assert.Error(t, err)

	_, err = New(Options{Name: "t", Parser: ParserSpec{New: parserNew}})
	assert.Error(t, err)

	fam, err := New(Options{Name: "t", Parser: ParserSpec{New: parserNew}, Compiler: CompilerSpec{New: compilerNew}})
	require.NoError(t, err)
	assert.Equal(t, "t", fam.Name())
}

func TestMust_PanicsOnError(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Must(New(Options{})) })
}

func TestDefault_IsMemoized(t *testing.T) {
	t.Parallel()

	fam := stubFamily(t, "t", stubOpts{})
	assert.Same(t, fam.Default(), fam.Default())
	assert.Same(t, fam.Default(), fam.Use(nil))
}

func TestUse_FamilyRegistryIndependentOfInstances(t *testing.T) {
	t.Parallel()

	fam := stubFamily(t, "t", stubOpts{})
	noop := func(_ context.Context, _ *Processor, _ Node, _ *vfile.File) error { return nil }

	fam.Use(noop)
	inst := fam.NewProcessor()
	inst.Use(noop).Use(noop)

	assert.Equal(t, 1, fam.Default().Transforms())
	assert.Equal(t, 2, inst.Transforms())
}

func TestNewProcessor_TablesAreIsolated(t *testing.T) {
	t.Parallel()

	fam := stubFamily(t, "t", stubOpts{})
	p1 := fam.NewProcessor()
	p2 := fam.NewProcessor()

	p1.Parser.Table["extra"] = true
	rules, ok := p1.Parser.Table["rules"].(Table)
	require.True(t, ok)
	rules["custom"] = true

	_, leaked := p2.Parser.Table["extra"]
	assert.False(t, leaked)
	p2Rules, ok := p2.Parser.Table["rules"].(Table)
	require.True(t, ok)
	_, leaked = p2Rules["custom"]
	assert.False(t, leaked)

	p3 := fam.NewProcessor()
	p3Rules := p3.Parser.Table["rules"].(Table)
	assert.Equal(t, Table{"base": true}, p3Rules)
}

func TestSiblingFamilies_DoNotShareTables(t *testing.T) {
	t.Parallel()

	a := stubFamily(t, "a", stubOpts{})
	b := stubFamily(t, "b", stubOpts{})

	// A plugin extending one family's parser must never reach the other.
	a.Use(func(_ context.Context, proc *Processor, _ Node, _ *vfile.File) error {
		proc.Parser.Table["injected"] = true
		return nil
	})
	_, err := a.Process(context.Background(), "x", nil)
	require.NoError(t, err)

	_, onDefault := a.Default().Parser.Table["injected"]
	assert.True(t, onDefault)
	_, onSibling := b.Default().Parser.Table["injected"]
	assert.False(t, onSibling)
	_, onFreshInstance := a.NewProcessor().Parser.Table["injected"]
	assert.False(t, onFreshInstance)
}

func TestNewProcessor_DataIsDeepCopied(t *testing.T) {
	t.Parallel()

	fam := stubFamily(t, "t", stubOpts{data: Settings{"nested": Settings{"k": "v"}}})
	p1 := fam.NewProcessor()
	p2 := fam.NewProcessor()

	p1.Data["nested"].(Settings)["k"] = "mutated"
	assert.Equal(t, "v", p2.Data["nested"].(Settings)["k"])
}
