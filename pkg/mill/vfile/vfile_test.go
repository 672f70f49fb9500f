package vfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	t.Parallel()

	f := FromString("hello")
	assert.Equal(t, "hello", f.Value())
	assert.NotEqual(t, f.ID(), FromString("hello").ID())
	assert.False(t, f.CreatedAt().IsZero())
}

func TestAs_IdentityForFiles(t *testing.T) {
	t.Parallel()

	f := FromString("x")
	assert.Same(t, f, As(f))
}

func TestAs_WrapsLooseInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", As("text").Value())
	assert.Equal(t, "bytes", As([]byte("bytes")).Value())
	assert.Equal(t, "", As(nil).Value())
	assert.Equal(t, "", As(42).Value())

	var nilFile *File
	assert.NotNil(t, As(nilFile))
}

func TestSpace_LazilyCreatedAndStable(t *testing.T) {
	t.Parallel()

	f := New()
	s := f.Space("fam")
	require.NotNil(t, s)
	assert.Nil(t, s.Tree)

	s.Tree = "tree"
	s.Meta["k"] = 1
	assert.Same(t, s, f.Space("fam"))
	assert.NotSame(t, s, f.Space("other"))
}

func TestCopy_Independence(t *testing.T) {
	t.Parallel()

	src := FromString("v")
	src.Path = "a.txt"
	src.Space("fam").Tree = "tree"
	src.Space("fam").Meta["k"] = "old"
	src.Message("test", "note")

	dup := Copy(src)
	require.Equal(t, "v", dup.Value())
	require.Equal(t, "a.txt", dup.Path)
	assert.Equal(t, "tree", dup.Space("fam").Tree)
	assert.NotEqual(t, src.ID(), dup.ID())

	dup.Space("fam").Meta["k"] = "new"
	dup.Space("fam").Tree = nil
	assert.Equal(t, "old", src.Space("fam").Meta["k"])
	assert.Equal(t, "tree", src.Space("fam").Tree)

	assert.Len(t, dup.Messages(), 1)
	assert.NotNil(t, Copy(nil))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	f := New()
	f.Message("lint", "too long")
	assert.False(t, f.HasFailed())

	f.Fail("parse", "broken")
	require.Len(t, f.Messages(), 2)
	assert.True(t, f.HasFailed())
	assert.Equal(t, "lint: too long", f.Messages()[0].String())
	assert.Equal(t, "broken", Message{Reason: "broken"}.String())
}
