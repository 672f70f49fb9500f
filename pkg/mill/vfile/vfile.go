package vfile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// File is the in-memory carrier travelling through a pipeline. It holds the
// current text value, an optional path, per-family metadata spaces and any
// diagnostic messages attached along the way.
type File struct {
	id        uuid.UUID
	createdAt time.Time

	Path  string
	value string

	spaces   map[string]*Space
	messages []Message
}

// Space is the mutable metadata bag a File keeps for one family key.
// Tree holds the parsed tree attached by that family's processor; Meta is
// free-form per-family metadata.
type Space struct {
	Tree any
	Meta map[string]any
}

// Message is a diagnostic attached to a File by a parser, compiler or
// transform. Fatal messages mark the file as failed without aborting the
// pipeline.
type Message struct {
	Source string
	Reason string
	Fatal  bool
}

func (m Message) String() string {
	if m.Source == "" {
		return m.Reason
	}
	return m.Source + ": " + m.Reason
}

// New returns an empty File.
func New() *File {
	return &File{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		spaces:    make(map[string]*Space),
	}
}

// FromString returns a File whose value is the given text.
func FromString(value string) *File {
	f := New()
	f.value = value
	return f
}

// Copy returns an independent copy of src: same value and path, deep-copied
// spaces (tree references are shared, bags are not) and messages.
func Copy(src *File) *File {
	f := New()
	if src == nil {
		return f
	}
	f.value = src.value
	f.Path = src.Path
	for key, s := range src.spaces {
		meta := make(map[string]any, len(s.Meta))
		for k, v := range s.Meta {
			meta[k] = v
		}
		f.spaces[key] = &Space{Tree: s.Tree, Meta: meta}
	}
	f.messages = append(f.messages, src.messages...)
	return f
}

// As normalizes loose input into a File. An existing *File is returned
// unchanged, text is wrapped, nil yields an empty File.
func As(input any) *File {
	switch v := input.(type) {
	case nil:
		return New()
	case *File:
		if v == nil {
			return New()
		}
		return v
	case string:
		return FromString(v)
	case []byte:
		return FromString(string(v))
	case fmt.Stringer:
		return FromString(v.String())
	default:
		return New()
	}
}

// ID returns the file's unique identity.
func (f *File) ID() uuid.UUID {
	return f.id
}

// CreatedAt returns the file's creation time (UTC).
func (f *File) CreatedAt() time.Time {
	return f.createdAt
}

// Value returns the file's current text.
func (f *File) Value() string {
	return f.value
}

// SetValue replaces the file's text.
func (f *File) SetValue(value string) {
	f.value = value
}

// Space returns the metadata bag for key, creating it on first access.
func (f *File) Space(key string) *Space {
	if f.spaces == nil {
		f.spaces = make(map[string]*Space)
	}
	s, ok := f.spaces[key]
	if !ok {
		s = &Space{Meta: make(map[string]any)}
		f.spaces[key] = s
	}
	return s
}

// Message appends a diagnostic to the file and returns it.
func (f *File) Message(source, reason string) *Message {
	f.messages = append(f.messages, Message{Source: source, Reason: reason})
	return &f.messages[len(f.messages)-1]
}

// Fail appends a fatal diagnostic to the file.
func (f *File) Fail(source, reason string) {
	f.messages = append(f.messages, Message{Source: source, Reason: reason, Fatal: true})
}

// Messages returns the diagnostics collected so far.
func (f *File) Messages() []Message {
	return f.messages
}

// HasFailed reports whether any fatal diagnostic was attached.
func (f *File) HasFailed() bool {
	for _, m := range f.messages {
		if m.Fatal {
			return true
		}
	}
	return false
}
