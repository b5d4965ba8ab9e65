package project

import "github.com/binlift/ecolift/backend"

// ProjectBuilder resolves an architecture tag or explicit
// processor/endian/bits/variant tuple against a loaded language
// database and builds a Project bound to the resulting Translator.
type ProjectBuilder struct {
	db backend.TranslatorBuilder
}

// NewProjectBuilderFromDB wraps an already-loaded TranslatorBuilder.
func NewProjectBuilderFromDB(db backend.TranslatorBuilder) *ProjectBuilder {
	return &ProjectBuilder{db: db}
}

// NewProjectBuilder loads a language database from path, aborting on
// the first malformed architecture descriptor it finds.
func NewProjectBuilder(path string) (*ProjectBuilder, error) {
	return NewProjectBuilderWith(path, false)
}

// NewProjectBuilderWith loads a language database from path. When
// ignoreErrors is true, malformed architecture descriptors under path
// are skipped instead of aborting the load.
func NewProjectBuilderWith(path string, ignoreErrors bool) (*ProjectBuilder, error) {
	db, err := backend.LoadLanguageDB(path, ignoreErrors)
	if err != nil {
		return nil, err
	}
	return NewProjectBuilderFromDB(db), nil
}

// Project resolves tag (e.g. "x86:LE:32:default") and convention
// against the loaded language database and builds a Project named
// name around the resulting backend. Fails with an error wrapping
// backend.ErrUnsupportedArch or backend.ErrUnsupportedConv when
// resolution fails.
func (pb *ProjectBuilder) Project(name, tag, convention string) (*Project, error) {
	t, err := pb.db.BuildTag(tag, convention)
	if err != nil {
		return nil, err
	}
	return New(name, t.Backend), nil
}

// ProjectWith resolves an explicit processor/endian/bits/variant
// tuple and convention against the loaded language database and
// builds a Project named name around the resulting backend.
func (pb *ProjectBuilder) ProjectWith(name, processor string, littleEndian bool, bits uint32, variant, convention string) (*Project, error) {
	t, err := pb.db.Build(processor, littleEndian, bits, variant, convention)
	if err != nil {
		return nil, err
	}
	return New(name, t.Backend), nil
}
