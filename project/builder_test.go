package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/binlift/ecolift/backend"
	_ "github.com/binlift/ecolift/backend/fake"
)

func writeArchDef(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("writing archdef fixture: %v", err)
	}
}

func TestProjectBuilderResolvesTagToProject(t *testing.T) {
	dir := t.TempDir()
	writeArchDef(t, dir, "fake.archdef", ""+
		"processor=fake\n"+
		"endian=LE\n"+
		"bits=32\n"+
		"factory=fake\n"+
		"conventions=cdecl\n")

	pb, err := NewProjectBuilder(dir)
	if err != nil {
		t.Fatalf("NewProjectBuilder: %v", err)
	}

	p, err := pb.Project("demo", "fake:LE:32:default", "cdecl")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Name() != "demo" {
		t.Fatalf("Name() = %q, want demo", p.Name())
	}
}

func TestProjectBuilderProjectUnknownTagIsUnsupportedArch(t *testing.T) {
	dir := t.TempDir()
	pb, err := NewProjectBuilder(dir)
	if err != nil {
		t.Fatalf("NewProjectBuilder: %v", err)
	}

	if _, err := pb.Project("demo", "nonesuch:LE:32:default", "cdecl"); !errors.Is(err, backend.ErrUnsupportedArch) {
		t.Fatalf("Project with unknown tag = %v, want ErrUnsupportedArch", err)
	}
}

func TestProjectBuilderProjectUnknownConventionIsUnsupportedConv(t *testing.T) {
	dir := t.TempDir()
	writeArchDef(t, dir, "fake.archdef", ""+
		"processor=fake\n"+
		"endian=LE\n"+
		"bits=32\n"+
		"factory=fake\n"+
		"conventions=cdecl\n")

	pb, err := NewProjectBuilder(dir)
	if err != nil {
		t.Fatalf("NewProjectBuilder: %v", err)
	}

	if _, err := pb.Project("demo", "fake:LE:32:default", "stdcall"); !errors.Is(err, backend.ErrUnsupportedConv) {
		t.Fatalf("Project with unsupported convention = %v, want ErrUnsupportedConv", err)
	}
}

func TestProjectBuilderProjectWithResolvesByTuple(t *testing.T) {
	dir := t.TempDir()
	writeArchDef(t, dir, "fake.archdef", ""+
		"processor=fake\n"+
		"endian=LE\n"+
		"bits=32\n"+
		"variant=toy\n"+
		"factory=fake\n")

	pb, err := NewProjectBuilder(dir)
	if err != nil {
		t.Fatalf("NewProjectBuilder: %v", err)
	}

	p, err := pb.ProjectWith("demo", "fake", true, 32, "toy", "default")
	if err != nil {
		t.Fatalf("ProjectWith: %v", err)
	}
	if p.Name() != "demo" {
		t.Fatalf("Name() = %q, want demo", p.Name())
	}

	if _, err := pb.ProjectWith("demo", "fake", false, 32, "toy", "default"); !errors.Is(err, backend.ErrUnsupportedArch) {
		t.Fatalf("ProjectWith with wrong endianness = %v, want ErrUnsupportedArch", err)
	}
}

func TestNewProjectBuilderWithIgnoreErrorsSkipsMalformedDescriptors(t *testing.T) {
	dir := t.TempDir()
	writeArchDef(t, dir, "broken.archdef", "garbage\n")
	writeArchDef(t, dir, "fake.archdef", ""+
		"processor=fake\n"+
		"endian=LE\n"+
		"bits=32\n"+
		"factory=fake\n")

	if _, err := NewProjectBuilder(dir); err == nil {
		t.Fatalf("expected an error without ignoreErrors")
	}

	pb, err := NewProjectBuilderWith(dir, true)
	if err != nil {
		t.Fatalf("NewProjectBuilderWith(ignoreErrors=true): %v", err)
	}
	if _, err := pb.Project("demo", "fake:LE:32:default", "default"); err != nil {
		t.Fatalf("the well-formed descriptor should still have loaded: %v", err)
	}
}
