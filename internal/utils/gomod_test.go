package utils

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/shapes\n\ngo 1.23\n")
	writeFile(t, filepath.Join(root, "a", "b", "x.go"), "package b\n")

	parser := NewGoModParser(NewFileReader())

	goMod, err := parser.FindGoModFile(filepath.Join(root, "a", "b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if goMod != filepath.Join(root, "go.mod") {
		t.Errorf("expected %s, got %s", filepath.Join(root, "go.mod"), goMod)
	}

	name, err := parser.ParseModuleName(goMod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "example.com/shapes" {
		t.Errorf("expected example.com/shapes, got %s", name)
	}
}

func TestGoModParser_Errors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "go 1.23\n")
	parser := NewGoModParser(NewFileReader())

	if _, err := parser.ParseModuleName(filepath.Join(root, "go.mod")); err == nil || !strings.Contains(err.Error(), "no module declaration") {
		t.Errorf("expected missing module error, got %v", err)
	}
	if _, err := parser.ParseModuleName(filepath.Join(root, "other.txt")); err == nil {
		t.Error("expected error for a non go.mod path")
	}
}

func TestValidateModulePath(t *testing.T) {
	valid := []string{"example.com/shapes", "github.com/toyz/vtable"}
	for _, path := range valid {
		if err := ValidateModulePath(path); err != nil {
			t.Errorf("%s: unexpected error %v", path, err)
		}
	}

	invalid := []string{"", "/abs", "has space/x", "example.com/../x"}
	for _, path := range invalid {
		if err := ValidateModulePath(path); err == nil {
			t.Errorf("%s: expected error", path)
		}
	}
}
