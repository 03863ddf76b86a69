package workspace

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	g, err := NewGuard(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestResolveRejections(t *testing.T) {
	g := newTestGuard(t)

	tests := []struct {
		name string
		path string
		op   Op
	}{
		{"parent traversal", "../x", OpRead},
		{"embedded traversal", "notes/../../x", OpRead},
		{"absolute path", "/etc/passwd", OpRead},
		{"protected env file", ".env", OpMutate},
		{"protected package.json", "package.json", OpMutate},
		{"protected tsconfig", "tsconfig.json", OpMutate},
		{"protected gitignore", ".gitignore", OpMutate},
		{"dot-slash protected", "./.env", OpMutate},
		{"empty path", "", OpRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Resolve(tt.path, tt.op)
			var violation *PathViolation
			if !errors.As(err, &violation) {
				t.Errorf("Resolve(%q) err = %v, want *PathViolation", tt.path, err)
			}
		})
	}
}

func TestResolveAccepts(t *testing.T) {
	g := newTestGuard(t)

	got, err := g.Resolve("notes/today.md", OpMutate)
	if err != nil {
		t.Fatalf("Resolve rejected a normal path: %v", err)
	}
	want := filepath.Join(g.Root(), "notes", "today.md")
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

// Protected files are read-only through the command surface, not invisible.
func TestProtectedFilesReadable(t *testing.T) {
	g := newTestGuard(t)

	if _, err := g.Resolve(".env", OpRead); err != nil {
		t.Errorf("reading a protected file should be allowed, got %v", err)
	}
	if _, err := g.Resolve(".env", OpMutate); err == nil {
		t.Error("mutating a protected file should be rejected")
	}
}
