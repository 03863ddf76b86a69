// Package workspace sandboxes the command surface's file primitives to a
// single root directory and enforces the protected-file rules.
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// protectedFiles may never be written, appended to, or edited through the
// command surface, regardless of who asks. Reading them is allowed.
var protectedFiles = map[string]struct{}{
	".env":          {},
	"package.json":  {},
	"tsconfig.json": {},
	".gitignore":    {},
}

// Op classifies an access for guard purposes.
type Op int

const (
	// OpRead covers ls and cat.
	OpRead Op = iota
	// OpMutate covers write, append and edit.
	OpMutate
)

// PathViolation is returned when a requested path escapes the workspace or
// targets a protected file.
type PathViolation struct {
	Path   string
	Reason string
}

func (e *PathViolation) Error() string {
	return fmt.Sprintf("path %q rejected: %s", e.Path, e.Reason)
}

// Guard validates requested filenames and resolves them under the root.
//
// The check is lexical: ".." anywhere and absolute paths are rejected, then
// the remainder is joined to the root. Symlinks inside the workspace are not
// canonicalized before the check, so a symlink pointing outside the root can
// still escape. Known gap, kept to match the existing surface; fixing it is
// a behavior change for workspaces that rely on internal symlinks.
type Guard struct {
	root string
}

// NewGuard creates a guard for the given workspace root. The root should be
// absolute; relative roots are resolved against the working directory.
func NewGuard(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Guard{root: abs}, nil
}

// Root returns the workspace root the guard resolves against.
func (g *Guard) Root() string {
	return g.root
}

// Resolve validates filename for the given op and returns the absolute path
// inside the workspace. Any rejection is a *PathViolation.
func (g *Guard) Resolve(filename string, op Op) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", &PathViolation{Path: filename, Reason: "empty path"}
	}
	if strings.Contains(name, "..") {
		return "", &PathViolation{Path: filename, Reason: "parent directory traversal"}
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return "", &PathViolation{Path: filename, Reason: "absolute paths are not allowed"}
	}
	if op == OpMutate {
		if _, protected := protectedFiles[filepath.Clean(name)]; protected {
			return "", &PathViolation{Path: filename, Reason: "protected file"}
		}
	}
	return filepath.Join(g.root, name), nil
}
