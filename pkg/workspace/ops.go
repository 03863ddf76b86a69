package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrNotFound is returned by Read and Edit when the file does not exist.
var ErrNotFound = errors.New("file not found")

// ErrTextNotFound is returned by Edit when the old text is not a literal
// substring of the file's current content. The file is left untouched.
var ErrTextNotFound = errors.New("text not found in file")

// listCap bounds how many entries List reports before summarizing the rest.
const listCap = 20

// readCap bounds how many characters Read returns; the stored file is never
// altered, only the reply is cut.
const readCap = 2000

// Ops executes the file primitives behind the guard. All paths pass through
// Guard.Resolve before any filesystem call.
type Ops struct {
	guard *Guard
}

// NewOps creates file primitives rooted at the guard's workspace.
func NewOps(guard *Guard) *Ops {
	return &Ops{guard: guard}
}

// List returns a human-readable listing of dir (workspace root when empty),
// capped at listCap entries with a remainder summary.
func (o *Ops) List(dir string) (string, error) {
	target := o.guard.Root()
	if strings.TrimSpace(dir) != "" {
		resolved, err := o.guard.Resolve(dir, OpRead)
		if err != nil {
			return "", err
		}
		target = resolved
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read directory: %w", err)
	}
	if len(entries) == 0 {
		return "(empty)", nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var sb strings.Builder
	shown := len(entries)
	if shown > listCap {
		shown = listCap
	}
	for _, entry := range entries[:shown] {
		if entry.IsDir() {
			sb.WriteString("📁 " + entry.Name() + "\n")
		} else {
			sb.WriteString("📄 " + entry.Name() + "\n")
		}
	}
	if rest := len(entries) - shown; rest > 0 {
		fmt.Fprintf(&sb, "… and %d more", rest)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// Read returns the file's content, truncated at readCap characters for the
// reply. ErrNotFound when absent.
func (o *Ops) Read(filename string) (string, error) {
	path, err := o.guard.Resolve(filename, OpRead)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read file: %w", err)
	}
	content := string(data)
	if len(content) > readCap {
		// back up to a rune boundary so the reply stays valid UTF-8
		cut := readCap
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut] + "\n… (truncated)"
	}
	return content, nil
}

// Write creates or overwrites the file with content, creating parent
// directories as needed. No backup is taken.
func (o *Ops) Write(filename, content string) error {
	path, err := o.guard.Resolve(filename, OpMutate)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Append adds content to the end of the file with exactly one newline
// between the old and new text. A missing file is not an error; Append then
// behaves like Write. Deliberately not idempotent: appending the same
// content twice stores it twice.
func (o *Ops) Append(filename, content string) error {
	path, err := o.guard.Resolve(filename, OpMutate)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read file: %w", err)
	}

	combined := content
	if len(existing) > 0 {
		combined = strings.TrimRight(string(existing), "\n") + "\n" + content
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(combined), 0o644); err != nil {
		return fmt.Errorf("append file: %w", err)
	}
	return nil
}

// Edit replaces the first occurrence of oldText with newText. ErrNotFound
// when the file is absent. ErrTextNotFound when oldText is not a literal
// substring; the file is left byte-for-byte unchanged in that case.
func (o *Ops) Edit(filename, oldText, newText string) error {
	path, err := o.guard.Resolve(filename, OpMutate)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read file: %w", err)
	}
	content := string(data)
	if !strings.Contains(content, oldText) {
		return ErrTextNotFound
	}
	updated := strings.Replace(content, oldText, newText, 1)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
