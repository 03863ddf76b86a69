package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func newTestOps(t *testing.T) *Ops {
	t.Helper()
	return NewOps(newTestGuard(t))
}

func readBack(t *testing.T, o *Ops, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(o.guard.Root(), name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestWriteCreatesParents(t *testing.T) {
	o := newTestOps(t)

	if err := o.Write("notes/deep/today.md", "hello"); err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, o, "notes/deep/today.md"); got != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
}

func TestWriteOverwrites(t *testing.T) {
	o := newTestOps(t)

	if err := o.Write("a.txt", "first"); err != nil {
		t.Fatal(err)
	}
	if err := o.Write("a.txt", "second"); err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, o, "a.txt"); got != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestAppendSingleNewlineSeparator(t *testing.T) {
	o := newTestOps(t)

	if err := o.Write("log.md", "Hi World"); err != nil {
		t.Fatal(err)
	}
	if err := o.Append("log.md", "!!!"); err != nil {
		t.Fatal(err)
	}
	if got, want := readBack(t, o, "log.md"), "Hi World\n!!!"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestAppendToMissingFile(t *testing.T) {
	o := newTestOps(t)

	if err := o.Append("fresh.md", "Z"); err != nil {
		t.Fatal(err)
	}
	if got := readBack(t, o, "fresh.md"); got != "Z" {
		t.Errorf("content = %q, want %q", got, "Z")
	}
}

func TestAppendIsNotIdempotent(t *testing.T) {
	o := newTestOps(t)

	if err := o.Append("z.md", "Z"); err != nil {
		t.Fatal(err)
	}
	if err := o.Append("z.md", "Z"); err != nil {
		t.Fatal(err)
	}
	if got, want := readBack(t, o, "z.md"), "Z\nZ"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestEditFirstOccurrenceOnly(t *testing.T) {
	o := newTestOps(t)

	if err := o.Write("e.md", "aXbXc"); err != nil {
		t.Fatal(err)
	}
	if err := o.Edit("e.md", "X", "Y"); err != nil {
		t.Fatal(err)
	}
	if got, want := readBack(t, o, "e.md"), "aYbXc"; got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestEditTextNotFoundLeavesFileUntouched(t *testing.T) {
	o := newTestOps(t)

	original := "nothing to see here"
	if err := o.Write("e.md", original); err != nil {
		t.Fatal(err)
	}
	err := o.Edit("e.md", "X", "Y")
	if !errors.Is(err, ErrTextNotFound) {
		t.Fatalf("err = %v, want ErrTextNotFound", err)
	}
	if got := readBack(t, o, "e.md"); got != original {
		t.Errorf("file changed on failed edit: %q", got)
	}
}

func TestEditMissingFile(t *testing.T) {
	o := newTestOps(t)

	if err := o.Edit("absent.md", "X", "Y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	o := newTestOps(t)

	if _, err := o.Read("absent.md"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReadTruncatesLongContent(t *testing.T) {
	o := newTestOps(t)

	long := strings.Repeat("a", readCap+500)
	if err := o.Write("big.txt", long); err != nil {
		t.Fatal(err)
	}
	got, err := o.Read("big.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "(truncated)") {
		t.Error("expected truncation marker on long file")
	}
	if !strings.HasPrefix(got, long[:readCap]) {
		t.Error("truncated read should start with the original prefix")
	}
	// The stored file is never altered.
	if stored := readBack(t, o, "big.txt"); stored != long {
		t.Error("file on disk was modified by read")
	}
}

// Truncation must not split a multi-byte rune.
func TestReadTruncatesOnRuneBoundary(t *testing.T) {
	o := newTestOps(t)

	long := strings.Repeat("ü", readCap) // 2 bytes per rune
	if err := o.Write("notes.txt", long); err != nil {
		t.Fatal(err)
	}
	got, err := o.Read("notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated read is not valid UTF-8")
	}
	body := strings.TrimSuffix(got, "\n… (truncated)")
	if !strings.HasPrefix(long, body) {
		t.Error("truncated read must be a prefix of the file")
	}
}

func TestListEmptyAndCapped(t *testing.T) {
	o := newTestOps(t)

	got, err := o.List("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "(empty)" {
		t.Errorf("empty workspace listing = %q", got)
	}

	for i := 0; i < listCap+5; i++ {
		if err := o.Write(fmt.Sprintf("f%02d.txt", i), "x"); err != nil {
			t.Fatal(err)
		}
	}
	got, err = o.List("")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(got, "\n")
	if len(lines) != listCap+1 {
		t.Fatalf("listing has %d lines, want %d entries plus summary", len(lines), listCap+1)
	}
	if !strings.Contains(lines[len(lines)-1], "and 5 more") {
		t.Errorf("missing remainder summary, got %q", lines[len(lines)-1])
	}
}

func TestListSubdirectory(t *testing.T) {
	o := newTestOps(t)

	if err := o.Write("sub/a.txt", "x"); err != nil {
		t.Fatal(err)
	}
	got, err := o.List("sub")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "a.txt") {
		t.Errorf("listing = %q, want a.txt entry", got)
	}

	if _, err := o.List("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
