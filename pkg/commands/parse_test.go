package commands

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseNonCommand(t *testing.T) {
	for _, text := range []string{
		"hello there",
		"",
		"stop",
		":help me", // sentinel must be followed by a space or end of line
		"h ls",
	} {
		cmd, err := Parse(text)
		if cmd != nil || err != nil {
			t.Errorf("Parse(%q) = %v, %v; want nil, nil", text, cmd, err)
		}
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		text string
		want Command
	}{
		{":h", Prompt{}},
		{"  :h  ", Prompt{}},
		{":h ls", List{}},
		{":h ls notes", List{Dir: "notes"}},
		{":h cat today.md", Read{Filename: "today.md"}},
		{":h read today.md", Read{Filename: "today.md"}},
		{":h write test.md Hello World", Write{Filename: "test.md", Content: "Hello World"}},
		{":h append test.md !!!", Append{Filename: "test.md", Content: "!!!"}},
		{":h edit test.md Hello -> Hi", Edit{Filename: "test.md", OldText: "Hello", NewText: "Hi"}},
		{":h edit a.md two words -> one", Edit{Filename: "a.md", OldText: "two words", NewText: "one"}},
		{":h help", Help{}},
		{":h frobnicate x", Unknown{Raw: "frobnicate x"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.text, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseUsageErrors(t *testing.T) {
	for _, text := range []string{
		":h cat",
		":h read",
		":h write onlyfile",
		":h append onlyfile",
		":h edit file.md no separator here",
		":h edit file.md",
		":h edit file.md ->",
		":h edit file.md -> new",
	} {
		t.Run(text, func(t *testing.T) {
			cmd, err := Parse(text)
			if cmd != nil {
				t.Fatalf("Parse(%q) returned command %#v, want usage error", text, cmd)
			}
			var usage *UsageError
			if !errors.As(err, &usage) {
				t.Fatalf("Parse(%q) error = %v, want *UsageError", text, err)
			}
		})
	}
}

// The edit separator split happens at the first "->"; old or new text
// containing the sequence is truncated there. The test pins that behavior
// so a change to it is deliberate.
func TestParseEditFirstSeparatorWins(t *testing.T) {
	got, err := Parse(":h edit f.md a -> b -> c")
	if err != nil {
		t.Fatal(err)
	}
	want := Edit{Filename: "f.md", OldText: "a", NewText: "b -> c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}
