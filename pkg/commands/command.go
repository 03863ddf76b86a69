// Package commands parses the ":h" workspace command surface into typed
// command values.
package commands

// Command is the closed set of workspace commands. Each variant carries
// exactly the arguments its executor needs; dispatch is an exhaustive type
// switch so a new variant cannot be silently unhandled.
type Command interface {
	isCommand()
}

// List shows workspace directory contents. Dir may be empty (workspace root).
type List struct {
	Dir string
}

// Read returns a file's contents.
type Read struct {
	Filename string
}

// Write overwrites (or creates) a file with Content.
type Write struct {
	Filename string
	Content  string
}

// Append adds Content to the end of a file, separated by one newline.
type Append struct {
	Filename string
	Content  string
}

// Edit replaces the first occurrence of OldText with NewText in a file.
type Edit struct {
	Filename string
	OldText  string
	NewText  string
}

// Help requests the command summary.
type Help struct{}

// Prompt is a bare sentinel with no sub-command; answered with a short
// nudge rather than an error.
type Prompt struct{}

// Unknown is a sentinel line whose sub-command is not recognized.
type Unknown struct {
	Raw string
}

func (List) isCommand()    {}
func (Read) isCommand()    {}
func (Write) isCommand()   {}
func (Append) isCommand()  {}
func (Edit) isCommand()    {}
func (Help) isCommand()    {}
func (Prompt) isCommand()  {}
func (Unknown) isCommand() {}

// UsageError reports a structurally invalid command: right sub-command,
// wrong arguments. Usage holds the hint shown to the user.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}
