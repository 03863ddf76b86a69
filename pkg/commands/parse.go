package commands

import "strings"

// Sentinel prefixes every workspace command.
const Sentinel = ":h"

// editSeparator splits an edit command's argument tail into old and new
// text. The split is taken at the FIRST occurrence, so old/new text that
// itself contains "->" is truncated there. Long-standing surface behavior;
// kept as is.
const editSeparator = "->"

// HelpText is the reply for ":h help".
const HelpText = `Workspace commands:
:h ls [dir] - list files
:h cat <file> - show a file
:h write <file> <content> - create or overwrite a file
:h append <file> <content> - add to the end of a file
:h edit <file> <old> -> <new> - replace first occurrence
:h help - this summary`

// IsCommand reports whether text is addressed to the command surface.
func IsCommand(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == Sentinel || strings.HasPrefix(trimmed, Sentinel+" ")
}

// Parse turns a sentinel line into a Command. It returns (nil, nil) for text
// that is not a workspace command at all. A recognized sub-command with
// malformed arguments returns a *UsageError; an unrecognized sub-command
// parses successfully as Unknown.
func Parse(text string) (Command, error) {
	trimmed := strings.TrimSpace(text)
	if !IsCommand(trimmed) {
		return nil, nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, Sentinel))
	if rest == "" {
		return Prompt{}, nil
	}

	fields := strings.Fields(rest)
	sub, args := fields[0], fields[1:]

	switch sub {
	case "ls":
		dir := ""
		if len(args) > 0 {
			dir = args[0]
		}
		return List{Dir: dir}, nil

	case "cat", "read":
		if len(args) < 1 {
			return nil, &UsageError{Usage: ":h cat <file>"}
		}
		return Read{Filename: args[0]}, nil

	case "write":
		if len(args) < 2 {
			return nil, &UsageError{Usage: ":h write <file> <content>"}
		}
		return Write{Filename: args[0], Content: strings.Join(args[1:], " ")}, nil

	case "append":
		if len(args) < 2 {
			return nil, &UsageError{Usage: ":h append <file> <content>"}
		}
		return Append{Filename: args[0], Content: strings.Join(args[1:], " ")}, nil

	case "edit":
		if len(args) < 2 {
			return nil, &UsageError{Usage: ":h edit <file> <old> -> <new>"}
		}
		tail := strings.Join(args[1:], " ")
		before, after, found := strings.Cut(tail, editSeparator)
		if !found {
			return nil, &UsageError{Usage: ":h edit <file> <old> -> <new>"}
		}
		oldText := strings.TrimSpace(before)
		// Empty old text would make the replace a position-0 insert.
		if oldText == "" {
			return nil, &UsageError{Usage: ":h edit <file> <old> -> <new>"}
		}
		return Edit{
			Filename: args[0],
			OldText:  oldText,
			NewText:  strings.TrimSpace(after),
		}, nil

	case "help":
		return Help{}, nil

	default:
		return Unknown{Raw: rest}, nil
	}
}
