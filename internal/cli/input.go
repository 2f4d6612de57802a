package cli

import (
	"strings"

	"hytech_pos/internal/register"
)

// Escape sequences terminals send for the register's shortcut keys.
var keySequences = map[string]register.Key{
	"\x1bOQ":   register.KeyF2,
	"\x1b[12~": register.KeyF2,
	"\x1b[[B":  register.KeyF2,
	"\x1b[15~": register.KeyF5,
	"\x1b[[E":  register.KeyF5,
	"\x1b":     register.KeyEscape,
}

var keyNames = map[string]register.Key{
	"f2":     register.KeyF2,
	"f5":     register.KeyF5,
	"esc":    register.KeyEscape,
	"escape": register.KeyEscape,
}

// parseKey reports whether an input line is a shortcut rather than text.
func parseKey(line string) (register.Key, bool) {
	trimmed := strings.TrimSpace(line)
	if key, ok := keySequences[trimmed]; ok {
		return key, true
	}
	key, ok := keyNames[strings.ToLower(trimmed)]
	return key, ok
}

type command struct {
	name string
	arg  string
}

// parseCommand splits "/ask how much?" into name "ask" and its argument.
func parseCommand(line string) (command, bool) {
	if !strings.HasPrefix(line, "/") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}
