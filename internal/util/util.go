// Package util holds small generic helpers shared across the parser and its
// command-line tools.
package util

import "strings"

// MakeTextList joins items into an oxford-comma-separated list, used to
// render the list of valid commands in the REPL's HELP output.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}
