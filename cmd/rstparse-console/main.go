/*
Rstparse-console starts an interactive session for stepping a discourse
parser state through a gold action sequence by hand.

It reads in a document descriptor file and starts the parser in its initial
state. The console then reads one action label per line from stdin (using
github.com/chzyer/readline for line editing) and, for each one, reports the feature
set that would be extracted for it, whether the action is valid in the
current state, and the resulting stack/queue after applying it.

Usage:

	rstparse-console [flags] DOCUMENT_FILE

The flags are:

	-v, --version
		Give the current version of the discourse parser console and exit.

Once a session has started, input is read as one action label per line, in
"shift", "unary:LABEL", or "binary:LABEL" form. Type "QUIT" to exit, "HELP"
for a reminder of the available commands, and "STATE" to reprint the current
stack and queue without applying an action.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/mmelodious/discourse-parsing/internal/document"
	"github.com/mmelodious/discourse-parsing/internal/docio"
	"github.com/mmelodious/discourse-parsing/internal/replerr"
	"github.com/mmelodious/discourse-parsing/internal/rst"
	"github.com/mmelodious/discourse-parsing/internal/util"
	"github.com/mmelodious/discourse-parsing/internal/version"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitLoadError
	ExitInputError
)

var flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the console and exit.")

var validCommands = []string{"shift", "unary:LABEL", "binary:LABEL", "STATE", "HELP", "QUIT"}

func main() {
	os.Exit(run())
}

func run() int {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("rstparse-console (discourse-parsing v%s)\n", version.Current)
		return ExitSuccess
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: rstparse-console DOCUMENT_FILE\nDo -h for help.\n")
		return ExitUsageError
	}

	docCtx, err := docio.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not load document: %s\n", err.Error())
		return ExitLoadError
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "rst> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not start readline: %s\n", err.Error())
		return ExitLoadError
	}
	defer rl.Close()

	state := rst.NewInitialState(docCtx)
	fmt.Printf("Loaded document with %d EDU(s). Type HELP for commands.\n", docCtx.NumEDUs())
	printState(state)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "ERROR: reading input: %s\n", err.Error())
			return ExitInputError
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToUpper(line) {
		case "QUIT":
			return ExitSuccess
		case "HELP":
			fmt.Printf("Valid commands: %s\n", util.MakeTextList(append([]string(nil), validCommands...)))
			continue
		case "STATE":
			printState(state)
			continue
		}

		if state.IsTerminal() {
			fmt.Println(replerr.ConsoleMessage(replerr.Console("the parse is already complete; type QUIT to exit", "")))
			continue
		}

		next, err := step(state, docCtx, line)
		if err != nil {
			fmt.Println(replerr.ConsoleMessage(err))
			continue
		}
		state = next
		printState(state)
	}
}

// step extracts and prints the feature set for state, validates the action
// named by label against it, and applies it if valid.
func step(state *rst.State, docCtx *document.Context, label string) (*rst.State, error) {
	act, err := parseConsoleAction(label)
	if err != nil {
		return nil, replerr.WrapConsolef(err, "%q is not a recognized action (try HELP)", label)
	}

	feats := rst.ExtractFeatures(state, docCtx)
	fmt.Printf("features: %s\n", feats.StringOrdered())

	if !rst.IsValid(act, state) {
		return nil, replerr.Consolef("action %q is not valid in the current state", act.String())
	}

	next, err := rst.Apply(act, state)
	if err != nil {
		return nil, replerr.WrapConsolef(err, "could not apply %q: %s", act.String(), err.Error())
	}
	return next, nil
}

// parseConsoleAction parses the operator-facing "shift", "unary:LABEL", or
// "binary:LABEL" command forms documented in this binary's usage text into
// an rst.Action. This is distinct from rst.ParseActionLabel, which parses
// the canonical "<type>:<label>" form a classifier's label list uses.
func parseConsoleAction(cmd string) (rst.Action, error) {
	typePart, label, hasLabel := strings.Cut(cmd, ":")

	switch strings.ToLower(typePart) {
	case "shift":
		if hasLabel {
			return rst.Action{}, fmt.Errorf("shift takes no label")
		}
		return rst.Action{Type: rst.Shift, Label: "text"}, nil
	case "unary":
		if !hasLabel || label == "" {
			return rst.Action{}, fmt.Errorf("unary requires a LABEL, e.g. unary:nucleus:span")
		}
		return rst.Action{Type: rst.Unary, Label: label}, nil
	case "binary":
		if !hasLabel || label == "" {
			return rst.Action{}, fmt.Errorf("binary requires a LABEL, e.g. binary:elaboration")
		}
		return rst.Action{Type: rst.Binary, Label: label}, nil
	default:
		return rst.Action{}, fmt.Errorf("unknown command %q", typePart)
	}
}

func printState(s *rst.State) {
	if s.IsTerminal() {
		fmt.Println("parse complete:")
		fmt.Println(rst.TableString([]rst.ScoredTree{{Tree: s.Tree(), Score: s.Score}}))
		return
	}
	fmt.Printf("stack: %d item(s), queue: %d item(s)\n", len(s.Stack), len(s.Queue))
}
