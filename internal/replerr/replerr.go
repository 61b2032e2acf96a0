// Package replerr defines errors raised while interpreting console input for
// the oracle REPL: either the input could not be understood, or it
// describes a gold action sequence that is invalid at the current parser
// state. Each error carries both an operator-facing message and a more
// technical one for logs.
package replerr

import "fmt"

// consoleError carries both a human-readable message to show the operator
// running the REPL and a more technical message for Error().
type consoleError struct {
	msg     string
	console string
	wrap    error
}

func (e *consoleError) Error() string {
	return e.msg
}

// ConsoleMessage gives the message that should be printed to the console to
// describe the error.
func (e *consoleError) ConsoleMessage() string {
	return e.console
}

func (e *consoleError) Unwrap() error {
	return e.wrap
}

// Console returns a new error with both a console-facing message and a
// technical description.
func Console(console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got replerr.Console(%q)", console)
	}
	return &consoleError{msg: technical, console: console}
}

// Consolef is Console with the console message built from a format string.
func Consolef(consoleFormat string, a ...interface{}) error {
	return Console(fmt.Sprintf(consoleFormat, a...), "")
}

// WrapConsole is Console but also wraps e for errors.Is/errors.As.
func WrapConsole(e error, console, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got replerr.Console(%q)", console)
	}
	return &consoleError{msg: technical, console: console, wrap: e}
}

// WrapConsolef is WrapConsole with the console message built from a format
// string.
func WrapConsolef(e error, consoleFormat string, a ...interface{}) error {
	return WrapConsole(e, fmt.Sprintf(consoleFormat, a...), "")
}

// ConsoleMessage gets the message to print to the console for err. If err is
// a replerr error, its console-facing message is returned; otherwise
// err.Error() is returned.
func ConsoleMessage(err error) string {
	if ce, ok := err.(*consoleError); ok {
		return ce.ConsoleMessage()
	}
	return err.Error()
}
