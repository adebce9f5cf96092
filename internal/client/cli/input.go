package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.errOut, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptIfEmpty returns v, or asks for it when empty.
func (a *App) promptIfEmpty(v *string, label string) error {
	if strings.TrimSpace(*v) != "" {
		return nil
	}
	s, err := a.prompt(label)
	if err != nil {
		return err
	}
	*v = s
	return nil
}

// password reads a password without echo when stdin is a terminal, and as
// a plain line otherwise (pipes, tests).
func (a *App) password(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return a.prompt(label)
	}
	fmt.Fprintf(a.errOut, "%s: ", label)
	pw, err := readPassword(fd)
	fmt.Fprintln(a.errOut)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
