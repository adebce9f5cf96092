// Package cli implements storyctl, a terminal front end for storyhub.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dalemusser/storyhub/internal/client"
	"github.com/spf13/pflag"
)

// DefaultServer is used when neither --server nor STORYHUB_SERVER is set.
const DefaultServer = "http://localhost:3000"

// App holds the streams and session a command runs against.
type App struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// newStore is a test seam for the session store.
	newStore func(path string) (client.SessionStore, error)

	session *client.Session
}

type command struct {
	summary string
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"health":   {"check that the server is reachable", (*App).health},
	"register": {"create an account and sign in", (*App).register},
	"login":    {"sign in", (*App).login},
	"logout":   {"forget the signed-in user", (*App).logout},
	"whoami":   {"show the signed-in user", (*App).whoami},
	"profile":  {"update name, phone or bio", (*App).profile},
	"stories":  {"list and filter stories", (*App).stories},
	"upload":   {"post a new story (directors)", (*App).upload},
	"delete":   {"delete a story by id", (*App).deleteStory},
}

// New returns an App reading from in and writing to out and errOut.
func New(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		newStore: func(path string) (client.SessionStore, error) {
			if path == "" {
				p, err := client.DefaultSessionPath()
				if err != nil {
					return nil, err
				}
				path = p
			}
			return client.NewFileStore(path), nil
		},
	}
}

// Run parses global flags, restores the session and runs one subcommand.
// It returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	fs := pflag.NewFlagSet("storyctl", pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.SetInterspersed(false)
	server := fs.String("server", envOr("STORYHUB_SERVER", DefaultServer), "storyhub server URL")
	sessionPath := fs.String("session", os.Getenv("STORYHUB_SESSION"), "session file (default: user config dir)")
	fs.Usage = func() { a.usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		a.usage(fs)
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(a.errOut, "storyctl: unknown command %q\n", name)
		a.usage(fs)
		return 2
	}

	api, err := client.New(*server)
	if err != nil {
		fmt.Fprintf(a.errOut, "storyctl: %v\n", err)
		return 2
	}
	store, err := a.newStore(*sessionPath)
	if err != nil {
		fmt.Fprintf(a.errOut, "storyctl: %v\n", err)
		return 1
	}
	a.session = client.NewSession(api, store)
	if err := a.session.Init(); err != nil {
		fmt.Fprintf(a.errOut, "storyctl: restore session: %v\n", err)
		return 1
	}

	if err := cmd.run(a, ctx, fs.Args()[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(a.errOut, "storyctl %s: %s\n", name, ue.msg)
			return 2
		}
		fmt.Fprintf(a.errOut, "storyctl %s: %s\n", name, client.UserMessage(err))
		return 1
	}
	return 0
}

func (a *App) usage(fs *pflag.FlagSet) {
	fmt.Fprintln(a.errOut, "usage: storyctl [--server URL] [--session FILE] <command> [flags]")
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(a.errOut, "  %-9s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(a.errOut)
	fmt.Fprintln(a.errOut, "global flags:")
	fmt.Fprint(a.errOut, fs.FlagUsages())
}

// usageError is a bad invocation rather than a failed operation.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func (a *App) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("storyctl "+name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
