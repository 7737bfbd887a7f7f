package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/errfmt"
	"github.com/chainvue/chainvue-cli/internal/output"
)

// Seams replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	openSessions    = config.Open
	openCredentials = auth.OpenDefault
	now             = time.Now
)

// app bundles what a command needs: both stores, the output mode, the
// printer and the logger.
type app struct {
	flags    *RootFlags
	sessions *config.Store
	mode     output.Mode
	ui       *output.Printer
	logger   *zap.Logger

	creds auth.Store
}

func newApp(flags *RootFlags) (*app, error) {
	if flags == nil {
		flags = &RootFlags{}
	}

	sessions, err := openSessions()
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	mode, err := resolveOutputMode(flags, sessions)
	if err != nil {
		return nil, err
	}

	colorMode := flags.Color
	if mode.JSON || mode.Plain {
		colorMode = output.ColorNever
	}

	return &app{
		flags:    flags,
		sessions: sessions,
		mode:     mode,
		ui:       output.NewPrinter(stdout, stderr, output.ColorProfile(stdout, colorMode)),
		logger:   newLogger(flags.Verbose),
	}, nil
}

func resolveOutputMode(flags *RootFlags, sessions *config.Store) (output.Mode, error) {
	cfg, err := sessions.Read()
	if err != nil {
		return output.Mode{}, err
	}

	mode := output.Mode{}

	switch cfg.DefaultOutput {
	case "json":
		mode.JSON = true
	case "plain":
		mode.Plain = true
	}

	envMode := output.FromEnv()
	if envMode.JSON {
		mode = output.Mode{JSON: true}
	}

	if envMode.Plain {
		mode = output.Mode{Plain: true}
	}

	if flags.JSON && flags.Plain {
		return output.Mode{}, &ExitError{Code: exitUsage, Err: errors.New("cannot use both --json and --plain")}
	}

	if flags.JSON {
		mode = output.Mode{JSON: true}
	}

	if flags.Plain {
		mode = output.Mode{Plain: true}
	}

	return mode, nil
}

// profileName is the profile this invocation acts on.
func (a *app) profileName() (string, error) {
	return a.sessions.ResolveProfileName(a.flags.Profile)
}

// active returns the resolved profile name and its stored profile, which is
// nil when nobody is logged in under that name.
func (a *app) active() (string, *config.Profile, error) {
	name, err := a.profileName()
	if err != nil {
		return "", nil, err
	}

	return a.sessions.Active(name)
}

func (a *app) credentials() (auth.Store, error) {
	if a.creds != nil {
		return a.creds, nil
	}

	store, err := openCredentials()
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	a.creds = store

	return store, nil
}

func (a *app) client() (*api.Client, error) {
	name, err := a.profileName()
	if err != nil {
		return nil, err
	}

	creds, err := a.credentials()
	if err != nil {
		return nil, err
	}

	baseURL, err := a.sessions.APIEndpoint()
	if err != nil {
		return nil, err
	}

	graphqlURL, err := a.sessions.GraphQLEndpoint()
	if err != nil {
		return nil, err
	}

	return api.New(baseURL,
		api.WithGraphQLURL(graphqlURL),
		api.WithProfile(name),
		api.WithSessions(a.sessions),
		api.WithCredentials(creds),
		api.WithLogger(a.logger),
		api.WithVersion(version),
		api.WithNoticeWriter(stderr),
	), nil
}

func (a *app) writeJSON(v any) error {
	return output.WriteJSON(stdout, v)
}

func (a *app) table() output.TableWriter {
	return output.NewTableWriter(stdout, a.mode.Plain, a.ui.Bold)
}

// fail prints err with its hint and returns it marked as reported.
func (a *app) fail(err error) error {
	if err == nil {
		return nil
	}

	m := errfmt.Describe(err)
	a.ui.Error("%s", m.Text)

	if m.Hint != "" {
		a.ui.DimErr("%s", m.Hint)
	}

	return &ExitError{Code: exitCodeFor(err), Err: err, Reported: true}
}

// failf reports a failed action and returns err marked as reported.
func (a *app) failf(err error, action string) error {
	a.report(err, action)

	return &ExitError{Code: exitCodeFor(err), Err: err, Reported: true}
}

// report prints "<action>" with the cause and hint dimmed below it.
func (a *app) report(err error, action string) {
	m := errfmt.Describe(err)
	a.ui.Error("%s", action)
	a.ui.DimErr("%s", m.Text)

	if m.Hint != "" {
		a.ui.DimErr("%s", m.Hint)
	}
}

// usage reports invalid command input.
func (a *app) usage(msg, hint string) error {
	a.ui.Error("%s", msg)

	if hint != "" {
		a.ui.DimErr("%s", hint)
	}

	return &ExitError{Code: exitUsage, Err: errors.New(msg), Reported: true}
}

// notLoggedIn reports a command that needs a stored profile.
func (a *app) notLoggedIn() error {
	return a.fail(auth.ErrNotAuthenticated)
}

// commandContext is canceled on interrupt so in-flight requests and the
// login poll loop stop promptly.
var commandContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newClientApp is newApp plus an API client, for commands that talk to the
// server.
func newClientApp(flags *RootFlags) (*app, *api.Client, error) {
	a, err := newApp(flags)
	if err != nil {
		return nil, nil, err
	}

	client, err := a.client()
	if err != nil {
		return nil, nil, a.fail(err)
	}

	return a, client, nil
}
