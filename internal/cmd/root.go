package cmd

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/chainvue/chainvue-cli/internal/errfmt"
)

type RootFlags struct {
	Profile string `help:"Profile to act on (default: current profile, or CHAINVUE_PROFILE)"`
	JSON    bool   `help:"Output JSON to stdout (best for scripting)"`
	Plain   bool   `help:"Output TSV (stable for scripts)"`
	Verbose bool   `short:"v" help:"Enable verbose logging to stderr"`
	Color   string `help:"Color output: auto, always or never" enum:"auto,always,never" default:"auto" env:"CHAINVUE_COLOR"`
}

type CLI struct {
	RootFlags `embed:""`

	Version    kong.VersionFlag `help:"Print version and exit"`
	Login      LoginCmd         `cmd:"" help:"Log in to ChainVue"`
	Logout     LogoutCmd        `cmd:"" help:"Log out of ChainVue"`
	Whoami     WhoamiCmd        `cmd:"" help:"Show current user and organization"`
	Keys       KeysCmd          `cmd:"" help:"Manage API keys"`
	Webhooks   WebhooksCmd      `cmd:"" help:"Manage webhooks"`
	Org        OrgCmd           `cmd:"" help:"Manage organizations"`
	Query      QueryCmd         `cmd:"" help:"Execute a GraphQL query"`
	Profiles   ProfileCmd       `cmd:"" name:"profile" help:"Manage local profiles"`
	Config     ConfigCmd        `cmd:"" help:"Manage configuration"`
	VersionCmd VersionCmd       `cmd:"" name:"version" help:"Print version"`
	Completion CompletionCmd    `cmd:"" help:"Generate shell completions"`
}

type exitPanic struct{ code int }

func Execute(args []string) (err error) {
	parser, err := newParser()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if ep, ok := r.(exitPanic); ok {
				if ep.code == 0 {
					err = nil

					return
				}

				err = &ExitError{Code: ep.code, Err: errors.New("exited"), Reported: true}

				return
			}

			panic(r)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		parsedErr := wrapParseError(err)
		_, _ = fmt.Fprintln(stderr, parsedErr)

		return parsedErr
	}

	err = kctx.Run()
	if err != nil && !reported(err) {
		_, _ = fmt.Fprint(stderr, errfmt.Format(err))
	}

	return err
}

func wrapParseError(err error) error {
	if err == nil {
		return nil
	}

	var parseErr *kong.ParseError
	if errors.As(err, &parseErr) {
		return &ExitError{Code: exitUsage, Err: parseErr, Reported: true}
	}

	return err
}

func newParser() (*kong.Kong, error) {
	vars := kong.Vars{
		"version": VersionString(),
	}

	cli := &CLI{}
	parser, err := kong.New(
		cli,
		kong.Name("chainvue"),
		kong.Description("ChainVue CLI - manage your ChainVue account from the command line"),
		kong.Vars(vars),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitPanic{code: code}) }),
		kong.Bind(&cli.RootFlags),
		kong.Help(helpPrinter),
		kong.ConfigureHelp(helpOptions()),
	)
	if err != nil {
		return nil, err
	}

	return parser, nil
}
