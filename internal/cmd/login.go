package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/login"
	"github.com/chainvue/chainvue-cli/internal/output"
)

var (
	openBrowser = login.OpenBrowser

	// loginSleep replaces the poll loop's wait when set.
	loginSleep func(context.Context, time.Duration) error
)

type LoginCmd struct {
	APIKey    string `name:"api-key" help:"Log in with an API key instead of the browser"`
	NoBrowser bool   `name:"no-browser" help:"Print the verification URL without opening a browser"`
}

// loginResult is the --json shape of a successful login.
type loginResult struct {
	Profile      string           `json:"profile"`
	Email        string           `json:"email"`
	Organization api.Organization `json:"organization"`
	Environment  string           `json:"environment"`
	AuthMethod   string           `json:"authMethod"`
	Verified     bool             `json:"verified"`
}

func (c *LoginCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	name, profile, err := a.active()
	if err != nil {
		return a.fail(err)
	}

	if profile != nil {
		a.ui.Warn("Already logged in as %s", profile.Email)
		a.ui.Dim(`Run "chainvue logout" first to switch accounts`)

		return nil
	}

	client, err := a.client()
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	var out *login.Outcome

	method := auth.MethodSession

	if strings.TrimSpace(c.APIKey) != "" {
		method = auth.MethodAPIKey
		out, err = c.withAPIKey(ctx, a, client, name)
	} else {
		out, err = c.withDevice(ctx, a, client, name)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.ui.Warn("Login canceled")

			return &ExitError{Code: exitError, Err: err, Reported: true}
		}

		return a.fail(err)
	}

	if a.mode.JSON {
		return a.writeJSON(loginResult{
			Profile:      out.ProfileName,
			Email:        out.Profile.Email,
			Organization: api.Organization{ID: out.Profile.OrgID, Name: out.Profile.OrgName},
			Environment:  out.Profile.Environment,
			AuthMethod:   method,
			Verified:     out.Verified,
		})
	}

	c.report(a, out)

	return nil
}

func (c *LoginCmd) withAPIKey(ctx context.Context, a *app, client *api.Client, name string) (*login.Outcome, error) {
	creds, err := a.credentials()
	if err != nil {
		return nil, err
	}

	flow := &login.APIKeyLogin{
		API:         client,
		Credentials: creds,
		Sessions:    a.sessions,
		Profile:     name,
		Logger:      a.logger,
	}

	return flow.Run(ctx, c.APIKey)
}

func (c *LoginCmd) withDevice(ctx context.Context, a *app, client *api.Client, name string) (*login.Outcome, error) {
	creds, err := a.credentials()
	if err != nil {
		return nil, err
	}

	// Keep stdout clean for the JSON document.
	ui := a.ui
	if a.mode.JSON {
		ui = output.NewPrinter(stderr, stderr, a.ui.Profile())
	}

	flow := &login.DeviceFlow{
		API:         client,
		Credentials: creds,
		Sessions:    a.sessions,
		Profile:     name,
		Display:     func(code api.DeviceCode) { displayDeviceCode(ui, code) },
		Now:         now,
		Sleep:       loginSleep,
		Logger:      a.logger,
	}

	if !c.NoBrowser && !login.BrowserDisabled() {
		flow.OpenBrowser = openBrowser
	}

	return flow.Run(ctx)
}

func displayDeviceCode(ui *output.Printer, code api.DeviceCode) {
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, "To complete login, visit:")
	fmt.Fprintf(ui.Out, "  %s\n\n", ui.Cyan(code.VerificationURI))
	fmt.Fprintf(ui.Out, "And enter the code: %s\n\n", ui.Highlight(code.UserCode))
	ui.Info("Waiting for authorization...")
}

func (c *LoginCmd) report(a *app, out *login.Outcome) {
	if strings.TrimSpace(c.APIKey) != "" {
		a.ui.Success("Logged in with API key")
		a.ui.KeyValue(
			output.Field{Key: "Profile", Value: out.ProfileName},
			output.Field{Key: "Organization", Value: out.Profile.OrgName},
			output.Field{Key: "Environment", Value: out.Profile.Environment},
		)

		if !out.Verified {
			a.ui.Warn("Could not look up the key's organization; details will show once the server reports them")
		}

		return
	}

	fmt.Fprintln(a.ui.Out)
	a.ui.Success("Logged in as %s", out.Profile.Email)
	a.ui.Dim("Organization: %s", out.Profile.OrgName)

	if len(out.Organizations) > 1 {
		fmt.Fprintln(a.ui.Out)
		a.ui.Dim("You have access to %d organizations.", len(out.Organizations))
		a.ui.Dim("Switch with: chainvue org switch <orgId>")
	}
}
