package cmd

import (
	"github.com/chainvue/chainvue-cli/internal/login"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	name, profile, err := a.active()
	if err != nil {
		return a.fail(err)
	}

	if profile == nil {
		a.ui.Warn("Not currently logged in")

		return nil
	}

	creds, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}

	if err := login.RemoveIdentity(creds, a.sessions, name); err != nil {
		return a.fail(err)
	}

	a.ui.Success("Logged out from %s", profile.Email)

	return nil
}
