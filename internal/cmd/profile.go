package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chainvue/chainvue-cli/internal/config"
	"github.com/chainvue/chainvue-cli/internal/login"
	"github.com/chainvue/chainvue-cli/internal/output"
)

type ProfileCmd struct {
	List   ProfileListCmd   `cmd:"" help:"List stored profiles"`
	Use    ProfileUseCmd    `cmd:"" help:"Make a profile current"`
	Delete ProfileDeleteCmd `cmd:"" help:"Delete a profile and its credentials"`
}

type profileRecord struct {
	Name           string `json:"name"`
	Current        bool   `json:"current"`
	HasCredentials bool   `json:"hasCredentials"`
	config.Profile
}

type ProfileListCmd struct{}

func (c *ProfileListCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	profiles, err := a.sessions.Profiles()
	if err != nil {
		return a.fail(err)
	}

	names, err := a.sessions.ProfileNames()
	if err != nil {
		return a.fail(err)
	}

	current, _, err := a.sessions.CurrentProfile()
	if err != nil {
		return a.fail(err)
	}

	stored := map[string]bool{}

	if creds, err := a.credentials(); err == nil {
		withCreds, err := creds.ListProfiles()
		if err != nil {
			a.logger.Debug("list keyring profiles", zap.Error(err))
		}

		for _, name := range withCreds {
			stored[name] = true
		}
	}

	records := make([]profileRecord, 0, len(names))
	for _, name := range names {
		records = append(records, profileRecord{
			Name:           name,
			Current:        name == current,
			HasCredentials: stored[name],
			Profile:        profiles[name],
		})
	}

	if a.mode.JSON {
		return a.writeJSON(records)
	}

	if len(records) == 0 {
		a.ui.Info("No profiles found")
		a.ui.Dim("Log in with: chainvue login")

		return nil
	}

	tbl := a.table()
	tbl.Header(output.ProfileHeaders...)

	for _, r := range records {
		marker := ""
		if r.Current {
			marker = "*"
		}

		email := r.Email
		if !r.HasCredentials {
			email += " (no credentials)"
		}

		tbl.AddRow(marker, r.Name, r.OrgName, email, r.Environment)
	}

	return tbl.Flush()
}

type ProfileUseCmd struct {
	Name string `arg:"" help:"Profile name"`
}

func (c *ProfileUseCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	if err := a.sessions.UseProfile(c.Name); err != nil {
		return a.fail(err)
	}

	a.ui.Success("Now using profile %s", c.Name)

	return nil
}

type ProfileDeleteCmd struct {
	Name string `arg:"" help:"Profile name"`
}

func (c *ProfileDeleteCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	name, err := config.NormalizeProfileName(c.Name)
	if err != nil {
		return a.usage(err.Error(), "")
	}

	_, profile, err := a.sessions.Active(name)
	if err != nil {
		return a.fail(err)
	}

	if profile == nil {
		return a.fail(fmt.Errorf("%w: %s", config.ErrProfileNotFound, name))
	}

	creds, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}

	if err := login.RemoveIdentity(creds, a.sessions, name); err != nil {
		return a.fail(err)
	}

	a.ui.Success("Deleted profile %s", name)

	return nil
}
