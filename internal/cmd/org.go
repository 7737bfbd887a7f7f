package cmd

import (
	"fmt"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/output"
)

type OrgCmd struct {
	List    OrgListCmd    `cmd:"" help:"List your organizations"`
	Switch  OrgSwitchCmd  `cmd:"" help:"Switch the active profile to another organization"`
	Current OrgCurrentCmd `cmd:"" help:"Show the current organization"`
}

type OrgListCmd struct{}

func (c *OrgListCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.ListOrganizations(ctx)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to fetch organizations")
	}

	orgs := []api.Organization{}
	if res.Data != nil && res.Data.Organizations != nil {
		orgs = res.Data.Organizations
	}

	if a.mode.JSON {
		return a.writeJSON(orgs)
	}

	if len(orgs) == 0 {
		a.ui.Info("No organizations found")

		return nil
	}

	currentID := ""
	if _, profile, err := a.active(); err == nil && profile != nil {
		currentID = profile.OrgID
	}

	if a.mode.Plain {
		tbl := a.table()
		for _, org := range orgs {
			marker := ""
			if org.ID == currentID {
				marker = "*"
			}

			tbl.AddRow(marker, org.ID, org.Name, org.Role, org.Plan)
		}

		return tbl.Flush()
	}

	out := a.ui.Out
	fmt.Fprintln(out)

	for _, org := range orgs {
		if org.ID == currentID {
			fmt.Fprintf(out, "%s %s\n", a.ui.Cyan("▶"), a.ui.Bold(org.Name))
		} else {
			fmt.Fprintf(out, "  %s\n", org.Name)
		}

		fmt.Fprintf(out, "    ID: %s\n", org.ID)
		fmt.Fprintf(out, "    Role: %s  Plan: %s\n\n", org.Role, org.Plan)
	}

	return nil
}

type OrgSwitchCmd struct {
	OrgID string `arg:"" name:"orgId" help:"Organization ID"`
}

func (c *OrgSwitchCmd) Run(flags *RootFlags) error {
	a, client, err := newClientApp(flags)
	if err != nil {
		return err
	}

	name, profile, err := a.active()
	if err != nil {
		return a.fail(err)
	}

	if profile == nil {
		return a.notLoggedIn()
	}

	ctx, cancel := commandContext()
	defer cancel()

	res := client.GetOrganization(ctx, c.OrgID)
	if err := res.Err(); err != nil {
		return a.failf(err, "Failed to switch organization")
	}

	if res.Data == nil || res.Data.ID == "" {
		return a.failf(&api.APIError{StatusCode: res.Status, Message: "Organization not found or no access"}, "Failed to switch organization")
	}

	org := res.Data
	updated := *profile
	updated.OrgID = org.ID
	updated.OrgName = org.Name

	if err := a.sessions.UpdateProfile(name, updated); err != nil {
		return a.fail(err)
	}

	if a.mode.JSON {
		return a.writeJSON(orgRecord{ID: org.ID, Name: org.Name})
	}

	a.ui.Success("Switched to %s", org.Name)

	return nil
}

type OrgCurrentCmd struct{}

func (c *OrgCurrentCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}

	_, profile, err := a.active()
	if err != nil {
		return a.fail(err)
	}

	if profile == nil {
		return a.notLoggedIn()
	}

	if a.mode.JSON {
		return a.writeJSON(orgRecord{ID: profile.OrgID, Name: profile.OrgName})
	}

	a.ui.KeyValue(
		output.Field{Key: "Organization", Value: profile.OrgName},
		output.Field{Key: "ID", Value: profile.OrgID},
	)

	return nil
}
