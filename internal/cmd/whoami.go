package cmd

import "github.com/chainvue/chainvue-cli/internal/output"

type WhoamiCmd struct{}

// methodNone is reported when the profile has no readable credentials.
const methodNone = "none"

type whoamiResult struct {
	Email        string    `json:"email"`
	Organization orgRecord `json:"organization"`
	Environment  string    `json:"environment"`
	AuthMethod   string    `json:"authMethod"`
	APIEndpoint  string    `json:"apiEndpoint"`
	Profile      string    `json:"profile"`
}

type orgRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Run reports the active identity from local state only.
func (c *WhoamiCmd) Run(flags *RootFlags) error {
	a, err := newApp(flags)
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

	method, hasCreds := methodNone, false

	if creds, err := a.credentials(); err == nil {
		if stored, err := creds.GetCredentials(name); err == nil {
			method, hasCreds = stored.Method(), true
		}
	}

	endpoint, err := a.sessions.APIEndpoint()
	if err != nil {
		return a.fail(err)
	}

	if a.mode.JSON {
		return a.writeJSON(whoamiResult{
			Email:        profile.Email,
			Organization: orgRecord{ID: profile.OrgID, Name: profile.OrgName},
			Environment:  profile.Environment,
			AuthMethod:   method,
			APIEndpoint:  endpoint,
			Profile:      name,
		})
	}

	a.ui.KeyValue(
		output.Field{Key: "Email", Value: profile.Email},
		output.Field{Key: "Organization", Value: profile.OrgName},
		output.Field{Key: "Org ID", Value: profile.OrgID},
		output.Field{Key: "Environment", Value: profile.Environment},
		output.Field{Key: "Auth Method", Value: authMethodLabel(method, hasCreds)},
		output.Field{Key: "API Endpoint", Value: endpoint},
		output.Field{Key: "Profile", Value: name},
	)

	return nil
}

func authMethodLabel(method string, hasCreds bool) string {
	if !hasCreds {
		return method + " (run chainvue login)"
	}

	return method
}
