package login

import (
	"errors"
	"fmt"

	"github.com/chainvue/chainvue-cli/internal/auth"
)

// ProfileRemover deletes a stored profile.
type ProfileRemover interface {
	DeleteProfile(name string) (bool, error)
}

// PartialRemovalError reports that only one of the two stores was cleared.
type PartialRemovalError struct {
	Profile        string
	CredentialsErr error
	ProfileErr     error
}

func (e *PartialRemovalError) Error() string {
	if e.CredentialsErr != nil {
		return fmt.Sprintf("profile %q removed but its credentials could not be deleted: %v", e.Profile, e.CredentialsErr)
	}

	return fmt.Sprintf("credentials for %q removed but the profile could not be deleted: %v", e.Profile, e.ProfileErr)
}

func (e *PartialRemovalError) Unwrap() []error {
	return []error{e.CredentialsErr, e.ProfileErr}
}

// RemoveIdentity deletes the credentials and then the profile stored under
// name. Both deletions are always attempted.
func RemoveIdentity(creds auth.Store, sessions ProfileRemover, name string) error {
	credErr := creds.DeleteCredentials(name)
	_, profileErr := sessions.DeleteProfile(name)

	switch {
	case credErr == nil && profileErr == nil:
		return nil
	case credErr != nil && profileErr != nil:
		return fmt.Errorf("remove identity %q: %w", name, errors.Join(credErr, profileErr))
	default:
		return &PartialRemovalError{
			Profile:        name,
			CredentialsErr: credErr,
			ProfileErr:     profileErr,
		}
	}
}
