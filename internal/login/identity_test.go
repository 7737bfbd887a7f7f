package login

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/require"

	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
)

var errLocked = errors.New("keychain locked")

type failingDeleteStore struct {
	auth.Store
}

func (failingDeleteStore) DeleteCredentials(string) error {
	return errLocked
}

func seedIdentity(t *testing.T) (auth.Store, *config.Store) {
	t.Helper()

	creds := auth.NewKeyringStore(keyring.NewArrayKeyring(nil))
	sessions := config.NewStore(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, persist(creds, sessions, "default",
		auth.Credentials{AccessToken: "t1", RefreshToken: "r1"},
		config.Profile{OrgID: "o1", OrgName: "Acme", Email: "a@b.com", Environment: "live"}))

	return creds, sessions
}

func TestRemoveIdentity(t *testing.T) {
	creds, sessions := seedIdentity(t)

	require.NoError(t, RemoveIdentity(creds, sessions, "default"))

	_, err := creds.GetCredentials("default")
	require.ErrorIs(t, err, auth.ErrCredentialsNotFound)

	name, profile, err := sessions.CurrentProfile()
	require.NoError(t, err)
	require.Equal(t, "default", name)
	require.Nil(t, profile)
}

func TestRemoveIdentityReportsPartialRemoval(t *testing.T) {
	creds, sessions := seedIdentity(t)

	err := RemoveIdentity(failingDeleteStore{Store: creds}, sessions, "default")

	var partial *PartialRemovalError
	require.ErrorAs(t, err, &partial)
	require.ErrorIs(t, err, errLocked)
	require.Contains(t, err.Error(), "credentials could not be deleted")

	_, profile, err := sessions.CurrentProfile()
	require.NoError(t, err)
	require.Nil(t, profile)
}

var errDiskFull = errors.New("disk full")

type failingProfileWriter struct{}

func (failingProfileWriter) SetCurrentProfile(string, config.Profile) error {
	return errDiskFull
}

func TestPersistRollsBackCredentials(t *testing.T) {
	creds := auth.NewKeyringStore(keyring.NewArrayKeyring(nil))

	err := persist(creds, failingProfileWriter{}, "default", auth.Credentials{AccessToken: "t1"}, config.Profile{OrgID: "o1"})
	require.ErrorIs(t, err, errDiskFull)
	require.NotContains(t, err.Error(), "roll back")

	_, err = creds.GetCredentials("default")
	require.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func TestPersistReportsFailedRollback(t *testing.T) {
	creds := auth.NewKeyringStore(keyring.NewArrayKeyring(nil))

	err := persist(failingDeleteStore{Store: creds}, failingProfileWriter{}, "default",
		auth.Credentials{AccessToken: "t1"}, config.Profile{OrgID: "o1"})
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, err, errLocked)
	require.Contains(t, err.Error(), `roll back credentials for "default"`)
}
