package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"github.com/chainvue/chainvue-cli/internal/config"
)

// Store holds secret material per profile name, separately from the session file.
type Store interface {
	SetCredentials(profile string, creds Credentials) error
	GetCredentials(profile string) (Credentials, error)
	DeleteCredentials(profile string) error
	ListProfiles() ([]string, error)
}

type KeyringStore struct {
	ring keyring.Keyring
}

const (
	ServiceName = "chainvue-cli"

	keyringPasswordEnv = "CHAINVUE_KEYRING_PASSWORD" //nolint:gosec // env var name
	keyringBackendEnv  = "CHAINVUE_KEYRING_BACKEND"  //nolint:gosec // env var name
	credentialsPrefix  = "credentials:"
)

var (
	ErrCredentialsNotFound = errors.New("credentials not found")

	errMissingProfile   = errors.New("missing profile name")
	errEmptyCredentials = errors.New("credentials contain neither api key nor access token")
	errNoTTY            = errors.New("no TTY available for keyring password prompt")
	errInvalidBackend   = errors.New("invalid keyring backend")
	errKeyringTimeout   = errors.New("keyring connection timed out")
	openKeyringFunc     = openKeyring
	keyringOpenFunc     = keyring.Open
)

// Singleton store to avoid multiple keychain prompts per process.
var (
	defaultStore     Store
	defaultStoreOnce sync.Once
	defaultStoreErr  error
)

const keyringOpenTimeout = 5 * time.Second

func openKeyring() (keyring.Keyring, error) {
	keyringDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, fmt.Errorf("ensure keyring dir: %w", err)
	}

	backend := normalizeBackend(os.Getenv(keyringBackendEnv))

	backends, err := allowedBackends(backend)
	if err != nil {
		return nil, err
	}

	dbusAddr := os.Getenv("DBUS_SESSION_BUS_ADDRESS")
	if shouldForceFileBackend(runtime.GOOS, backend, dbusAddr) {
		backends = []keyring.BackendType{keyring.FileBackend}
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: false,
		AllowedBackends:          backends,
		FileDir:                  keyringDir,
		FilePasswordFunc:         fileKeyringPasswordFunc(),
	}

	if shouldUseTimeout(runtime.GOOS, backend, dbusAddr) {
		return openKeyringWithTimeout(cfg, keyringOpenTimeout)
	}

	ring, err := keyringOpenFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	return ring, nil
}

func normalizeBackend(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func allowedBackends(backend string) ([]keyring.BackendType, error) {
	switch backend {
	case "", "auto":
		return nil, nil
	case "keychain":
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case "secret-service":
		return []keyring.BackendType{keyring.SecretServiceBackend}, nil
	case "wincred":
		return []keyring.BackendType{keyring.WinCredBackend}, nil
	case "file":
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errInvalidBackend, backend)
	}
}

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	return goos == "linux" && (backend == "" || backend == "auto") && dbusAddr == ""
}

func shouldUseTimeout(goos, backend, dbusAddr string) bool {
	return goos == "linux" && (backend == "" || backend == "auto") && dbusAddr != ""
}

func fileKeyringPasswordFunc() keyring.PromptFunc {
	password := os.Getenv(keyringPasswordEnv)
	if password != "" {
		return keyring.FixedStringPrompt(password)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return keyring.TerminalPrompt
	}

	return func(_ string) (string, error) {
		return "", fmt.Errorf("%w; set %s", errNoTTY, keyringPasswordEnv)
	}
}

type keyringResult struct {
	ring keyring.Keyring
	err  error
}

func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	ch := make(chan keyringResult, 1)

	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- keyringResult{ring, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("open keyring: %w", res.err)
		}

		return res.ring, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %v; set %s=file and %s=<password>",
			errKeyringTimeout, timeout, keyringBackendEnv, keyringPasswordEnv)
	}
}

func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func OpenDefault() (Store, error) {
	defaultStoreOnce.Do(func() {
		ring, err := openKeyringFunc()
		if err != nil {
			defaultStoreErr = err
			return
		}
		defaultStore = NewKeyringStore(ring)
	})

	return defaultStore, defaultStoreErr
}

func (s *KeyringStore) SetCredentials(profile string, creds Credentials) error {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return errMissingProfile
	}

	if !creds.Usable() {
		return errEmptyCredentials
	}

	payload, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := s.ring.Set(keyring.Item{
		Key:         credentialsKey(profile),
		Data:        payload,
		Label:       fmt.Sprintf("ChainVue CLI (%s)", profile),
		Description: "ChainVue CLI credentials",
	}); err != nil {
		return wrapKeychainError(fmt.Errorf("store credentials: %w", err))
	}

	return nil
}

func (s *KeyringStore) GetCredentials(profile string) (Credentials, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return Credentials{}, errMissingProfile
	}

	item, err := s.ring.Get(credentialsKey(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Credentials{}, fmt.Errorf("%w for profile %q", ErrCredentialsNotFound, profile)
		}

		return Credentials{}, wrapKeychainError(fmt.Errorf("read credentials: %w", err))
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials: %w", err)
	}

	return creds, nil
}

func (s *KeyringStore) DeleteCredentials(profile string) error {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return errMissingProfile
	}

	if err := s.ring.Remove(credentialsKey(profile)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return wrapKeychainError(fmt.Errorf("delete credentials: %w", err))
	}

	return nil
}

func (s *KeyringStore) ListProfiles() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keyring keys: %w", err)
	}

	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{})

	for _, k := range keys {
		profile, ok := ParseCredentialsKey(k)
		if !ok {
			continue
		}

		if _, exists := seen[profile]; exists {
			continue
		}

		seen[profile] = struct{}{}

		out = append(out, profile)
	}

	sort.Strings(out)

	return out, nil
}

func ParseCredentialsKey(k string) (string, bool) {
	if !strings.HasPrefix(k, credentialsPrefix) {
		return "", false
	}

	profile := strings.TrimPrefix(k, credentialsPrefix)
	if strings.TrimSpace(profile) == "" {
		return "", false
	}

	return profile, true
}

func credentialsKey(profile string) string {
	return credentialsPrefix + profile
}

func wrapKeychainError(err error) error {
	if err == nil {
		return nil
	}

	if IsKeychainLockedError(err.Error()) {
		return fmt.Errorf("%w\n\nYour macOS keychain is locked. Run:\n  security unlock-keychain ~/Library/Keychains/login.keychain-db", err)
	}

	return err
}

func IsKeychainLockedError(msg string) bool {
	return strings.Contains(msg, "keychain is locked") ||
		strings.Contains(msg, "The user name or passphrase you entered is not correct")
}
