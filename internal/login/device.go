package login

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainvue/chainvue-cli/internal/api"
	"github.com/chainvue/chainvue-cli/internal/auth"
	"github.com/chainvue/chainvue-cli/internal/config"
)

const (
	MinPollInterval = 5 * time.Second
	slowDownStep    = 5 * time.Second

	codePending  = "authorization_pending"
	codeSlowDown = "slow_down"
	codeDenied   = "access_denied"
)

var (
	ErrExpired = errors.New("authorization timed out")
	ErrDenied  = errors.New("authorization denied")

	errNoOrganizations = errors.New("no organizations available for this account")
)

type State int

const (
	StateRequesting State = iota
	StateDisplayed
	StatePolling
	StateAuthorized
	StateDenied
	StateExpired
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateDisplayed:
		return "displayed"
	case StatePolling:
		return "polling"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	case StateExpired:
		return "expired"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FlowError is a terminal denial or failure reported by the server. Message
// is shown to the user as is.
type FlowError struct {
	State   State
	Status  int
	Message string
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Is(target error) bool {
	return target == ErrDenied && e.State == StateDenied
}

func (e *FlowError) ExitCode() int {
	if e.State == StateDenied {
		return api.ExitAuth
	}

	return api.ExitError
}

// DeviceAPI is the subset of the API client the device flow needs.
type DeviceAPI interface {
	RequestDeviceCode(ctx context.Context) api.Result[api.DeviceCode]
	PollDeviceToken(ctx context.Context, deviceCode string) api.Result[api.DeviceToken]
}

// ProfileWriter persists a profile and makes it current.
type ProfileWriter interface {
	SetCurrentProfile(name string, p config.Profile) error
}

type PollKind int

const (
	PollPending PollKind = iota
	PollAuthorized
	PollFailed
)

// PollResult is the single classification of one token poll.
type PollResult struct {
	Kind     PollKind
	Grant    *api.DeviceToken
	SlowDown bool
	Denied   bool
	Status   int
	Message  string
}

// ClassifyPoll maps a token poll response to Pending, Authorized or Failed.
// The pending code is honored both in a 2xx body and as the error of a
// failed response.
func ClassifyPoll(res api.Result[api.DeviceToken]) PollResult {
	code := ""
	if res.Data != nil {
		code = res.Data.Error
	}

	if code == "" && !res.OK {
		code = res.Error
	}

	switch code {
	case codePending:
		return PollResult{Kind: PollPending, Status: res.Status}
	case codeSlowDown:
		return PollResult{Kind: PollPending, SlowDown: true, Status: res.Status}
	}

	if res.OK && res.Data != nil && res.Data.AccessToken != "" {
		return PollResult{Kind: PollAuthorized, Grant: res.Data, Status: res.Status}
	}

	msg := code
	if res.Data != nil && res.Data.ErrorDescription != "" {
		msg = res.Data.ErrorDescription
	}

	if msg == "" {
		msg = "unexpected response from token endpoint"
	}

	return PollResult{
		Kind:    PollFailed,
		Denied:  code == codeDenied,
		Status:  res.Status,
		Message: msg,
	}
}

// PollInterval clamps the server-requested interval to MinPollInterval.
func PollInterval(seconds int) time.Duration {
	return max(time.Duration(seconds)*time.Second, MinPollInterval)
}

// Outcome describes a completed login.
type Outcome struct {
	ProfileName   string
	Profile       config.Profile
	User          api.User
	Organizations []api.Organization
	Verified      bool
}

// DeviceFlow runs one device authorization exchange. The session lives only
// in memory; an interrupted flow has to start over.
type DeviceFlow struct {
	API         DeviceAPI
	Credentials auth.Store
	Sessions    ProfileWriter
	Profile     string

	// Display presents the user code and verification URL.
	Display func(api.DeviceCode)
	// OpenBrowser is called with the verification URL when set.
	OpenBrowser func(string) error

	Now    func() time.Time
	Sleep  func(context.Context, time.Duration) error
	Logger *zap.Logger

	state State
}

func (f *DeviceFlow) State() State {
	return f.state
}

func (f *DeviceFlow) setDefaults() {
	if f.Now == nil {
		f.Now = time.Now
	}

	if f.Sleep == nil {
		f.Sleep = sleepContext
	}

	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}

	if f.Profile == "" {
		f.Profile = config.DefaultProfileName
	}
}

func (f *DeviceFlow) transition(s State) {
	f.Logger.Debug("device flow", zap.Stringer("from", f.state), zap.Stringer("to", s))
	f.state = s
}

// Run drives the flow to a terminal state. Credentials and profile are
// written only when the flow ends authorized.
func (f *DeviceFlow) Run(ctx context.Context) (*Outcome, error) {
	f.setDefaults()
	f.state = StateRequesting

	res := f.API.RequestDeviceCode(ctx)
	if !res.OK || res.Data == nil || res.Data.DeviceCode == "" {
		f.transition(StateFailed)

		msg := res.Error
		if msg == "" {
			msg = "invalid device code response"
		}

		return nil, &FlowError{State: StateFailed, Status: res.Status, Message: msg}
	}

	code := *res.Data
	expiresAt := f.Now().Add(time.Duration(code.ExpiresIn) * time.Second)
	interval := PollInterval(code.Interval)

	f.transition(StateDisplayed)

	if f.Display != nil {
		f.Display(code)
	}

	if f.OpenBrowser != nil && code.VerificationURI != "" {
		if err := f.OpenBrowser(code.VerificationURI); err != nil {
			f.Logger.Debug("open browser", zap.Error(err))
		}
	}

	f.transition(StatePolling)

	for attempt := 1; f.Now().Before(expiresAt); attempt++ {
		if err := f.Sleep(ctx, interval); err != nil {
			f.transition(StateFailed)

			return nil, err
		}

		if !f.Now().Before(expiresAt) {
			break
		}

		poll := ClassifyPoll(f.API.PollDeviceToken(ctx, code.DeviceCode))
		f.Logger.Debug("device token poll",
			zap.Int("attempt", attempt),
			zap.Int("status", poll.Status),
			zap.Int("kind", int(poll.Kind)),
			zap.Duration("interval", interval),
		)

		switch poll.Kind {
		case PollPending:
			if poll.SlowDown {
				interval += slowDownStep
			}

			continue
		case PollAuthorized:
			return f.complete(*poll.Grant)
		case PollFailed:
			state := StateFailed
			if poll.Denied {
				state = StateDenied
			}

			f.transition(state)

			return nil, &FlowError{State: state, Status: poll.Status, Message: poll.Message}
		}
	}

	f.transition(StateExpired)

	return nil, ErrExpired
}

func (f *DeviceFlow) complete(grant api.DeviceToken) (*Outcome, error) {
	if len(grant.Organizations) == 0 {
		f.transition(StateFailed)

		return nil, &FlowError{State: StateFailed, Message: errNoOrganizations.Error()}
	}

	org := grant.Organizations[0]
	profile := config.Profile{
		OrgID:       org.ID,
		OrgName:     org.Name,
		Email:       grant.User.Email,
		UserID:      grant.User.ID,
		Environment: config.EnvLive,
	}

	if err := persist(f.Credentials, f.Sessions, f.Profile, auth.FromToken(grant.Token()), profile); err != nil {
		f.transition(StateFailed)

		return nil, err
	}

	f.transition(StateAuthorized)

	return &Outcome{
		ProfileName:   f.Profile,
		Profile:       profile,
		User:          grant.User,
		Organizations: grant.Organizations,
		Verified:      true,
	}, nil
}

// persist writes credentials, then the profile. A failed profile write rolls
// the credentials back so no half-written identity remains.
func persist(creds auth.Store, sessions ProfileWriter, name string, c auth.Credentials, p config.Profile) error {
	if err := creds.SetCredentials(name, c); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	if err := sessions.SetCurrentProfile(name, p); err != nil {
		err = fmt.Errorf("save profile: %w", err)

		if rerr := creds.DeleteCredentials(name); rerr != nil {
			return errors.Join(err, fmt.Errorf("roll back credentials for %q: %w", name, rerr))
		}

		return err
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sleep interrupted: %w", ctx.Err())
	}
}
