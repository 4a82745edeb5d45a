// Package session holds the process-wide authentication state: who is signed
// in, and whether a login is still in flight.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/educrm/educrm-hub/internal/application/store"
	"github.com/educrm/educrm-hub/internal/domain/identity"
	"github.com/educrm/educrm-hub/internal/domain/shared"
	"github.com/educrm/educrm-hub/internal/infrastructure/metrics"
	"github.com/educrm/educrm-hub/internal/infrastructure/security"
	"github.com/educrm/educrm-hub/pkg/logger"
)

// Name identifies the session store in logs, metrics and change events.
const Name = "session"

// State is the session state machine position.
type State string

const (
	Anonymous      State = "anonymous"
	Authenticating State = "authenticating"
	Authenticated  State = "authenticated"
)

// Snapshot is an immutable view of the session.
type Snapshot struct {
	State    State             `json:"state"`
	Identity identity.Identity `json:"identity"` // zero unless State is Authenticated
	Pending  bool              `json:"pending"`
	Change   shared.Change     `json:"change"`
}

// Authenticated reports whether an identity is signed in.
func (s Snapshot) Authenticated() bool {
	return s.State == Authenticated
}

// Config configures a Store.
type Config struct {
	Directory *identity.Directory
	Verifier  security.Verifier

	// LoginDelay stands in for the round trip of a remote credential check.
	LoginDelay time.Duration

	// DemoMode enables SetDemoUser.
	DemoMode bool
}

// Store is the session store. It is safe for concurrent use.
type Store struct {
	cfg  Config
	core *store.Core[Snapshot]
	log  *logger.Logger

	// guarded by core
	current       identity.Identity
	authenticated bool
	pending       int
}

// New creates a Store in the Anonymous state.
func New(cfg Config, opts store.Options) (*Store, error) {
	if cfg.Directory == nil {
		return nil, errors.New("session: directory is required")
	}
	if cfg.Verifier == nil {
		return nil, errors.New("session: verifier is required")
	}
	core := store.NewCore[Snapshot](Name, opts)
	return &Store{cfg: cfg, core: core, log: core.Logger()}, nil
}

// Login checks username and password against the directory after the
// configured delay. While any login is in flight the snapshot reports
// Pending. When overlapping logins resolve, the last one to resolve decides
// the identity.
//
// Login returns false with a nil error for bad credentials. If ctx ends
// before the check completes the session resolves to Anonymous and ctx.Err()
// is returned.
func (s *Store) Login(ctx context.Context, username, password string) (bool, error) {
	_, ok, err := s.login(ctx, "Login", username, password)
	return ok, err
}

// LoginAs is Login with the role the user picked. The role is advisory: a
// mismatch with the directory entry is logged and the login still succeeds.
func (s *Store) LoginAs(ctx context.Context, username, password string, role identity.Role) (bool, error) {
	id, ok, err := s.login(ctx, "LoginAs", username, password)
	if ok && id.Role != role {
		s.log.Warn("login role does not match directory role",
			logger.Username(username),
			logger.Role(string(role)),
			logger.String("directory_role", string(id.Role)),
		)
	}
	return ok, err
}

func (s *Store) login(ctx context.Context, op, username, password string) (identity.Identity, bool, error) {
	_ = s.commit(op+".begin", func() (string, error) {
		s.pending++
		s.current, s.authenticated = identity.Identity{}, false
		return "", nil
	})

	if err := s.wait(ctx); err != nil {
		s.resolve(op+".cancel", identity.Identity{}, false)
		s.core.Metrics().RecordLogin(metrics.LoginCancelled)
		s.log.Info("login cancelled", logger.Username(username), logger.Err(err))
		return identity.Identity{}, false, err
	}

	entry, found := s.cfg.Directory.Lookup(username)
	if !found || !s.cfg.Verifier.Verify(entry, password) {
		s.resolve(op+".reject", identity.Identity{}, false)
		s.core.Metrics().RecordLogin(metrics.LoginRejected)
		s.log.Warn("login rejected", logger.Username(username), logger.Bool("known_user", found))
		return identity.Identity{}, false, nil
	}

	s.resolve(op+".accept", entry.Identity, true)
	s.core.Metrics().RecordLogin(metrics.LoginSucceeded)
	s.log.Info("login succeeded", logger.Username(username), logger.Role(string(entry.Role)))
	return entry.Identity, true, nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.cfg.LoginDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.cfg.LoginDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) resolve(op string, id identity.Identity, ok bool) {
	_ = s.commit(op, func() (string, error) {
		s.pending--
		s.current, s.authenticated = id, ok
		return id.ID, nil
	})
}

// Logout clears the identity. Logins still in flight are unaffected and may
// sign a user in when they resolve.
func (s *Store) Logout() {
	_ = s.commit("Logout", func() (string, error) {
		s.current, s.authenticated = identity.Identity{}, false
		return "", nil
	})
}

// SetDemoUser signs in the first directory identity holding role, without a
// credential check. It only works in demo mode.
func (s *Store) SetDemoUser(role identity.Role) error {
	if !s.cfg.DemoMode {
		return shared.ErrDemoModeDisabled
	}
	entry, ok := s.cfg.Directory.FirstWithRole(role)
	if !ok {
		return shared.ErrNoIdentityForRole
	}
	return s.commit("SetDemoUser", func() (string, error) {
		s.current, s.authenticated = entry.Identity, true
		return entry.ID, nil
	})
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (identity.Identity, bool) {
	snap := s.Snapshot()
	return snap.Identity, snap.Authenticated()
}

// State returns the current state machine position.
func (s *Store) State() State {
	return s.Snapshot().State
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	s.core.Read(func(last shared.Change) { snap = s.snapshotLocked(last) })
	return snap
}

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	return s.core.Subscribe(fn)
}

func (s *Store) commit(op string, edit func() (string, error)) error {
	return s.core.Commit(op, edit, s.snapshotLocked)
}

func (s *Store) snapshotLocked(change shared.Change) Snapshot {
	snap := Snapshot{Pending: s.pending > 0, Change: change}
	switch {
	case s.authenticated:
		snap.State, snap.Identity = Authenticated, s.current
	case s.pending > 0:
		snap.State = Authenticating
	default:
		snap.State = Anonymous
	}
	return snap
}
