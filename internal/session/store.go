package session

import (
	"context"
	"errors"
	"sync"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/models"
)

// State is the two-state session machine driving the UI.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Listener observes every session mutation. Listeners run synchronously after
// the mutation is visible and may read the Store, but must not mutate it.
type Listener func(models.Session)

// Store owns the session. All mutation funnels through its methods, and both
// halves of the session (token and user) change under one lock.
type Store struct {
	slot TokenSlot

	// mutateMu serializes mutate-then-notify sequences so listeners observe
	// mutations in order. mu guards the session itself.
	mutateMu sync.Mutex
	mu       sync.RWMutex
	session  models.Session

	listeners []Listener
}

// NewStore constructs an anonymous Store persisting the token in slot.
func NewStore(slot TokenSlot) *Store {
	if slot == nil {
		panic("session: token slot must not be nil")
	}
	return &Store{slot: slot}
}

// Subscribe registers fn to run after every mutation.
func (s *Store) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	s.mutateMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mutateMu.Unlock()
}

// Restore loads a previously persisted token. A present token is taken as
// proof of login without asking the server: the user becomes a placeholder
// and the token may well be expired. This is a UI-only check.
func (s *Store) Restore(ctx context.Context) State {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	token, err := s.slot.Load(ctx)
	if err != nil && !errors.Is(err, ErrNoToken) {
		logging.FromContext(ctx).Warn("restore session failed", "error", err)
	}

	next := models.Session{}
	if err == nil && token != "" {
		next = models.Session{Token: token, User: models.PlaceholderUser()}
	}

	s.replaceLocked(next)
	return stateOf(next)
}

// SetAuthenticated persists token and records user as the current user. On a
// persistence error the session is left untouched.
func (s *Store) SetAuthenticated(ctx context.Context, token string, user *models.UserSummary) error {
	if token == "" {
		return errors.New("session: token must not be empty")
	}
	if user == nil {
		user = &models.UserSummary{}
	}

	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if err := s.slot.Save(ctx, token); err != nil {
		return err
	}

	s.replaceLocked(models.Session{Token: token, User: user})
	return nil
}

// Clear removes the persisted token and forgets the user. Clearing an
// anonymous session succeeds.
func (s *Store) Clear(ctx context.Context) error {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	if err := s.slot.Remove(ctx); err != nil {
		return err
	}

	s.replaceLocked(models.Session{})
	return nil
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// State reports the current machine state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stateOf(s.session)
}

// Session returns a copy of the current session.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// Token returns the bearer token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// replaceLocked must be called with mutateMu held.
func (s *Store) replaceLocked(next models.Session) {
	s.mu.Lock()
	s.session = next
	snapshot := copySession(next)
	s.mu.Unlock()

	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

func stateOf(sess models.Session) State {
	if sess.Authenticated() {
		return Authenticated
	}
	return Anonymous
}

func copySession(sess models.Session) models.Session {
	if sess.User == nil {
		return sess
	}
	user := *sess.User
	if user.Raw != nil {
		user.Raw = append([]byte(nil), user.Raw...)
	}
	return models.Session{Token: sess.Token, User: &user}
}
