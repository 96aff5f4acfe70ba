package session

import (
	"context"
	"sync"
	"time"

	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/storage"
)

// Durable storage record names under the configured namespace.
const (
	TokenRecordName = "access_token"
	UserRecordName  = "user"
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "unauthenticated"
}

// User is the decoded snapshot persisted alongside the token.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

// AuthAPI is the slice of the gateway the session store drives.
type AuthAPI interface {
	Login(ctx context.Context, req gateway.LoginRequest) (gateway.TokenResponse, error)
	Register(ctx context.Context, req gateway.RegisterRequest) error
}

// Store owns the session state machine. The persisted token is the source of
// truth: an absent or expired token always reads as Unauthenticated, and
// expired tokens are purged rather than surfaced.
type Store struct {
	mu        sync.Mutex
	state     State
	token     string
	expiresAt time.Time
	user      *User

	api         AuthAPI
	tokenRecord *storage.Record[string]
	userRecord  *storage.Record[*User]
	logg        *logger.Logger
	now         func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// NewStore restores the persisted session. Absent, corrupt, or expired tokens
// leave the store Unauthenticated with both records purged.
func NewStore(ctx context.Context, kv storage.KV, namespace string, api AuthAPI, logg *logger.Logger) *Store {
	s := &Store{
		api:         api,
		tokenRecord: storage.NewRecord(kv, namespace, TokenRecordName, logg, func() string { return "" }),
		userRecord:  storage.NewRecord(kv, namespace, UserRecordName, logg, func() *User { return nil }),
		logg:        logg,
		now:         time.Now,
		subs:        map[int]func(State){},
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	token := s.tokenRecord.Load(ctx)
	if token == "" {
		s.purge(ctx)
		return
	}

	claims, err := DecodeToken(token)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding undecodable persisted token")
		}
		s.purge(ctx)
		return
	}
	if claims.Expired(s.now()) {
		if s.logg != nil {
			s.logg.Info(ctx, "persisted token expired, purging session")
		}
		s.purge(ctx)
		return
	}

	s.adopt(ctx, token, claims)
}

// adopt installs a decoded token as the authenticated session and persists
// the refreshed user snapshot.
func (s *Store) adopt(ctx context.Context, token string, claims *Claims) {
	user := &User{
		ID:        claims.Subject,
		Email:     claims.Email,
		IsAdmin:   claims.IsAdmin,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	s.token = token
	s.expiresAt = claims.ExpiresAtOrZero()
	s.user = user
	s.state = Authenticated

	s.tokenRecord.Save(ctx, token)
	s.userRecord.Save(ctx, user)
}

func (s *Store) purge(ctx context.Context) {
	s.token = ""
	s.expiresAt = time.Time{}
	s.user = nil
	s.state = Unauthenticated
	s.tokenRecord.Clear(ctx)
	s.userRecord.Clear(ctx)
}

// Login authenticates against the backend. On failure the error propagates
// and the store returns to its previous state.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	prev := s.state
	s.state = Authenticating
	s.mu.Unlock()
	s.notify(Authenticating)

	revert := func() {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		s.notify(prev)
	}

	resp, err := s.api.Login(ctx, gateway.LoginRequest{Email: email, Password: password})
	if err != nil {
		revert()
		return err
	}

	claims, decodeErr := DecodeToken(resp.AccessToken)
	if decodeErr != nil || claims.Expired(s.now()) {
		if s.logg != nil {
			s.logg.Error(ctx, "backend returned unusable access token", decodeErr)
		}
		revert()
		if decodeErr != nil {
			return decodeErr
		}
		return errAlreadyExpired
	}

	s.mu.Lock()
	s.adopt(ctx, resp.AccessToken, claims)
	s.mu.Unlock()
	s.notify(Authenticated)
	return nil
}

// Register creates the account and logs in with the same credentials. Any
// failure at either step surfaces to the caller.
func (s *Store) Register(ctx context.Context, email, password, fullName string) error {
	if err := s.api.Register(ctx, gateway.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}); err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// Logout purges the session unconditionally. No network call is involved.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.purge(ctx)
	s.mu.Unlock()
	s.notify(Unauthenticated)
}

// Token returns the bearer token, or "" when absent or expired. An expired
// token is purged on first observation so later reads agree.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated || s.token == "" {
		return ""
	}
	if !s.expiresAt.After(s.now()) {
		s.purge(context.Background())
		return ""
	}
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports the administrator claim, defaulting to false whenever the
// session is not authenticated.
func (s *Store) IsAdmin() bool {
	if s.Token() == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

// CurrentUser returns a copy of the decoded snapshot, or nil.
func (s *Store) CurrentUser() *User {
	if s.Token() == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	out := *s.user
	return &out
}

// Subscribe registers a state-transition listener; the returned function
// cancels it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(state State) {
	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}
