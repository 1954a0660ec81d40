// Package auth checks passwords against the user directory and issues the
// signed session tokens that carry a signed-in user between requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/JonMunkholm/clinic/internal/clinic"
	"github.com/JonMunkholm/clinic/internal/store"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession is returned for a missing, malformed, expired or
	// revoked session token.
	ErrInvalidSession = errors.New("invalid session")
)

const issuer = "clinic"

// Directory is the part of the store auth needs.
type Directory interface {
	FindUserByEmail(ctx context.Context, email string) (clinic.User, error)
	GetUser(ctx context.Context, id string) (clinic.User, error)
}

// Config controls token signing.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Authenticator verifies passwords and signs HS256 session tokens.
type Authenticator struct {
	dir    Directory
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns an Authenticator backed by dir.
func New(dir Directory, cfg Config) (*Authenticator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: session secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("auth: session TTL must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Authenticator{dir: dir, secret: cfg.Secret, ttl: cfg.TTL, now: now}, nil
}

// Session is a signed-in user and the token that proves it.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Viewer    clinic.Viewer
}

// Login checks email and password and issues a session.
func (a *Authenticator) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := a.dir.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrUserNotFound) {
		// keep timing close to the wrong-password path
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	v, err := clinic.ViewerFor(u)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	token, exp, err := a.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, Viewer: v}, nil
}

// Resolve parses token and loads the current state of its user, so a role
// change takes effect on the next request.
func (a *Authenticator) Resolve(ctx context.Context, token string) (clinic.Viewer, error) {
	c, err := a.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := a.dir.GetUser(ctx, c.Subject)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	v, err := clinic.ViewerFor(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	return v, nil
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), bcrypt.DefaultCost)
