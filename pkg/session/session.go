// Package session holds the explicit login session of the CLI: the bearer
// token issued by the backend and the user it belongs to. The session is
// persisted as session.json in the .billetera/ directory and passed to the
// API and chat clients as their token source.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/papercomputeco/billetera/pkg/api"
	"github.com/papercomputeco/billetera/pkg/dotdir"
)

const (
	sessionFile = "session.json"
)

// Session is the state of a logged-in user.
type Session struct {
	Token     string    `json:"access_token"`
	User      api.User  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a Session from a successful login.
func New(resp *api.LoginResponse) *Session {
	return &Session{
		Token:     resp.AccessToken,
		User:      resp.User,
		CreatedAt: time.Now().UTC(),
	}
}

// BearerToken implements api.TokenSource. A nil Session has no token.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// Store reads and writes session.json.
type Store struct {
	ddm         *dotdir.Manager
	overrideDir string
}

// NewStore returns a Store rooted at the resolved .billetera/ directory.
// If overrideDir is non-empty, it is used instead of the default location.
func NewStore(overrideDir string) *Store {
	return &Store{
		ddm:         dotdir.NewManager(),
		overrideDir: overrideDir,
	}
}

func (s *Store) path() (string, error) {
	dir, err := s.ddm.Target(s.overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

// Load returns the saved session. Returns nil, nil if nobody is logged in.
func (s *Store) Load() (*Session, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	return sess, nil
}

// Save persists the session with owner-only permissions.
func (s *Store) Save(sess *Session) error {
	if !sess.Valid() {
		return errors.New("cannot save a session without a token")
	}

	path, err := s.path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

// Clear removes the saved session. Returns nil if there was none.
func (s *Store) Clear() error {
	path, err := s.path()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}
