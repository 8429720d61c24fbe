package sessionsvc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

// FileSession is the admin CLI's session marker: a single session kept in a local file.
// Starting a new session replaces the previous one.
type FileSession struct {
	path    string
	nowFunc func() time.Time
}

var _ auth.Session = (*FileSession)(nil)

type marker struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewFileSession(path string) *FileSession {
	return &FileSession{path: path, nowFunc: time.Now}
}

func (s *FileSession) Start(_ context.Context, claims *auth.Claims) error {
	return s.write(marker{
		ID:        claims.Id,
		Username:  claims.Username,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	})
}

func (s *FileSession) Active(_ context.Context, id string) (bool, error) {
	m, err := s.read()
	if err != nil || m == nil {
		return false, err
	}
	return m.ID == id && s.nowFunc().Before(m.ExpiresAt), nil
}

func (s *FileSession) End(_ context.Context, id string) error {
	m, err := s.read()
	if err != nil || m == nil || m.ID != id {
		return err
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}

// SetToken stores the signed token alongside the current session.
func (s *FileSession) SetToken(token string) error {
	m, err := s.read()
	if err != nil {
		return err
	}
	if m == nil {
		return auth.ErrUnauthorized
	}
	m.Token = token
	return s.write(*m)
}

// Token returns the token of the current session, or auth.ErrUnauthorized when there is none.
func (s *FileSession) Token() (string, error) {
	m, err := s.read()
	if err != nil {
		return "", err
	}
	if m == nil || m.Token == "" || !s.nowFunc().Before(m.ExpiresAt) {
		return "", auth.ErrUnauthorized
	}
	return m.Token, nil
}

func (s *FileSession) read() (*marker, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		// a corrupt marker is treated as logged out
		return nil, nil
	}
	return &m, nil
}

func (s *FileSession) write(m marker) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}
