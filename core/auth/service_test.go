package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

type memSession struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (s *memSession) Start(_ context.Context, claims *Claims) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[string]bool{}
	}
	s.ids[claims.Id] = true
	return nil
}

func (s *memSession) Active(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id], nil
}

func (s *memSession) End(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
	return nil
}

func newTestService(t *testing.T, session Session) *Service {
	t.Helper()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	return NewService(&core.Config{
		AppName:   "EduDarshi",
		SecretKey: "secret",
		Auth: core.AuthConfig{
			Username:     "Admin",
			PasswordHash: hash,
			TokenTTL:     time.Hour,
		},
	}, session)
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t, &memSession{})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "wrong password", username: "admin", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "wrong username", username: "root", password: "s3cret", wantErr: ErrInvalidCredentials},
		{name: "empty", wantErr: ErrInvalidCredentials},
		{name: "valid", username: "admin", password: "s3cret"},
		{name: "valid, username cleaned", username: "  ADMIN ", password: "s3cret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, claims, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, "admin", claims.Username)
			assert.NotEmpty(t, claims.Id)
		})
	}
}

func TestService_notConfigured(t *testing.T) {
	svc := NewService(&core.Config{SecretKey: "secret"}, &memSession{})
	_, _, err := svc.Login(context.Background(), "admin", "")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestService_sessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &memSession{})

	_, err := svc.Authorize(ctx, "")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	token, _, err := svc.Login(ctx, "admin", "s3cret")
	require.NoError(t, err)

	claims, err := svc.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authorize(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized), "token still valid after logout")

	// logging out twice is fine
	assert.NoError(t, svc.Logout(ctx, token))
}

func TestService_ParseToken(t *testing.T) {
	svc := newTestService(t, &memSession{})
	other := newTestService(t, &memSession{})
	other.secret = []byte("other secret")

	valid, _, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	forged, _, err := other.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	svc.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	svc.nowFunc = time.Now // reset

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "lmaooolol", wantErr: ErrUnauthorized},
		{name: "other secret", token: forged, wantErr: ErrUnauthorized},
		{name: "expired", token: expired, wantErr: ErrUnauthorized},
		{name: "valid", token: valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseToken(tt.token)
			if err != tt.wantErr {
				t.Errorf("ParseToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
