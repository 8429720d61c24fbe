package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("missing or expired session")
	ErrNotConfigured      = errors.New("admin credentials are not configured")
)

const audience = "admin"

type (
	// Session tracks which issued tokens are still live: started on login, ended on logout,
	// checked on every protected entry.
	Session interface {
		Start(ctx context.Context, claims *Claims) error
		Active(ctx context.Context, id string) (bool, error)
		End(ctx context.Context, id string) error
	}

	// Claims represents the authorization claims transmitted via a JWT.
	Claims struct {
		jwt.StandardClaims
		Username string `json:"username"`
	}

	Service struct {
		appName  string
		secret   []byte
		username string
		hash     []byte
		tokenTTL time.Duration
		session  Session
		nowFunc  func() time.Time
	}
)

// TTL returns how long the token is still valid.
func (c *Claims) TTL(now time.Time) time.Duration {
	return time.Unix(c.ExpiresAt, 0).Sub(now)
}

func NewService(conf *core.Config, session Session) *Service {
	return &Service{
		appName:  conf.AppName,
		secret:   []byte(conf.SecretKey),
		username: core.CleanString(conf.Auth.Username, true /* lower */),
		hash:     []byte(conf.Auth.PasswordHash),
		tokenTTL: conf.Auth.TokenTTL,
		session:  session,
		nowFunc:  time.Now,
	}
}

// Login checks the admin credentials and starts a session. It returns the signed token.
func (svc *Service) Login(ctx context.Context, username, password string) (string, *Claims, error) {
	if svc.username == "" || len(svc.hash) == 0 {
		return "", nil, ErrNotConfigured
	}
	err := bcrypt.CompareHashAndPassword(svc.hash, []byte(password))
	if err != nil || core.CleanString(username, true /* lower */) != svc.username {
		return "", nil, ErrInvalidCredentials
	}

	now := svc.nowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    svc.appName,
			Subject:   svc.username,
			Audience:  audience,
			ExpiresAt: now.Add(svc.tokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: svc.username,
	}
	token, err := svc.GenerateToken(claims)
	if err != nil {
		return "", nil, err
	}
	if err := svc.session.Start(ctx, claims); err != nil {
		return "", nil, errors.Wrap(err, "starting session")
	}
	return token, claims, nil
}

// Logout ends the session of token. An already ended session is not an error.
func (svc *Service) Logout(ctx context.Context, token string) error {
	claims, err := svc.ParseToken(token)
	if err != nil {
		return err
	}
	return errors.Wrap(svc.session.End(ctx, claims.Id), "ending session")
}

// Authorize verifies token and requires its session to be active.
func (svc *Service) Authorize(ctx context.Context, token string) (*Claims, error) {
	claims, err := svc.ParseToken(token)
	if err != nil {
		return nil, err
	}
	active, err := svc.session.Active(ctx, claims.Id)
	if err != nil {
		return nil, errors.Wrap(err, "checking session")
	}
	if !active {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (svc *Service) GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(svc.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies the signature and expiry of token.
func (svc *Service) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return svc.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Id == "" || !claims.VerifyAudience(audience, true) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash to configure as the admin password.
func HashPassword(pwd string) (string, error) {
	if pwd == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
