package sessionsvc

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

// DBSession stores sessions in the admin_sessions table.
type DBSession struct {
	db      *sqlx.DB
	nowFunc func() time.Time
}

var _ auth.Session = (*DBSession)(nil)

type sessionRow struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func NewDBSession(db *sqlx.DB) *DBSession {
	return &DBSession{db: db, nowFunc: time.Now}
}

func (s *DBSession) Start(ctx context.Context, claims *auth.Claims) error {
	row := sessionRow{
		ID:        claims.Id,
		Username:  claims.Username,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
		CreatedAt: s.nowFunc().UTC(),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO admin_sessions (id, username, expires_at, created_at)
		VALUES (:id, :username, :expires_at, :created_at)`,
		row,
	)
	return errors.Wrap(err, "inserting session")
}

func (s *DBSession) Active(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.GetContext(ctx, &active,
		`SELECT EXISTS (SELECT 1 FROM admin_sessions WHERE id = $1 AND expires_at > $2)`,
		id, s.nowFunc().UTC(),
	)
	if err != nil {
		return false, errors.Wrap(err, "querying session")
	}
	return active, nil
}

func (s *DBSession) End(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	return errors.Wrap(err, "deleting session")
}

// Purge deletes expired sessions and returns how many were removed.
func (s *DBSession) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, s.nowFunc().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	return res.RowsAffected()
}
