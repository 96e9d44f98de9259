package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"visaflow/internal/process/models"
	id "visaflow/pkg/domain"
	"visaflow/pkg/platform/sentinel"
)

const schema = `
CREATE TABLE IF NOT EXISTS process_records (
	user_id    UUID PRIMARY KEY,
	checklist  JSONB,
	submission JSONB,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS athlete_profiles (
	user_id       UUID PRIMARY KEY,
	date_of_birth DATE,
	is_minor      BOOLEAN
);
`

// PostgresStore is the remote store of record. Checklist and submission are
// kept as JSONB exactly as written so older shapes survive until the next
// save rewrites them.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed process store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate process schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, userID id.UserID) (models.RawRecord, error) {
	var (
		cl, sub   []byte
		updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT checklist, submission, updated_at FROM process_records WHERE user_id = $1`,
		userID.String(),
	).Scan(&cl, &sub, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RawRecord{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.RawRecord{}, fmt.Errorf("load process record: %w", err)
	}
	return models.RawRecord{
		Checklist:  json.RawMessage(cl),
		Submission: json.RawMessage(sub),
		UpdatedAt:  updatedAt.UTC(),
	}, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID id.UserID, rec models.RawRecord) error {
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO process_records (user_id, checklist, submission, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET checklist = EXCLUDED.checklist,
		    submission = EXCLUDED.submission,
		    updated_at = EXCLUDED.updated_at`,
		userID.String(), jsonb(rec.Checklist), jsonb(rec.Submission), updatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save process record: %w", err)
	}
	return nil
}

// jsonb passes absent sub-objects as SQL NULL.
func jsonb(raw json.RawMessage) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return string(trimmed)
}

func (s *PostgresStore) LoadProfile(ctx context.Context, userID id.UserID) (models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT date_of_birth, is_minor FROM athlete_profiles WHERE user_id = $1`,
		userID.String(),
	).Scan(&p.DateOfBirth, &p.IsMinorFlag)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("load athlete profile: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) SaveProfile(ctx context.Context, userID id.UserID, p models.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO athlete_profiles (user_id, date_of_birth, is_minor)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET date_of_birth = EXCLUDED.date_of_birth,
		    is_minor = EXCLUDED.is_minor`,
		userID.String(), p.DateOfBirth, p.IsMinorFlag,
	)
	if err != nil {
		return fmt.Errorf("save athlete profile: %w", err)
	}
	return nil
}
