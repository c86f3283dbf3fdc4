package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS decisions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			mission TEXT NOT NULL DEFAULT '',
			winner TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			criteria_weights JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

const decisionColumns = `id, mission, winner, score, criteria_weights, created_at`

func (s *PostgresStore) SaveDecision(ctx context.Context, d *DecisionRecord) error {
	weightsJSON, err := json.Marshal(weightsOrEmpty(d.CriteriaWeights))
	if err != nil {
		return fmt.Errorf("marshal criteria weights: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO decisions (mission, winner, score, criteria_weights)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		d.Mission, d.Winner, d.Score, weightsJSON,
	).Scan(&d.ID, &d.CreatedAt)
}

func (s *PostgresStore) GetDecision(ctx context.Context, id uuid.UUID) (*DecisionRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+decisionColumns+` FROM decisions WHERE id = $1`, id)
	d, err := scanDecision(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (s *PostgresStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+decisionColumns+`
		FROM decisions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, filter.limit(), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DecisionRecord
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteDecision(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM decisions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (*DecisionRecord, error) {
	d := &DecisionRecord{}
	var weightsJSON []byte
	if err := row.Scan(&d.ID, &d.Mission, &d.Winner, &d.Score, &weightsJSON, &d.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeWeights(weightsJSON, d); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeWeights(raw []byte, d *DecisionRecord) error {
	d.CriteriaWeights = []CriterionWeight{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &d.CriteriaWeights); err != nil {
		return fmt.Errorf("decode criteria weights for %s: %w", d.ID, err)
	}
	return nil
}

func weightsOrEmpty(w []CriterionWeight) []CriterionWeight {
	if w == nil {
		return []CriterionWeight{}
	}
	return w
}
