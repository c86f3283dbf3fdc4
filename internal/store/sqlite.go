package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// sqliteTimeLayout is fixed width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps decision history in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path, creating parent
// directories and the schema as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			mission TEXT NOT NULL DEFAULT '',
			winner TEXT NOT NULL,
			score REAL NOT NULL,
			criteria_weights TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveDecision(ctx context.Context, d *DecisionRecord) error {
	weightsJSON, err := json.Marshal(weightsOrEmpty(d.CriteriaWeights))
	if err != nil {
		return fmt.Errorf("marshal criteria weights: %w", err)
	}
	id := uuid.New()
	createdAt := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, mission, winner, score, criteria_weights, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), d.Mission, d.Winner, d.Score, string(weightsJSON), createdAt.Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	d.ID = id
	d.CreatedAt = createdAt
	return nil
}

func (s *SQLiteStore) GetDecision(ctx context.Context, id uuid.UUID) (*DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+decisionColumns+` FROM decisions WHERE id = ?`, id.String())
	d, err := scanSQLiteDecision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (s *SQLiteStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+decisionColumns+`
		FROM decisions
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`, filter.limit(), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DecisionRecord
	for rows.Next() {
		d, err := scanSQLiteDecision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteDecision(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE id = ?`, id.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSQLiteDecision(row scanner) (*DecisionRecord, error) {
	d := &DecisionRecord{}
	var id, weightsJSON, createdAt string
	if err := row.Scan(&id, &d.Mission, &d.Winner, &d.Score, &weightsJSON, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse decision id %q: %w", id, err)
	}
	d.ID = parsed
	if d.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", id, err)
	}
	if err := decodeWeights([]byte(weightsJSON), d); err != nil {
		return nil, err
	}
	return d, nil
}
