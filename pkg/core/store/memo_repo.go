package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StudyRecord is one persisted AI memo together with the study parameters it
// was generated from, so a memo can be traced back to its inputs.
type StudyRecord struct {
	ID        int64           `json:"id"`
	Study     string          `json:"study"` // "timing" or "insider"
	Year      int             `json:"year"`
	Params    json.RawMessage `json:"params"`
	Memo      string          `json:"memo"`
	Model     string          `json:"model"`
	CreatedAt time.Time       `json:"created_at"`
}

// MemoRepo stores generated study memos.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS study_memos (
//	  id BIGSERIAL PRIMARY KEY,
//	  study TEXT NOT NULL,
//	  year INT NOT NULL,
//	  params JSONB,
//	  memo TEXT NOT NULL,
//	  model TEXT,
//	  created_at TIMESTAMPTZ DEFAULT NOW()
//	);
type MemoRepo struct {
	pool *pgxpool.Pool
}

// NewMemoRepo creates a memo repository.
func NewMemoRepo(pool *pgxpool.Pool) *MemoRepo {
	return &MemoRepo{pool: pool}
}

// Save persists a memo and returns its assigned ID.
func (r *MemoRepo) Save(ctx context.Context, rec *StudyRecord) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO study_memos (study, year, params, memo, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		rec.Study, rec.Year, rec.Params, rec.Memo, rec.Model,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save study memo: %w", err)
	}
	return rec.ID, nil
}

// Recent lists the latest memos for a study type, newest first.
func (r *MemoRepo) Recent(ctx context.Context, study string, limit int) ([]StudyRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, study, year, params, memo, model, created_at
		FROM study_memos
		WHERE study = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, study, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list study memos: %w", err)
	}
	defer rows.Close()

	var records []StudyRecord
	for rows.Next() {
		var rec StudyRecord
		if err := rows.Scan(&rec.ID, &rec.Study, &rec.Year, &rec.Params,
			&rec.Memo, &rec.Model, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan study memo: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
