package corrections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Correction) (*models.Correction, error) {

	query :=
		`INSERT INTO corrections (sentence_id, suggested_correction, reasoning, sources)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.SentenceID, c.Suggested, c.Reasoning, c.Sources).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Correction, error) {
	query :=
		`SELECT id, sentence_id, suggested_correction, reasoning, sources, created_at FROM corrections
		 WHERE id = $1
		 `

	c := &models.Correction{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.SentenceID, &c.Suggested, &c.Reasoning, &c.Sources, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ListBySentence(ctx context.Context, sentenceID int64) ([]*models.Correction, error) {
	query :=
		`SELECT id, sentence_id, suggested_correction, reasoning, sources, created_at FROM corrections
		 WHERE sentence_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Correction
	for rows.Next() {
		c := &models.Correction{}
		if err := rows.Scan(&c.ID, &c.SentenceID, &c.Suggested, &c.Reasoning, &c.Sources, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByDocument(ctx context.Context, documentID int64) (int64, error) {
	query :=
		`DELETE FROM corrections
		 WHERE sentence_id IN (SELECT id FROM sentences WHERE document_id = $1)
		 `

	res, err := r.db.ExecContext(ctx, query, documentID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
