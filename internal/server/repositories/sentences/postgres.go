package sentences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/server/models"
)

// PostgresRepository implements sentence storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByDocument returns the document's sentences ordered by start offset.
func (r *PostgresRepository) ListByDocument(ctx context.Context, documentID int64) ([]*models.Sentence, error) {
	query :=
		`SELECT id, document_id, content, start_index, end_index, flags, confidence FROM sentences
		 WHERE document_id = $1
		 ORDER BY start_index, id
		 `

	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Sentence
	for rows.Next() {
		s := &models.Sentence{}
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.Content, &s.Start, &s.End, &s.Flagged, &s.Confidence); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetByID returns a single sentence, or common.ErrNotFound if no row matches.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Sentence, error) {
	query :=
		`SELECT id, document_id, content, start_index, end_index, flags, confidence FROM sentences
		 WHERE id = $1
		 `

	s := &models.Sentence{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.DocumentID, &s.Content, &s.Start, &s.End, &s.Flagged, &s.Confidence)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// Create inserts a sentence and fills in its generated ID.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Sentence) (*models.Sentence, error) {

	query :=
		`INSERT INTO sentences (document_id, content, start_index, end_index, flags, confidence)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		s.DocumentID, s.Content, s.Start, s.End, s.Flagged, s.Confidence).Scan(&s.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// UpdateSlice updates only the fields set in SliceFields. A call with no
// fields is a no-op; updating a missing row returns common.ErrNotFound.
func (r *PostgresRepository) UpdateSlice(ctx context.Context, id int64, fields SliceFields) error {

	set := []string{}
	args := []any{id}

	if fields.Content != nil {
		args = append(args, *fields.Content)
		set = append(set, fmt.Sprintf("content = $%d", len(args)))
	}
	if fields.Start != nil {
		args = append(args, *fields.Start)
		set = append(set, fmt.Sprintf("start_index = $%d", len(args)))
	}
	if fields.End != nil {
		args = append(args, *fields.End)
		set = append(set, fmt.Sprintf("end_index = $%d", len(args)))
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`UPDATE sentences SET %s
		 WHERE id = $1
		 `, strings.Join(set, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// SetAnalysis stores the flagged state and confidence score for one sentence.
// Updating a missing row returns common.ErrNotFound.
func (r *PostgresRepository) SetAnalysis(ctx context.Context, id int64, flagged bool, confidence int) error {
	query :=
		`UPDATE sentences SET flags = $2, confidence = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, flagged, confidence)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// ResetAnalysisByDocument clears flags and confidence for every sentence of a document.
func (r *PostgresRepository) ResetAnalysisByDocument(ctx context.Context, documentID int64) error {
	query :=
		`UPDATE sentences SET flags = FALSE, confidence = 0
		 WHERE document_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, documentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Delete removes the sentences with the given IDs and reports how many rows went away.
func (r *PostgresRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`DELETE FROM sentences
		 WHERE id IN (%s)
		 `, strings.Join(placeholders, ", "))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}

// DeleteByDocument removes all sentences belonging to a document.
func (r *PostgresRepository) DeleteByDocument(ctx context.Context, documentID int64) (int64, error) {
	query :=
		`DELETE FROM sentences
		 WHERE document_id = $1
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
