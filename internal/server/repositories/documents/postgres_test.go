package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `INSERT\s+INTO\s+documents\s*\(user_id,\s*title,\s*content\)`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(int64(7), "Facts", "Paris is in France.").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	doc := &models.Document{UserID: 7, Title: "Facts", Content: "Paris is in France."}
	got, err := repo.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 3 {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestList_AllAndFiltered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM documents\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
			AddRow(int64(2), int64(7), "B", "", now, now).
			AddRow(int64(1), int64(8), "A", "", now, now))

	all, err := repo.List(context.Background(), nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("List all: got (%v, %v)", all, err)
	}

	userID := int64(7)
	mock.ExpectQuery(`SELECT .* FROM documents\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
			AddRow(int64(2), int64(7), "B", "", now, now))

	mine, err := repo.List(context.Background(), &userID)
	if err != nil || len(mine) != 1 || mine[0].UserID != 7 {
		t.Fatalf("List filtered: got (%v, %v)", mine, err)
	}
}

func TestUpdate_ContentOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE\s+documents\s+SET\s+updated_at\s*=\s*now\(\),\s*content\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs(int64(3), "New text.").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "created_at", "updated_at"}).
			AddRow(int64(3), int64(7), "Facts", "New text.", now, now))

	content := "New text."
	got, err := repo.Update(context.Background(), 3, UpdateFields{Content: &content})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Content != "New text." || got.Title != "Facts" {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	title := "X"
	mock.ExpectQuery(`UPDATE\s+documents`).WithArgs(int64(404), "X").WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 404, UpdateFields{Title: &title})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `DELETE\s+FROM\s+documents\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectExec(q).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(int64(404)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 404); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
