package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/dbx"
	"github.com/truthlens/truthlens/internal/logging"
	"github.com/truthlens/truthlens/internal/server/models"
	correctionsrepo "github.com/truthlens/truthlens/internal/server/repositories/corrections"
	documentsrepo "github.com/truthlens/truthlens/internal/server/repositories/documents"
	refreshtokensrepo "github.com/truthlens/truthlens/internal/server/repositories/refreshtokens"
	sentencesrepo "github.com/truthlens/truthlens/internal/server/repositories/sentences"
	usersrepo "github.com/truthlens/truthlens/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- fake repositories ---

// fakeSentencesRepo keeps an in-memory ordered sentence set so sync tests can
// verify the final state rather than individual SQL calls.
type fakeSentencesRepo struct {
	rows   []*models.Sentence
	nextID int64

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	updates []int64
	resets  int

	// getHook runs at the start of GetByID, letting a test mutate state as
	// if another writer raced the caller.
	getHook func(id int64)
}

func (f *fakeSentencesRepo) sorted() []*models.Sentence {
	out := make([]*models.Sentence, len(f.rows))
	copy(out, f.rows)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, b := out[j-1], out[j]
			if a.Start > b.Start || (a.Start == b.Start && a.ID > b.ID) {
				out[j-1], out[j] = b, a
			} else {
				break
			}
		}
	}
	return out
}

func (f *fakeSentencesRepo) ListByDocument(ctx context.Context, documentID int64) ([]*models.Sentence, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Sentence
	for _, s := range f.sorted() {
		if s.DocumentID == documentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSentencesRepo) GetByID(ctx context.Context, id int64) (*models.Sentence, error) {
	if f.getHook != nil {
		f.getHook(id)
	}
	for _, s := range f.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeSentencesRepo) Create(ctx context.Context, s *models.Sentence) (*models.Sentence, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	row := *s
	row.ID = f.nextID
	f.rows = append(f.rows, &row)
	return &row, nil
}

func (f *fakeSentencesRepo) UpdateSlice(ctx context.Context, id int64, fields sentencesrepo.SliceFields) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, id)
	for _, s := range f.rows {
		if s.ID != id {
			continue
		}
		if fields.Content != nil {
			s.Content = *fields.Content
		}
		if fields.Start != nil {
			s.Start = *fields.Start
		}
		if fields.End != nil {
			s.End = *fields.End
		}
		return nil
	}
	return common.ErrNotFound
}

func (f *fakeSentencesRepo) SetAnalysis(ctx context.Context, id int64, flagged bool, confidence int) error {
	for _, s := range f.rows {
		if s.ID == id {
			s.Flagged = flagged
			s.Confidence = confidence
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeSentencesRepo) ResetAnalysisByDocument(ctx context.Context, documentID int64) error {
	f.resets++
	for _, s := range f.rows {
		if s.DocumentID == documentID {
			s.Flagged = false
			s.Confidence = 0
		}
	}
	return nil
}

func (f *fakeSentencesRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []*models.Sentence
	var n int64
	for _, s := range f.rows {
		if drop[s.ID] {
			n++
			continue
		}
		kept = append(kept, s)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeSentencesRepo) DeleteByDocument(ctx context.Context, documentID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var kept []*models.Sentence
	var n int64
	for _, s := range f.rows {
		if s.DocumentID == documentID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	f.rows = kept
	return n, nil
}

type fakeDocumentsRepo struct {
	docs map[int64]*models.Document

	getErr    error
	updateErr error
}

func (f *fakeDocumentsRepo) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	row := *doc
	row.ID = int64(len(f.docs) + 1)
	if f.docs == nil {
		f.docs = map[int64]*models.Document{}
	}
	f.docs[row.ID] = &row
	return &row, nil
}

func (f *fakeDocumentsRepo) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocumentsRepo) List(ctx context.Context, userID *int64) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.docs {
		if userID == nil || d.UserID == *userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentsRepo) Update(ctx context.Context, id int64, fields documentsrepo.UpdateFields) (*models.Document, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if fields.Title != nil {
		doc.Title = *fields.Title
	}
	if fields.Content != nil {
		doc.Content = *fields.Content
	}
	return doc, nil
}

func (f *fakeDocumentsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

type fakeCorrectionsRepo struct {
	rows   []*models.Correction
	nextID int64

	createErr error

	deletedDocs []int64
}

func (f *fakeCorrectionsRepo) Create(ctx context.Context, c *models.Correction) (*models.Correction, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	row := *c
	row.ID = f.nextID
	row.CreatedAt = time.Now()
	f.rows = append(f.rows, &row)
	return &row, nil
}

func (f *fakeCorrectionsRepo) GetByID(ctx context.Context, id int64) (*models.Correction, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeCorrectionsRepo) ListBySentence(ctx context.Context, sentenceID int64) ([]*models.Correction, error) {
	var out []*models.Correction
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].SentenceID == sentenceID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeCorrectionsRepo) DeleteByDocument(ctx context.Context, documentID int64) (int64, error) {
	f.deletedDocs = append(f.deletedDocs, documentID)
	n := int64(len(f.rows))
	f.rows = nil
	return n, nil
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updatePasswordErr error
	updatedHash       string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if f.updatePasswordErr != nil {
		return f.updatePasswordErr
	}
	f.updatedHash = hash
	return nil
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error { return f.delErr }

type fakeRepoManager struct {
	users       *fakeUsersRepo
	documents   *fakeDocumentsRepo
	sentences   *fakeSentencesRepo
	corrections *fakeCorrectionsRepo
	refresh     *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Documents(db dbx.DBTX) documentsrepo.Repository {
	return m.documents
}
func (m *fakeRepoManager) Sentences(db dbx.DBTX) sentencesrepo.Repository {
	return m.sentences
}
func (m *fakeRepoManager) Corrections(db dbx.DBTX) correctionsrepo.Repository {
	return m.corrections
}
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}
