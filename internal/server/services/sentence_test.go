package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthlens/truthlens/internal/common"
	"github.com/truthlens/truthlens/internal/server/models"
)

func newSentenceService(t *testing.T, rm *fakeRepoManager) (*SentenceService, func()) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	mock.MatchExpectationsInOrder(false)
	// Reconciliation commits through the real transaction machinery even when
	// the repositories are fakes, so allow any number of tx pairs.
	for i := 0; i < 8; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return NewSentenceService(db, rm, nopLogger{}), func() { db.Close() }
}

func TestSyncDocument_InsertsAll(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{
			1: {ID: 1, Content: "Paris is in France. The moon is made of cheese."},
		}},
		sentences: &fakeSentencesRepo{},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	out, err := s.SyncDocument(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Paris is in France.", out[0].Content)
	assert.Equal(t, 0, out[0].Start)
	assert.Equal(t, 19, out[0].End)
	assert.Equal(t, "The moon is made of cheese.", out[1].Content)
	assert.Equal(t, 20, out[1].Start)
	assert.Equal(t, 47, out[1].End)

	for _, sent := range out {
		assert.False(t, sent.Flagged)
		assert.Zero(t, sent.Confidence)
	}
}

func TestSyncDocument_NotFound(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{},
		sentences: &fakeSentencesRepo{},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	_, err := s.SyncDocument(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSyncDocument_UnchangedIsNoop(t *testing.T) {
	content := "One. Two."
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{1: {ID: 1, Content: content}}},
		sentences: &fakeSentencesRepo{
			nextID: 2,
			rows: []*models.Sentence{
				{ID: 1, DocumentID: 1, Content: "One.", Start: 0, End: 4, Flagged: true, Confidence: 80},
				{ID: 2, DocumentID: 1, Content: "Two.", Start: 5, End: 9},
			},
		},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	out, err := s.SyncDocument(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Empty(t, rm.sentences.updates)
	assert.Equal(t, int64(1), out[0].ID)
	assert.True(t, out[0].Flagged, "analysis state survives a no-op sync")
	assert.Equal(t, 80, out[0].Confidence)
}

func TestSyncDocument_ShiftUpdatesOffsetsOnly(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{
			1: {ID: 1, Content: "A new lead. One. Two."},
		}},
		sentences: &fakeSentencesRepo{
			nextID: 2,
			rows: []*models.Sentence{
				{ID: 1, DocumentID: 1, Content: "One.", Start: 0, End: 4, Flagged: true, Confidence: 55},
				{ID: 2, DocumentID: 1, Content: "Two.", Start: 5, End: 9},
			},
		},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	out, err := s.SyncDocument(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "A new lead.", out[0].Content)
	assert.Greater(t, out[0].ID, int64(2), "lead is a fresh insert")

	// The surviving sentences keep identity and analysis state.
	assert.Equal(t, int64(1), out[1].ID)
	assert.Equal(t, 12, out[1].Start)
	assert.Equal(t, 16, out[1].End)
	assert.True(t, out[1].Flagged)
	assert.Equal(t, 55, out[1].Confidence)
	assert.Equal(t, int64(2), out[2].ID)
	assert.Equal(t, 17, out[2].Start)
}

func TestSyncDocument_EqualLengthReplaceKeepsIDs(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{
			1: {ID: 1, Content: "One. Tvo. Three."},
		}},
		sentences: &fakeSentencesRepo{
			nextID: 3,
			rows: []*models.Sentence{
				{ID: 1, DocumentID: 1, Content: "One.", Start: 0, End: 4},
				{ID: 2, DocumentID: 1, Content: "Two.", Start: 5, End: 9},
				{ID: 3, DocumentID: 1, Content: "Three.", Start: 10, End: 16},
			},
		},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	out, err := s.SyncDocument(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, int64(2), out[1].ID, "edited sentence keeps its row")
	assert.Equal(t, "Tvo.", out[1].Content)
	assert.Contains(t, rm.sentences.updates, int64(2))
	assert.NotContains(t, rm.sentences.updates, int64(1))
	assert.NotContains(t, rm.sentences.updates, int64(3))
}

func TestSyncDocument_EmptyContentClearsAll(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{1: {ID: 1, Content: "   "}}},
		sentences: &fakeSentencesRepo{
			nextID: 1,
			rows:   []*models.Sentence{{ID: 1, DocumentID: 1, Content: "Old.", Start: 0, End: 4}},
		},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	out, err := s.SyncDocument(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, rm.sentences.rows)
}

func TestSyncDocument_ListError(t *testing.T) {
	rm := &fakeRepoManager{
		documents: &fakeDocumentsRepo{docs: map[int64]*models.Document{1: {ID: 1, Content: "One."}}},
		sentences: &fakeSentencesRepo{listErr: errBoom{}},
	}
	s, done := newSentenceService(t, rm)
	defer done()

	_, err := s.SyncDocument(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
