package httpapi

import (
	"strings"
	"time"

	"github.com/truthlens/truthlens/internal/server/models"
	"github.com/truthlens/truthlens/internal/server/services"
)

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

type tokenView struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type documentView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDocumentView(d *models.Document) documentView {
	return documentView{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDocumentViews(docs []*models.Document) []documentView {
	out := make([]documentView, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentView(d))
	}
	return out
}

type sentenceView struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Content    string `json:"content"`
	Start      int    `json:"start_index"`
	End        int    `json:"end_index"`
	Flagged    bool   `json:"flags"`
	Confidence int    `json:"confidence"`
}

func toSentenceView(s *models.Sentence) sentenceView {
	return sentenceView{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		Content:    s.Content,
		Start:      s.Start,
		End:        s.End,
		Flagged:    s.Flagged,
		Confidence: s.Confidence,
	}
}

func toSentenceViews(list []*models.Sentence) []sentenceView {
	out := make([]sentenceView, 0, len(list))
	for _, s := range list {
		out = append(out, toSentenceView(s))
	}
	return out
}

type correctionView struct {
	ID         int64     `json:"id"`
	SentenceID int64     `json:"sentence_id"`
	Suggested  string    `json:"suggested_correction"`
	Reasoning  string    `json:"reasoning"`
	Sources    []string  `json:"sources"`
	CreatedAt  time.Time `json:"created_at"`
}

func toCorrectionView(c *models.Correction) correctionView {
	var sources []string
	if c.Sources != "" {
		sources = strings.Split(c.Sources, "\n")
	}
	return correctionView{
		ID:         c.ID,
		SentenceID: c.SentenceID,
		Suggested:  c.Suggested,
		Reasoning:  c.Reasoning,
		Sources:    sources,
		CreatedAt:  c.CreatedAt,
	}
}

func toCorrectionViews(list []*models.Correction) []correctionView {
	out := make([]correctionView, 0, len(list))
	for _, c := range list {
		out = append(out, toCorrectionView(c))
	}
	return out
}

type sentenceWithCorrectionsView struct {
	sentenceView
	Corrections []correctionView `json:"corrections"`
}

type applyResultView struct {
	Document  documentView                  `json:"document"`
	Sentences []sentenceWithCorrectionsView `json:"sentences"`
}

func toApplyResultView(r *services.ApplyResult) applyResultView {
	out := applyResultView{
		Document:  toDocumentView(r.Document),
		Sentences: make([]sentenceWithCorrectionsView, 0, len(r.Sentences)),
	}
	for _, sc := range r.Sentences {
		out.Sentences = append(out.Sentences, sentenceWithCorrectionsView{
			sentenceView: toSentenceView(sc.Sentence),
			Corrections:  toCorrectionViews(sc.Corrections),
		})
	}
	return out
}
