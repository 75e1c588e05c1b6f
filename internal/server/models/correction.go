package models

import "time"

// Correction is a suggested replacement for one sentence. Corrections are
// never updated in place: a superseding suggestion creates a new row, and the
// newest row by CreatedAt is the current one. Deleting the sentence deletes
// its corrections.
type Correction struct {
	ID         int64
	SentenceID int64
	Suggested  string
	Reasoning  string
	Sources    string
	CreatedAt  time.Time
}
