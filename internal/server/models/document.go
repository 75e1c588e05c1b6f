// Package models defines server-side data models persisted in the database.
package models

import "time"

// Document is a user-owned free-form text. Content is the single source of
// truth for sentence spans; it changes only through an explicit update or an
// applied correction, never through reconciliation itself.
type Document struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
