package models

// Sentence is one reconciled span of a document plus its derived analysis
// state. Start/End are byte offsets into the document content, end exclusive;
// Content equals the trimmed text at that span. Flagged is true when the last
// analysis judged the sentence not reliable; Confidence is in [0,100], 0 for
// never-analyzed sentences.
type Sentence struct {
	ID         int64
	DocumentID int64
	Content    string
	Start      int
	End        int
	Flagged    bool
	Confidence int
}
