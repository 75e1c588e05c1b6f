// Package reconcile aligns the stored sentences of a document against a
// fresh segmentation of its text and produces the minimal set of changes
// needed to bring storage in line. The aligner is pure: it never touches
// storage, it only plans. Unchanged sentences keep their identity, and with
// it their flags, confidence scores and corrections.
package reconcile

import "github.com/truthlens/truthlens/internal/textx"

// OpType classifies a single plan operation.
type OpType int

const (
	// OpKeep leaves the stored sentence untouched.
	OpKeep OpType = iota
	// OpUpdate overwrites content and/or offsets on an existing sentence,
	// preserving its identity and derived analysis state.
	OpUpdate
	// OpDelete removes a stored sentence (corrections cascade with it).
	OpDelete
	// OpInsert creates a new sentence with reset derived state.
	OpInsert
)

func (t OpType) String() string {
	switch t {
	case OpKeep:
		return "keep"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Stored is the identity-bearing view of a persisted sentence that the
// aligner needs: who it is and what it says.
type Stored struct {
	ID      int64
	Content string
	Start   int
	End     int
}

// Op is one step of a Plan. ID is zero for OpInsert; Slice is the zero value
// for OpDelete.
type Op struct {
	Type  OpType
	ID    int64
	Slice textx.Slice
}

// Plan is an ordered list of operations that transforms the stored sentence
// sequence into the freshly segmented one.
type Plan []Op
