package reconcile

import "github.com/truthlens/truthlens/internal/textx"

// Build computes a Plan transforming old into slices.
//
// Alignment is done once over the whole pair of sequences, keyed on content
// strings only (offsets are excluded from the key), using a longest-common-
// subsequence edit script. Opcode runs map to operations as follows:
//
//   - equal: pair old and new positionally; emit Keep when offsets also
//     match, Update when only the offsets shifted.
//   - replace with equal run lengths: pair positionally and emit Update for
//     each pair. This keeps sentence identity through an in-place rewrite,
//     favoring continuity of corrections over a hard delete+insert.
//   - replace with differing run lengths: no safe positional pairing exists;
//     emit Delete for every old item and Insert for every new item.
//   - delete / insert runs: Delete or Insert each item.
//
// No secondary re-matching by offset proximity is attempted, so a sentence
// that merely moved inside an unequal-length replace run is deleted and
// reinserted, losing its analysis history. Known limitation.
func Build(old []Stored, slices []textx.Slice) Plan {
	oldContents := make([]string, len(old))
	for i, s := range old {
		oldContents[i] = s.Content
	}
	newContents := make([]string, len(slices))
	for j, s := range slices {
		newContents[j] = s.Content
	}

	plan := make(Plan, 0, len(old)+len(slices))

	for _, oc := range opcodes(oldContents, newContents) {
		switch oc.tag {
		case tagEqual:
			for k := 0; k < oc.i2-oc.i1; k++ {
				o, n := old[oc.i1+k], slices[oc.j1+k]
				if o.Start == n.Start && o.End == n.End {
					plan = append(plan, Op{Type: OpKeep, ID: o.ID, Slice: n})
				} else {
					plan = append(plan, Op{Type: OpUpdate, ID: o.ID, Slice: n})
				}
			}
		case tagReplace:
			if oc.i2-oc.i1 == oc.j2-oc.j1 {
				for k := 0; k < oc.i2-oc.i1; k++ {
					plan = append(plan, Op{Type: OpUpdate, ID: old[oc.i1+k].ID, Slice: slices[oc.j1+k]})
				}
			} else {
				for i := oc.i1; i < oc.i2; i++ {
					plan = append(plan, Op{Type: OpDelete, ID: old[i].ID})
				}
				for j := oc.j1; j < oc.j2; j++ {
					plan = append(plan, Op{Type: OpInsert, Slice: slices[j]})
				}
			}
		case tagDelete:
			for i := oc.i1; i < oc.i2; i++ {
				plan = append(plan, Op{Type: OpDelete, ID: old[i].ID})
			}
		case tagInsert:
			for j := oc.j1; j < oc.j2; j++ {
				plan = append(plan, Op{Type: OpInsert, Slice: slices[j]})
			}
		}
	}

	return plan
}

type tag int

const (
	tagEqual tag = iota
	tagReplace
	tagDelete
	tagInsert
)

// opcode describes what happens to a[i1:i2] versus b[j1:j2].
type opcode struct {
	tag    tag
	i1, i2 int
	j1, j2 int
}

// opcodes computes an LCS-based edit script between a and b. The returned
// opcodes are contiguous: each starts where the previous one ended, covering
// both sequences exactly.
func opcodes(a, b []string) []opcode {
	matches := lcsPairs(a, b)

	var ops []opcode
	ai, bj := 0, 0

	flushGap := func(i, j int) {
		switch {
		case ai < i && bj < j:
			ops = append(ops, opcode{tagReplace, ai, i, bj, j})
		case ai < i:
			ops = append(ops, opcode{tagDelete, ai, i, bj, j})
		case bj < j:
			ops = append(ops, opcode{tagInsert, ai, i, bj, j})
		}
	}

	for k := 0; k < len(matches); {
		i, j := matches[k].i, matches[k].j
		flushGap(i, j)

		// Extend the run of adjacent matches.
		run := k
		for run+1 < len(matches) &&
			matches[run+1].i == matches[run].i+1 &&
			matches[run+1].j == matches[run].j+1 {
			run++
		}
		ops = append(ops, opcode{tagEqual, i, matches[run].i + 1, j, matches[run].j + 1})
		ai, bj = matches[run].i+1, matches[run].j+1
		k = run + 1
	}

	flushGap(len(a), len(b))
	return ops
}

type pair struct{ i, j int }

// lcsPairs returns index pairs of a longest common subsequence of a and b,
// in increasing order, via the classic dynamic program.
func lcsPairs(a, b []string) []pair {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}

	// table[i][j] = LCS length of a[i:] vs b[j:]
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	pairs := make([]pair, 0, table[0][0])
	for i, j := 0, 0; i < n && j < m; {
		switch {
		case a[i] == b[j]:
			pairs = append(pairs, pair{i, j})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}
