package editor

import (
	"fmt"
	"sort"
	"strings"
)

// Splice replaces the text in [From, To) with Insert. From == To is a
// pure insertion; an empty Insert is a pure deletion. Offsets are in the
// coordinates of the document the transaction was computed against.
type Splice struct {
	From   int
	To     int
	Insert string
}

// Range is a half-open [From, To) span; From == To is a cursor position.
type Range struct {
	From int
	To   int
}

// Transaction is one atomic batch of splices plus an optional new
// selection, applied to advance a document from one version to the next.
// Base is the document version the splices were computed against; a
// session refuses transactions whose Base does not match its current
// version, since remapped offsets would be meaningless.
type Transaction struct {
	Base      int
	Splices   []Splice
	Selection *Range
}

// Assoc controls how MapPos treats an insertion exactly at the mapped
// position.
type Assoc int

const (
	// AssocBefore keeps the position before text inserted at it. Range
	// ends use this so typing at the end of a link does not grow it.
	AssocBefore Assoc = iota
	// AssocAfter moves the position past text inserted at it. Range
	// starts use this so typing at the start of a link stays outside.
	AssocAfter
)

// normalized returns the splices sorted by From, validated to be
// non-overlapping and within the document bounds.
func (t Transaction) normalized(docLen int) ([]Splice, error) {
	splices := make([]Splice, len(t.Splices))
	copy(splices, t.Splices)
	sort.Slice(splices, func(i, j int) bool {
		if splices[i].From != splices[j].From {
			return splices[i].From < splices[j].From
		}
		return splices[i].To < splices[j].To
	})

	prevEnd := 0
	for i, sp := range splices {
		if sp.From < 0 || sp.To < sp.From || sp.To > docLen {
			return nil, fmt.Errorf("splice [%d, %d) out of bounds for document of length %d", sp.From, sp.To, docLen)
		}
		if i > 0 && sp.From < prevEnd {
			return nil, fmt.Errorf("splice [%d, %d) overlaps previous splice", sp.From, sp.To)
		}
		prevEnd = sp.To
	}
	return splices, nil
}

// Apply produces the new document from the old one. The transaction must
// have been validated against this document's length.
func (t Transaction) Apply(doc string) (string, error) {
	splices, err := t.normalized(len(doc))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	last := 0
	for _, sp := range splices {
		b.WriteString(doc[last:sp.From])
		b.WriteString(sp.Insert)
		last = sp.To
	}
	b.WriteString(doc[last:])
	return b.String(), nil
}

// mapPos maps an offset in the old document through the given normalized
// splices into the new document. Offsets before all edits are unchanged;
// offsets after an edit shift by its net length delta; an offset inside a
// deleted span collapses to the start of that span.
func mapPos(pos int, splices []Splice, assoc Assoc) int {
	delta := 0
	for _, sp := range splices {
		if pos < sp.From {
			break
		}
		if pos == sp.From {
			// Pure insertion at the position: assoc decides the side.
			// For a replacement starting here the position stays put.
			if sp.From == sp.To && assoc == AssocAfter {
				delta += len(sp.Insert)
			}
			break
		}
		if pos < sp.To {
			// Inside the deleted span: collapse to its start.
			return sp.From + delta
		}
		delta += len(sp.Insert) - (sp.To - sp.From)
	}
	return pos + delta
}

// MapPos maps a single offset through the transaction. The transaction's
// splices are normalized first; invalid transactions map positions as if
// empty. Use Session.ApplyTransaction for validated application.
func (t Transaction) MapPos(pos int, docLen int, assoc Assoc) int {
	splices, err := t.normalized(docLen)
	if err != nil {
		return clampOffset(pos, docLen)
	}
	return mapPos(pos, splices, assoc)
}
