package editor

import (
	"fmt"

	"codetutor/internal/model"
)

// Annotation is a live code-link anchor: either a [From, To) text range
// rendered as marked text, or (when Insertion is true) a single point at
// From rendered as an inline widget. Anchors are remapped through every
// transaction so they survive arbitrary edits.
type Annotation struct {
	ID        string
	Name      string
	From      int
	To        int
	Insertion bool
}

// NewAnnotation builds a range annotation for a selection. A zero-width
// or inverted selection yields an insertion annotation at from. The id is
// derived from the file path and the anchor when not supplied externally.
func NewAnnotation(id, name, path string, from, to int) Annotation {
	if id == "" {
		id = fmt.Sprintf("%s-%d-%d", path, from, to)
	}
	if name == "" {
		name = id
	}
	a := Annotation{ID: id, Name: name, From: from, To: to}
	if to <= from {
		a.To = from
		a.Insertion = true
	}
	return a
}

// annotationFromData rebuilds an annotation from its backing data,
// defensively clamping malformed anchors into the document bounds. A
// corrupt anchor must never make the surface unrenderable.
func annotationFromData(data model.CodeLinkData, docLen int) Annotation {
	from := clampOffset(data.From, docLen)
	to := clampOffset(data.To, docLen)
	a := Annotation{
		ID:        data.ID,
		Name:      data.Name,
		From:      from,
		To:        to,
		Insertion: data.Insertion,
	}
	if to <= from {
		a.To = a.From
		a.Insertion = true
	}
	return a
}

// data returns the annotation's backing form.
func (a Annotation) data() model.CodeLinkData {
	return model.CodeLinkData{
		ID:        a.ID,
		Name:      a.Name,
		From:      a.From,
		To:        a.To,
		Insertion: a.Insertion,
	}
}

// mapThrough remaps the anchor through a transaction's normalized
// splices. The second result is false when the annotation did not
// survive: an insertion point whose anchor fell strictly inside deleted
// text is gone, and its backing data should be cleared.
//
// A range that collapses to zero width is not dropped: it reclassifies as
// an insertion annotation at the collapse point. That conversion is a
// first-class rule, not a degenerate case.
func (a Annotation) mapThrough(splices []Splice) (Annotation, bool) {
	if a.Insertion {
		for _, sp := range splices {
			if a.From > sp.From && a.From < sp.To {
				return Annotation{}, false
			}
		}
		a.From = mapPos(a.From, splices, AssocBefore)
		a.To = a.From
		return a, true
	}

	a.From = mapPos(a.From, splices, AssocAfter)
	a.To = mapPos(a.To, splices, AssocBefore)
	if a.To <= a.From {
		a.To = a.From
		a.Insertion = true
	}
	return a, true
}
