package editor

import "sort"

// DecorationKind distinguishes the visual pieces a code link decomposes
// into on the editing surface.
type DecorationKind int

const (
	// DecorationMark is a text mark within a single line.
	DecorationMark DecorationKind = iota
	// DecorationFirstLine marks from the anchor start to its line's end.
	DecorationFirstLine
	// DecorationBetweenLine highlights a whole line fully enclosed by the
	// anchor.
	DecorationBetweenLine
	// DecorationLastLine marks from a line's start to the anchor end.
	DecorationLastLine
	// DecorationWidget replaces a zero-width anchor with an inline widget.
	DecorationWidget
)

// Decoration is a derived, purely visual span computed from the current
// document and annotation set. Line decorations carry the line's full
// span; widgets have From == To.
type Decoration struct {
	Kind   DecorationKind
	LinkID string
	From   int
	To     int
}

// decorationsFor decomposes every annotation into its visual pieces
// against the given document. The result is deterministic and sorted by
// From ascending, which the decoration-set builder downstream requires.
//
// Single-line ranges yield one mark. Multi-line ranges yield a first-line
// mark to the end of the start line, a between-line decoration for every
// fully enclosed line, and a last-line mark only when the anchor ends
// strictly past the last line's start; an anchor ending exactly at a
// line start contributes no empty mark. A first-line segment that is
// itself empty (anchor starting at a line end) degrades to a between-line
// decoration so the line still reads as linked. Zero-width anchors yield
// a single widget.
func decorationsFor(doc string, annotations []Annotation) []Decoration {
	ix := newLineIndex(doc)
	var decorations []Decoration

	for _, a := range annotations {
		if a.Insertion {
			decorations = append(decorations, Decoration{
				Kind:   DecorationWidget,
				LinkID: a.ID,
				From:   a.From,
				To:     a.From,
			})
			continue
		}

		startLine := ix.lineAt(a.From)
		endLine := ix.lineAt(a.To)

		if startLine == endLine {
			decorations = append(decorations, Decoration{
				Kind:   DecorationMark,
				LinkID: a.ID,
				From:   a.From,
				To:     a.To,
			})
			continue
		}

		firstEnd := ix.lineEnd(startLine)
		if a.From < firstEnd {
			decorations = append(decorations, Decoration{
				Kind:   DecorationFirstLine,
				LinkID: a.ID,
				From:   a.From,
				To:     firstEnd,
			})
		} else {
			decorations = append(decorations, Decoration{
				Kind:   DecorationBetweenLine,
				LinkID: a.ID,
				From:   ix.lineStart(startLine),
				To:     firstEnd,
			})
		}

		for line := startLine + 1; line < endLine; line++ {
			decorations = append(decorations, Decoration{
				Kind:   DecorationBetweenLine,
				LinkID: a.ID,
				From:   ix.lineStart(line),
				To:     ix.lineEnd(line),
			})
		}

		if lastStart := ix.lineStart(endLine); a.To > lastStart {
			decorations = append(decorations, Decoration{
				Kind:   DecorationLastLine,
				LinkID: a.ID,
				From:   lastStart,
				To:     a.To,
			})
		}
	}

	sort.SliceStable(decorations, func(i, j int) bool {
		if decorations[i].From != decorations[j].From {
			return decorations[i].From < decorations[j].From
		}
		if decorations[i].LinkID != decorations[j].LinkID {
			return decorations[i].LinkID < decorations[j].LinkID
		}
		return decorations[i].Kind < decorations[j].Kind
	})
	return decorations
}
