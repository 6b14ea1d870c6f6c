package editor

// lineIndex precomputes line boundaries for a document so decoration
// decomposition can translate between offsets and lines without rescanning
// the text per annotation.
type lineIndex struct {
	starts []int // offset of the first character of each line
	length int
}

func newLineIndex(doc string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(doc); i++ {
		if doc[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts, length: len(doc)}
}

// lineAt returns the zero-based line number containing the offset.
// Offsets are clamped to the document bounds.
func (ix *lineIndex) lineAt(pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos > ix.length {
		pos = ix.length
	}
	// Binary search for the last line start <= pos.
	lo, hi := 0, len(ix.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// lineStart returns the offset of the first character of line n.
func (ix *lineIndex) lineStart(n int) int { return ix.starts[n] }

// lineEnd returns the offset just past the last character of line n,
// excluding the trailing newline.
func (ix *lineIndex) lineEnd(n int) int {
	if n == len(ix.starts)-1 {
		return ix.length
	}
	return ix.starts[n+1] - 1
}

// lineCount returns the number of lines in the document. An empty
// document has one (empty) line.
func (ix *lineIndex) lineCount() int { return len(ix.starts) }

// clampOffset forces an offset into [0, len(doc)].
func clampOffset(pos, docLen int) int {
	if pos < 0 {
		return 0
	}
	if pos > docLen {
		return docLen
	}
	return pos
}
