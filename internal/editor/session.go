package editor

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"codetutor/internal/tutor"
)

// Session bridges one FileRecord's document to a live editing surface.
// It applies edit transactions back into the record, keeps every code
// link's anchor valid across edits, and recomputes the derived decoration
// set on each change.
//
// All mutation happens under one mutex, so a consumer reading the
// document and the decoration set in the same synchronous call observes a
// mutually consistent pair: never a document at transaction N with
// decorations at N-1.
type Session struct {
	mu          sync.Mutex
	file        *tutor.FileRecord
	doc         string
	version     int
	annotations map[string]Annotation
	decorations []Decoration
	selection   Range
}

// ApplyResult reports the outcome of one transaction.
type ApplyResult struct {
	Version int
	Doc     string
	// Removed lists the annotation ids garbage-collected by this
	// transaction. Their backing data on the file record has been
	// cleared.
	Removed []string
}

// ErrStaleTransaction is returned when a transaction's Base does not
// match the session's current version. Applying it would make every
// remapped offset meaningless.
var ErrStaleTransaction = errors.New("stale transaction")

// NewSession binds a session to a file record, seeding the document and
// the annotation set from the record's current state. Malformed anchors
// in the backing data are clamped, never rejected.
func NewSession(file *tutor.FileRecord) *Session {
	s := &Session{
		file:        file,
		doc:         file.Document(),
		annotations: make(map[string]Annotation),
	}
	for _, link := range file.CodeLinks() {
		a := annotationFromData(link, len(s.doc))
		s.annotations[a.ID] = a
		file.SetCodeLink(a.data())
	}
	s.decorations = decorationsFor(s.doc, s.annotationList())
	return s
}

// Document returns the session's current document text.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Version returns the current document version. Transactions must carry
// this value as their Base.
func (s *Session) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Selection returns the current selection range.
func (s *Session) Selection() Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Decorations returns the current decoration set, sorted by From.
func (s *Session) Decorations() []Decoration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Decoration, len(s.decorations))
	copy(out, s.decorations)
	return out
}

// Annotations returns the live annotations sorted by id.
func (s *Session) Annotations() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotationList()
}

// ApplyTransaction advances the document by one transaction: it applies
// the splices, pushes the new text into the file record, remaps every
// anchor, recomputes decorations, and clears the backing data of any
// annotation that did not survive.
//
// Transactions must arrive strictly in order: one whose Base does not
// match the session version is rejected without side effects.
func (s *Session) ApplyTransaction(tr Transaction) (*ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tr.Base != s.version {
		return nil, fmt.Errorf("%w: base %d, session at version %d", ErrStaleTransaction, tr.Base, s.version)
	}

	splices, err := tr.normalized(len(s.doc))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	newDoc, err := tr.Apply(s.doc)
	if err != nil {
		return nil, fmt.Errorf("applying transaction: %w", err)
	}

	var removed []string
	remapped := make(map[string]Annotation, len(s.annotations))
	for id, a := range s.annotations {
		mapped, ok := a.mapThrough(splices)
		if !ok {
			removed = append(removed, id)
			continue
		}
		remapped[id] = mapped
	}
	sort.Strings(removed)

	s.doc = newDoc
	s.version++
	s.annotations = remapped
	if tr.Selection != nil {
		s.selection = *tr.Selection
	} else {
		s.selection = Range{
			From: mapPos(s.selection.From, splices, AssocBefore),
			To:   mapPos(s.selection.To, splices, AssocBefore),
		}
	}
	s.decorations = decorationsFor(s.doc, s.annotationList())

	// Sync the backing store: update surviving anchors, clear the rest.
	s.file.SetDocument(newDoc)
	for _, a := range s.annotations {
		s.file.SetCodeLink(a.data())
	}
	for _, id := range removed {
		s.file.RemoveCodeLink(id)
	}

	return &ApplyResult{Version: s.version, Doc: newDoc, Removed: removed}, nil
}

// AddCodeLink creates an annotation over the current selection range and
// records its backing data on the file. A zero-width range produces an
// insertion annotation. Out-of-bounds offsets are clamped.
func (s *Session) AddCodeLink(id, name string, from, to int) Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	from = clampOffset(from, len(s.doc))
	to = clampOffset(to, len(s.doc))
	a := NewAnnotation(id, name, s.file.Path(), from, to)
	s.annotations[a.ID] = a
	s.file.SetCodeLink(a.data())
	s.decorations = decorationsFor(s.doc, s.annotationList())
	return a
}

// RemoveCodeLink drops an annotation explicitly and clears its backing
// data. Unknown ids are a no-op.
func (s *Session) RemoveCodeLink(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.annotations[id]; !ok {
		return
	}
	delete(s.annotations, id)
	s.file.RemoveCodeLink(id)
	s.decorations = decorationsFor(s.doc, s.annotationList())
}

// annotationList returns the live annotations sorted by id for
// deterministic iteration. Callers must hold the mutex.
func (s *Session) annotationList() []Annotation {
	list := make([]Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
