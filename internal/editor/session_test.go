package editor

import (
	"errors"
	"reflect"
	"testing"

	"codetutor/internal/model"
	"codetutor/internal/testutil"
	"codetutor/internal/tutor"
)

func newTestSession(t *testing.T, data model.FileData) (*Session, *tutor.FileRecord) {
	t.Helper()
	record := tutor.NewFileRecord(data, testutil.FixedClock())
	return NewSession(record), record
}

func TestNewSession_SeedsFromRecord(t *testing.T) {
	s, _ := newTestSession(t, model.FileData{
		ID:   "f1",
		Path: "a.js",
		Doc:  "hello world",
		CodeLinks: map[string]model.CodeLinkData{
			"l1": {ID: "l1", Name: "greeting", From: 0, To: 5},
		},
	})

	if s.Document() != "hello world" {
		t.Errorf("Document() = %q, want %q", s.Document(), "hello world")
	}
	if s.Version() != 0 {
		t.Errorf("Version() = %d, want 0", s.Version())
	}

	annotations := s.Annotations()
	if len(annotations) != 1 || annotations[0].ID != "l1" {
		t.Fatalf("Annotations() = %+v, want the seeded link", annotations)
	}

	decorations := s.Decorations()
	want := []Decoration{{Kind: DecorationMark, LinkID: "l1", From: 0, To: 5}}
	if !reflect.DeepEqual(decorations, want) {
		t.Errorf("Decorations() = %+v, want %+v", decorations, want)
	}
}

func TestNewSession_ClampsCorruptAnchors(t *testing.T) {
	s, record := newTestSession(t, model.FileData{
		ID:   "f1",
		Path: "a.js",
		Doc:  "short",
		CodeLinks: map[string]model.CodeLinkData{
			"l1": {ID: "l1", From: 2, To: 400},
		},
	})

	annotations := s.Annotations()
	if len(annotations) != 1 {
		t.Fatalf("len(Annotations()) = %d, want 1", len(annotations))
	}
	if annotations[0].To != 5 {
		t.Errorf("To = %d, want clamped to 5", annotations[0].To)
	}

	// The clamped anchor is written back to the record.
	link, _ := record.CodeLink("l1")
	if link.To != 5 {
		t.Errorf("record link To = %d, want 5", link.To)
	}
}

func TestSession_ApplyTransaction(t *testing.T) {
	t.Run("applies edits and bumps version", func(t *testing.T) {
		s, record := newTestSession(t, model.FileData{ID: "f1", Path: "a.js", Doc: "hello world"})

		result, err := s.ApplyTransaction(Transaction{
			Base:    0,
			Splices: []Splice{{From: 5, To: 5, Insert: ","}},
		})
		if err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}
		if result.Doc != "hello, world" {
			t.Errorf("Doc = %q, want %q", result.Doc, "hello, world")
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
		if record.Document() != "hello, world" {
			t.Errorf("record not synced: %q", record.Document())
		}
	})

	t.Run("stale base is rejected without side effects", func(t *testing.T) {
		s, _ := newTestSession(t, model.FileData{ID: "f1", Path: "a.js", Doc: "doc"})

		_, err := s.ApplyTransaction(Transaction{Base: 7})
		if !errors.Is(err, ErrStaleTransaction) {
			t.Fatalf("error = %v, want ErrStaleTransaction", err)
		}
		if s.Version() != 0 || s.Document() != "doc" {
			t.Error("session mutated by rejected transaction")
		}
	})

	t.Run("invalid splices leave the session unchanged", func(t *testing.T) {
		s, _ := newTestSession(t, model.FileData{ID: "f1", Path: "a.js", Doc: "doc"})

		_, err := s.ApplyTransaction(Transaction{
			Base:    0,
			Splices: []Splice{{From: 1, To: 99}},
		})
		if err == nil {
			t.Fatal("error = nil for out-of-bounds splice")
		}
		if s.Version() != 0 {
			t.Error("version bumped by invalid transaction")
		}
	})

	t.Run("remaps anchors and keeps decorations consistent", func(t *testing.T) {
		s, record := newTestSession(t, model.FileData{
			ID:   "f1",
			Path: "a.js",
			Doc:  "hello world",
			CodeLinks: map[string]model.CodeLinkData{
				"l1": {ID: "l1", From: 6, To: 11},
			},
		})

		// Insert before the link: it must shift, not grow.
		if _, err := s.ApplyTransaction(Transaction{
			Base:    0,
			Splices: []Splice{{From: 0, To: 0, Insert: ">> "}},
		}); err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}

		annotations := s.Annotations()
		if annotations[0].From != 9 || annotations[0].To != 14 {
			t.Errorf("anchor = [%d, %d), want [9, 14)", annotations[0].From, annotations[0].To)
		}

		link, _ := record.CodeLink("l1")
		if link.From != 9 || link.To != 14 {
			t.Errorf("record link = [%d, %d), want [9, 14)", link.From, link.To)
		}

		decorations := s.Decorations()
		want := []Decoration{{Kind: DecorationMark, LinkID: "l1", From: 9, To: 14}}
		if !reflect.DeepEqual(decorations, want) {
			t.Errorf("Decorations() = %+v, want %+v", decorations, want)
		}
	})

	t.Run("engulfed range survives as a widget", func(t *testing.T) {
		s, _ := newTestSession(t, model.FileData{
			ID:   "f1",
			Path: "a.js",
			Doc:  "hello world",
			CodeLinks: map[string]model.CodeLinkData{
				"l1": {ID: "l1", From: 6, To: 11},
			},
		})

		result, err := s.ApplyTransaction(Transaction{
			Base:    0,
			Splices: []Splice{{From: 5, To: 11}},
		})
		if err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}
		if len(result.Removed) != 0 {
			t.Errorf("Removed = %v, want none (range converts, not collected)", result.Removed)
		}

		annotations := s.Annotations()
		if len(annotations) != 1 || !annotations[0].Insertion {
			t.Fatalf("Annotations() = %+v, want one insertion", annotations)
		}
		decorations := s.Decorations()
		if len(decorations) != 1 || decorations[0].Kind != DecorationWidget {
			t.Errorf("Decorations() = %+v, want one widget", decorations)
		}
	})

	t.Run("insertion inside deletion is collected exactly once", func(t *testing.T) {
		s, record := newTestSession(t, model.FileData{
			ID:   "f1",
			Path: "a.js",
			Doc:  "hello world",
			CodeLinks: map[string]model.CodeLinkData{
				"l1": {ID: "l1", From: 7, To: 7, Insertion: true},
				"l2": {ID: "l2", From: 0, To: 4},
			},
		})

		result, err := s.ApplyTransaction(Transaction{
			Base:    0,
			Splices: []Splice{{From: 5, To: 11}},
		})
		if err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}

		if !reflect.DeepEqual(result.Removed, []string{"l1"}) {
			t.Errorf("Removed = %v, want [l1]", result.Removed)
		}
		if _, ok := record.CodeLink("l1"); ok {
			t.Error("record still holds the collected link's backing data")
		}
		if _, ok := record.CodeLink("l2"); !ok {
			t.Error("surviving link's backing data was cleared")
		}

		// A follow-up transaction must not report it again.
		next, err := s.ApplyTransaction(Transaction{
			Base:    1,
			Splices: []Splice{{From: 0, To: 1}},
		})
		if err != nil {
			t.Fatalf("second ApplyTransaction() error = %v", err)
		}
		if len(next.Removed) != 0 {
			t.Errorf("second Removed = %v, want none", next.Removed)
		}
	})

	t.Run("explicit selection wins over remapping", func(t *testing.T) {
		s, _ := newTestSession(t, model.FileData{ID: "f1", Path: "a.js", Doc: "hello"})

		sel := Range{From: 2, To: 4}
		if _, err := s.ApplyTransaction(Transaction{
			Base:      0,
			Splices:   []Splice{{From: 0, To: 0, Insert: "x"}},
			Selection: &sel,
		}); err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}
		if s.Selection() != sel {
			t.Errorf("Selection() = %+v, want %+v", s.Selection(), sel)
		}

		// Without an explicit selection the old one is remapped.
		if _, err := s.ApplyTransaction(Transaction{
			Base:    1,
			Splices: []Splice{{From: 0, To: 0, Insert: "y"}},
		}); err != nil {
			t.Fatalf("ApplyTransaction() error = %v", err)
		}
		if got := s.Selection(); got.From != 3 || got.To != 5 {
			t.Errorf("Selection() = %+v, want [3, 5]", got)
		}
	})
}

func TestSession_AddRemoveCodeLink(t *testing.T) {
	s, record := newTestSession(t, model.FileData{ID: "f1", Path: "a.js", Doc: "hello world"})

	a := s.AddCodeLink("", "greeting", 0, 5)
	if a.ID == "" {
		t.Fatal("AddCodeLink() returned empty id")
	}
	if _, ok := record.CodeLink(a.ID); !ok {
		t.Error("backing data not written to the record")
	}
	if len(s.Decorations()) != 1 {
		t.Error("decorations not recomputed after AddCodeLink")
	}

	t.Run("zero-width becomes insertion", func(t *testing.T) {
		point := s.AddCodeLink("pt", "", 3, 3)
		if !point.Insertion {
			t.Error("Insertion = false for zero-width link")
		}
	})

	t.Run("out-of-bounds offsets are clamped", func(t *testing.T) {
		clamped := s.AddCodeLink("big", "", 2, 500)
		if clamped.To != len("hello world") {
			t.Errorf("To = %d, want clamped to %d", clamped.To, len("hello world"))
		}
	})

	t.Run("remove clears state and backing data", func(t *testing.T) {
		s.RemoveCodeLink(a.ID)
		if _, ok := record.CodeLink(a.ID); ok {
			t.Error("backing data survived RemoveCodeLink")
		}
		for _, d := range s.Decorations() {
			if d.LinkID == a.ID {
				t.Error("decoration survived RemoveCodeLink")
			}
		}

		// Unknown ids are a no-op.
		s.RemoveCodeLink("missing")
	})
}
