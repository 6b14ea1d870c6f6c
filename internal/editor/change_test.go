package editor

import (
	"strings"
	"testing"
)

func TestTransaction_Apply(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		splices []Splice
		want    string
		wantErr bool
	}{
		{
			name:    "pure insertion",
			doc:     "hello world",
			splices: []Splice{{From: 5, To: 5, Insert: ","}},
			want:    "hello, world",
		},
		{
			name:    "pure deletion",
			doc:     "hello world",
			splices: []Splice{{From: 5, To: 11}},
			want:    "hello",
		},
		{
			name:    "replacement",
			doc:     "hello world",
			splices: []Splice{{From: 6, To: 11, Insert: "there"}},
			want:    "hello there",
		},
		{
			name: "multiple splices applied atomically",
			doc:  "aaa bbb ccc",
			splices: []Splice{
				{From: 0, To: 3, Insert: "X"},
				{From: 8, To: 11, Insert: "Y"},
			},
			want: "X bbb Y",
		},
		{
			name: "unsorted input is normalized",
			doc:  "aaa bbb ccc",
			splices: []Splice{
				{From: 8, To: 11, Insert: "Y"},
				{From: 0, To: 3, Insert: "X"},
			},
			want: "X bbb Y",
		},
		{
			name:    "empty transaction",
			doc:     "unchanged",
			splices: nil,
			want:    "unchanged",
		},
		{
			name:    "out of bounds",
			doc:     "short",
			splices: []Splice{{From: 3, To: 10}},
			wantErr: true,
		},
		{
			name:    "negative offset",
			doc:     "short",
			splices: []Splice{{From: -1, To: 2}},
			wantErr: true,
		},
		{
			name: "overlapping splices",
			doc:  "hello world",
			splices: []Splice{
				{From: 0, To: 6},
				{From: 4, To: 8},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Transaction{Splices: tt.splices}
			got, err := tr.Apply(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapPos(t *testing.T) {
	// Working document: "0123456789", replace [3, 6) with "ab".
	replace := []Splice{{From: 3, To: 6, Insert: "ab"}}
	insert := []Splice{{From: 4, To: 4, Insert: "xx"}}
	deleteMid := []Splice{{From: 2, To: 7}}

	tests := []struct {
		name    string
		splices []Splice
		pos     int
		assoc   Assoc
		want    int
	}{
		{name: "before edit unchanged", splices: replace, pos: 2, assoc: AssocBefore, want: 2},
		{name: "at replacement start stays put", splices: replace, pos: 3, assoc: AssocAfter, want: 3},
		{name: "inside replaced span collapses to start", splices: replace, pos: 5, assoc: AssocBefore, want: 3},
		{name: "after edit shifts by net delta", splices: replace, pos: 8, assoc: AssocBefore, want: 7},

		{name: "insert at point keeps AssocBefore", splices: insert, pos: 4, assoc: AssocBefore, want: 4},
		{name: "insert at point moves AssocAfter", splices: insert, pos: 4, assoc: AssocAfter, want: 6},
		{name: "insert before position shifts it", splices: insert, pos: 7, assoc: AssocBefore, want: 9},

		{name: "deletion start", splices: deleteMid, pos: 2, assoc: AssocAfter, want: 2},
		{name: "inside deletion collapses", splices: deleteMid, pos: 5, assoc: AssocAfter, want: 2},
		{name: "deletion end maps to start", splices: deleteMid, pos: 7, assoc: AssocBefore, want: 2},
		{name: "after deletion shifts back", splices: deleteMid, pos: 9, assoc: AssocBefore, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapPos(tt.pos, tt.splices, tt.assoc); got != tt.want {
				t.Errorf("mapPos(%d) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestTransaction_MapPos_InvalidClamps(t *testing.T) {
	tr := Transaction{Splices: []Splice{{From: 5, To: 99}}}
	if got := tr.MapPos(20, 10, AssocBefore); got != 10 {
		t.Errorf("MapPos() = %d on invalid transaction, want clamp to 10", got)
	}
}

func TestLineIndex(t *testing.T) {
	doc := "one\ntwo\n\nfour"
	ix := newLineIndex(doc)

	if ix.lineCount() != 4 {
		t.Fatalf("lineCount() = %d, want 4", ix.lineCount())
	}

	tests := []struct {
		pos  int
		want int
	}{
		{pos: 0, want: 0},
		{pos: 3, want: 0},  // the newline belongs to line 0
		{pos: 4, want: 1},  // first char of "two"
		{pos: 8, want: 2},  // the empty line
		{pos: 9, want: 3},  // first char of "four"
		{pos: 13, want: 3}, // end of document
		{pos: -5, want: 0},
		{pos: 99, want: 3},
	}
	for _, tt := range tests {
		if got := ix.lineAt(tt.pos); got != tt.want {
			t.Errorf("lineAt(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}

	if start, end := ix.lineStart(1), ix.lineEnd(1); start != 4 || end != 7 {
		t.Errorf("line 1 = [%d, %d), want [4, 7)", start, end)
	}
	if start, end := ix.lineStart(2), ix.lineEnd(2); start != 8 || end != 8 {
		t.Errorf("empty line = [%d, %d), want [8, 8)", start, end)
	}
	if end := ix.lineEnd(3); end != len(doc) {
		t.Errorf("last lineEnd() = %d, want %d", end, len(doc))
	}
}

func TestLineIndex_EmptyDoc(t *testing.T) {
	ix := newLineIndex("")
	if ix.lineCount() != 1 {
		t.Errorf("lineCount() = %d for empty doc, want 1", ix.lineCount())
	}
	if ix.lineAt(0) != 0 {
		t.Errorf("lineAt(0) = %d, want 0", ix.lineAt(0))
	}
}

func TestTransaction_Apply_LargeDoc(t *testing.T) {
	doc := strings.Repeat("line\n", 1000)
	tr := Transaction{Splices: []Splice{{From: 0, To: 5, Insert: "first\n"}}}
	got, err := tr.Apply(doc)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(got) != len(doc)+1 {
		t.Errorf("len = %d, want %d", len(got), len(doc)+1)
	}
}
