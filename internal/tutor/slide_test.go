package tutor

import (
	"testing"

	"codetutor/internal/model"
	"codetutor/internal/testutil"
)

func newTestSlide(t *testing.T, data model.SlideData) *Slide {
	t.Helper()
	return NewSlide(data, testutil.FixedClock(), testutil.NewStubIDGenerator())
}

func slideWithFile(t *testing.T) *Slide {
	t.Helper()
	return newTestSlide(t, model.SlideData{
		FS: model.FileSystemData{
			Files: []model.FileData{{ID: "a", Path: "a.js", Doc: "original", Opened: true}},
		},
		Markdown: "# Step",
	})
}

func TestSlide_FreezeReset(t *testing.T) {
	t.Run("reset discards edits since freeze", func(t *testing.T) {
		s := slideWithFile(t)
		s.Freeze()

		record, _ := s.FileSystem().File("a")
		record.SetDocument("edited")
		s.FileSystem().AddFile("extra", "extra.js")

		s.Reset()

		record, ok := s.FileSystem().File("a")
		if !ok {
			t.Fatal("file a lost across Reset")
		}
		if record.Document() != "original" {
			t.Errorf("Document() = %q after Reset, want %q", record.Document(), "original")
		}
		if len(s.FileSystem().FileList()) != 1 {
			t.Error("file added after Freeze survived Reset")
		}
	})

	t.Run("later freeze overwrites the snapshot", func(t *testing.T) {
		s := slideWithFile(t)
		s.Freeze()

		record, _ := s.FileSystem().File("a")
		record.SetDocument("second")
		s.Freeze()
		record.SetDocument("third")

		s.Reset()
		record, _ = s.FileSystem().File("a")
		if record.Document() != "second" {
			t.Errorf("Document() = %q after Reset, want %q", record.Document(), "second")
		}
	})

	t.Run("reset without freeze is a no-op", func(t *testing.T) {
		s := slideWithFile(t)
		record, _ := s.FileSystem().File("a")
		record.SetDocument("edited")

		s.Reset()
		record, _ = s.FileSystem().File("a")
		if record.Document() != "edited" {
			t.Errorf("Document() = %q, want %q (never-frozen slide must keep edits)", record.Document(), "edited")
		}
	})

	t.Run("reset rebuilds an isolated file system", func(t *testing.T) {
		s := slideWithFile(t)
		s.Freeze()
		before := s.FileSystem()

		s.Reset()
		if s.FileSystem() == before {
			t.Error("Reset kept the old FileSystem pointer, want wholesale replacement")
		}
	})
}

func TestSlide_SetFilesFromImport(t *testing.T) {
	s := slideWithFile(t)
	s.SetFilesFromImport([]model.RepoFile{
		{Path: "src/index.js", Doc: "console.log(1);"},
		{Path: "logo.svg", Doc: "<svg/>"},
		{Path: "README.md", Doc: "# readme"},
	})

	list := s.FileSystem().FileList()
	if len(list) != 3 {
		t.Fatalf("len(FileList()) = %d, want 3", len(list))
	}

	wantIDs := []string{"import0", "import1", "import2"}
	wantOpened := []bool{true, false, true}
	for i, record := range list {
		if record.ID() != wantIDs[i] {
			t.Errorf("file %d id = %q, want %q", i, record.ID(), wantIDs[i])
		}
		if record.Opened() != wantOpened[i] {
			t.Errorf("file %d opened = %v, want %v", i, record.Opened(), wantOpened[i])
		}
	}

	if got := s.FileSystem().CurrentFileID(); got != "import0" {
		t.Errorf("CurrentFileID() = %q, want %q", got, "import0")
	}
}

func TestSlide_SetFilesFromSlide(t *testing.T) {
	src := slideWithFile(t)
	dst := newTestSlide(t, model.SlideData{Markdown: "# Other"})

	dst.SetFilesFromSlide(src.Serialize())

	record, ok := dst.FileSystem().File("a")
	if !ok {
		t.Fatal("copied file not found")
	}
	if record.Document() != "original" {
		t.Errorf("Document() = %q, want %q", record.Document(), "original")
	}
	if dst.Markdown() != "# Other" {
		t.Error("SetFilesFromSlide touched the markdown")
	}

	// The copy must be isolated from the source slide.
	srcRecord, _ := src.FileSystem().File("a")
	srcRecord.SetDocument("changed")
	if record.Document() != "original" {
		t.Error("copied file aliases the source record")
	}
}

func TestSlide_SerializeRoundTrip(t *testing.T) {
	data := model.SlideData{
		FS: model.FileSystemData{
			CurrentFileID: "a",
			Files:         []model.FileData{{ID: "a", Path: "a.js", Doc: "d", Opened: true}},
		},
		Markdown: "# Title",
	}
	s := newTestSlide(t, data)

	got := s.Serialize()
	if got.Markdown != data.Markdown {
		t.Errorf("Markdown = %q, want %q", got.Markdown, data.Markdown)
	}
	if got.FS.CurrentFileID != data.FS.CurrentFileID || len(got.FS.Files) != 1 {
		t.Errorf("FS = %+v, want %+v", got.FS, data.FS)
	}
}
