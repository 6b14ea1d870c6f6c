package tutor

import (
	"fmt"

	"codetutor/internal/model"
)

// Slide pairs one virtual file system with a markdown narrative. The file
// system reference is replaced wholesale, never merged, so consumers never
// observe a slide mid-replacement.
type Slide struct {
	fs       *FileSystem
	markdown string
	frozen   *model.FileSystemData
	clock    Clock
	idgen    IDGenerator
}

// NewSlide builds a slide from its serialized form. A zero SlideData
// yields an empty slide.
func NewSlide(data model.SlideData, clock Clock, idgen IDGenerator) *Slide {
	return &Slide{
		fs:       NewFileSystemFromData(data.FS, clock, idgen),
		markdown: data.Markdown,
		clock:    clock,
		idgen:    idgen,
	}
}

// FileSystem returns the slide's current file system.
func (s *Slide) FileSystem() *FileSystem { return s.fs }

// Markdown returns the slide's narrative text.
func (s *Slide) Markdown() string { return s.markdown }

// SetMarkdown replaces the narrative text.
func (s *Slide) SetMarkdown(text string) { s.markdown = text }

// SetFilesFromSlide replaces the file system wholesale with one rebuilt
// from another slide's snapshot. Used for "copy from a previous slide".
func (s *Slide) SetFilesFromSlide(data model.SlideData) {
	s.fs = NewFileSystemFromData(data.FS, s.clock, s.idgen)
}

// SetFilesFromImport replaces the file system wholesale with the given
// imported files, assigning synthetic sequential ids and opening files
// with an editable extension.
func (s *Slide) SetFilesFromImport(files []model.RepoFile) {
	data := model.FileSystemData{Files: make([]model.FileData, 0, len(files))}
	for i, f := range files {
		data.Files = append(data.Files, model.FileData{
			ID:     fmt.Sprintf("import%d", i),
			Doc:    f.Doc,
			Path:   f.Path,
			Opened: IsEditablePath(f.Path),
		})
	}
	s.fs = NewFileSystemFromData(data, s.clock, s.idgen)
}

// Freeze snapshots the current file system serialization. Idempotent: a
// later Freeze overwrites any prior snapshot with the latest state.
func (s *Slide) Freeze() {
	snapshot := s.fs.Serialize()
	s.frozen = &snapshot
}

// Reset rebuilds a fresh file system from the most recent snapshot,
// discarding edits made since Freeze. A slide that was never frozen is
// left untouched.
func (s *Slide) Reset() {
	if s.frozen == nil {
		return
	}
	s.fs = NewFileSystemFromData(*s.frozen, s.clock, s.idgen)
}

// Serialize returns the slide's durable form.
func (s *Slide) Serialize() model.SlideData {
	return model.SlideData{
		FS:       s.fs.Serialize(),
		Markdown: s.markdown,
	}
}
