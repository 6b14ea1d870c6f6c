package tutor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"codetutor/internal/model"
)

// ErrNotFound is returned when a project id matches nothing in the store.
var ErrNotFound = errors.New("project not found")

// ErrBusy is returned when a save or import is already in flight. There
// is no cancellation for pending requests; a re-entrant submit is simply
// refused.
var ErrBusy = errors.New("operation already in flight")

const starterMarkdown = "# New slide\n\nDescribe this step of the tutorial.\n"

// TutorService is the orchestration layer that coordinates the state
// engine with its external collaborators: the persistence store and the
// repository fetcher.
type TutorService struct {
	store   ProjectStore
	fetcher RepoFetcher
	logger  Logger
	clock   Clock
	idgen   IDGenerator

	saving    atomic.Bool
	importing atomic.Bool
}

// NewTutorService creates a new TutorService with the provided dependencies.
func NewTutorService(store ProjectStore, fetcher RepoFetcher, logger Logger, clock Clock, idgen IDGenerator) *TutorService {
	return &TutorService{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
	}
}

// NewProject synthesizes a starter project: one slide holding a single
// markdown file, in edit mode so the author can start typing.
func (s *TutorService) NewProject(title string) *Project {
	data := model.ProjectData{
		Title: title,
		Slides: []model.SlideData{{
			FS: model.FileSystemData{
				Files: []model.FileData{{
					ID:     s.idgen.New(),
					Doc:    "console.log(\"hello\");\n",
					Path:   "index.js",
					Opened: true,
				}},
			},
			Markdown: starterMarkdown,
		}},
	}
	p := NewProject(data, "", "", s.clock, s.idgen)
	p.SetPreviewMode(false)
	return p
}

// LoadProject fetches a project by id and rebuilds its state. A missing
// id yields ErrNotFound rather than a nil project.
func (s *TutorService) LoadProject(ctx context.Context, id string) (*Project, error) {
	stored, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	s.logger.Debug("project loaded", "id", stored.ID, "slides", len(stored.Data.Slides))
	return NewProject(stored.Data, stored.ID, stored.OwnerID, s.clock, s.idgen), nil
}

// SaveProject persists the project's serialized form and re-hydrates its
// persistence identity from the result. A save while another is in
// flight returns ErrBusy; the pending save is unaffected.
func (s *TutorService) SaveProject(ctx context.Context, p *Project, ownerID string) error {
	if !s.saving.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.saving.Store(false)

	result, err := s.store.Save(ctx, p.Serialize(), p.SavedID(), ownerID)
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}

	createdBy := p.CreatedBy()
	if createdBy == "" {
		createdBy = ownerID
	}
	p.MarkSaved(result.ID, createdBy)

	s.logger.Info("project saved", "id", result.ID, "updated_at", result.UpdatedAt)
	return nil
}

// ImportRepository fetches a repository listing and replaces the target
// slide's file system wholesale. Import is all-or-nothing: on any fetch
// error the slide is left untouched. A second import while one is in
// flight returns ErrBusy.
func (s *TutorService) ImportRepository(ctx context.Context, p *Project, slideIndex int, locator string) error {
	if !s.importing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.importing.Store(false)

	slide := p.Slide(slideIndex)
	if slide == nil {
		return fmt.Errorf("no slide at index %d", slideIndex)
	}

	files, err := s.fetcher.Fetch(ctx, locator)
	if err != nil {
		return fmt.Errorf("fetching repository %q: %w", locator, err)
	}

	slide.SetFilesFromImport(files)
	s.logger.Info("repository imported", "locator", locator, "files", len(files))
	return nil
}

// CopySlideFiles replaces the target slide's files with a snapshot of the
// source slide, the "carry forward from a previous slide" operation.
func (s *TutorService) CopySlideFiles(p *Project, fromIndex, toIndex int) error {
	from := p.Slide(fromIndex)
	to := p.Slide(toIndex)
	if from == nil || to == nil {
		return fmt.Errorf("slide index out of range (from %d, to %d)", fromIndex, toIndex)
	}
	to.SetFilesFromSlide(from.Serialize())
	return nil
}

// RuntimeTree exposes a slide's files as the nested directory tree the
// sandboxed runtime consumes.
func (s *TutorService) RuntimeTree(slide *Slide) map[string]*RuntimeEntry {
	return RuntimeTree(slide.FileSystem().FileList())
}

// ListProjects returns every stored project, newest first.
func (s *TutorService) ListProjects(ctx context.Context) ([]*model.StoredProject, error) {
	stored, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return stored, nil
}
