package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"codetutor/internal/archive"
	"codetutor/internal/config"
	"codetutor/internal/github"
	"codetutor/internal/store"
	"codetutor/internal/tutor"
)

// TutorApp is the application layer between the CLI and TutorService.
// It constructs all dependencies from config, exposes high-level operations
// that load and persist projects by id, and manages the store lifecycle on
// Close.
type TutorApp struct {
	cfg     *config.Config
	store   tutor.ProjectStore
	service *tutor.TutorService
	logFile *os.File
}

// NewTutorApp creates a fully wired TutorApp from the given config.
// The caller must call Close when done.
func NewTutorApp(ctx context.Context, cfg *config.Config) (*TutorApp, error) {
	sessionID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, sessionID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	clock := tutor.RealClock{}
	idgen := tutor.UUIDGenerator{}

	st, err := store.NewStoreFromConfig(ctx, cfg.Store, clock, idgen)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	adapter := &slogAdapter{l: logger}
	fetcher := github.NewFetcher(http.DefaultClient, cfg.GitHub.APIBaseURL, cfg.GitHub.Token, adapter)
	svc := tutor.NewTutorService(st, fetcher, adapter, clock, idgen)

	return &TutorApp{
		cfg:     cfg,
		store:   st,
		service: svc,
		logFile: logFile,
	}, nil
}

// CreateProject creates a starter project, persists it, and returns its id.
func (a *TutorApp) CreateProject(ctx context.Context, title string) (string, error) {
	p := a.service.NewProject(title)
	if err := a.service.SaveProject(ctx, p, a.cfg.OwnerID); err != nil {
		return "", err
	}
	return p.SavedID(), nil
}

// LoadProject fetches a project by id.
func (a *TutorApp) LoadProject(ctx context.Context, id string) (*tutor.Project, error) {
	return a.service.LoadProject(ctx, id)
}

// ListProjects returns every stored project, newest first.
func (a *TutorApp) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	stored, err := a.service.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(stored))
	for _, sp := range stored {
		summaries = append(summaries, ProjectSummary{
			ID:     sp.ID,
			Title:  sp.Data.Title,
			Owner:  sp.OwnerID,
			Slides: len(sp.Data.Slides),
		})
	}
	return summaries, nil
}

// ProjectSummary is one row in a project listing.
type ProjectSummary struct {
	ID     string
	Title  string
	Owner  string
	Slides int
}

// DeleteProject removes a stored project. Only the owner may delete;
// projects with no recorded owner are deletable by anyone.
func (a *TutorApp) DeleteProject(ctx context.Context, id string) error {
	stored, err := a.store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	if stored == nil {
		return tutor.ErrNotFound
	}
	if stored.OwnerID != "" && stored.OwnerID != a.cfg.OwnerID {
		return fmt.Errorf("project %s is owned by %s", id, stored.OwnerID)
	}
	return a.store.Delete(ctx, id)
}

// ImportRepository replaces one slide's files with a repository listing
// and persists the result.
func (a *TutorApp) ImportRepository(ctx context.Context, projectID string, slideIndex int, locator string) error {
	p, err := a.service.LoadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := a.service.ImportRepository(ctx, p, slideIndex, locator); err != nil {
		return err
	}
	return a.service.SaveProject(ctx, p, a.cfg.OwnerID)
}

// ExportProject writes a project's encrypted bundle to w.
func (a *TutorApp) ExportProject(ctx context.Context, id string, w io.Writer, passphrase string) error {
	p, err := a.service.LoadProject(ctx, id)
	if err != nil {
		return err
	}
	return archive.Export(w, p.Serialize(), passphrase)
}

// ImportBundle reads an encrypted bundle from r and persists it as a new
// project owned by the configured user. Returns the new project id.
func (a *TutorApp) ImportBundle(ctx context.Context, r io.Reader, passphrase string) (string, error) {
	data, err := archive.Import(r, passphrase)
	if err != nil {
		return "", err
	}

	p := tutor.NewProject(*data, "", a.cfg.OwnerID, tutor.RealClock{}, tutor.UUIDGenerator{})
	if err := a.service.SaveProject(ctx, p, a.cfg.OwnerID); err != nil {
		return "", err
	}
	return p.SavedID(), nil
}

// RuntimeTree returns the nested directory tree for one slide of a project.
func (a *TutorApp) RuntimeTree(ctx context.Context, projectID string, slideIndex int) (map[string]*tutor.RuntimeEntry, error) {
	p, err := a.service.LoadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	slide := p.Slide(slideIndex)
	if slide == nil {
		return nil, fmt.Errorf("no slide at index %d", slideIndex)
	}
	return a.service.RuntimeTree(slide), nil
}

// Close releases the store and the log file.
func (a *TutorApp) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
