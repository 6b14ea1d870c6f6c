package tutor

import (
	"context"

	"codetutor/internal/model"
)

// ProjectStore provides an interface for project persistence backends.
// The engine only needs save and load; it does not care about the storage
// technology behind them.
type ProjectStore interface {
	// Save persists the project payload. An empty existingID creates a new
	// record and allocates its id; a non-empty one upserts in place.
	// ownerID identifies the saving user and becomes the owner on create.
	Save(ctx context.Context, data model.ProjectData, existingID, ownerID string) (*model.SaveResult, error)

	// Load retrieves a project by id. Returns (nil, nil) when no project
	// with that id exists, so callers can redirect without a type switch.
	Load(ctx context.Context, id string) (*model.StoredProject, error)

	// List returns every stored project, newest first.
	List(ctx context.Context) ([]*model.StoredProject, error)

	// Delete removes a stored project. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// RepoFetcher retrieves the file listing of an external repository.
// Implementations fetch over the network; failures surface as errors and
// never as partial file sets.
type RepoFetcher interface {
	// Fetch returns the files under "owner/repo[/subdir]". An invalid
	// locator fails before any network call.
	Fetch(ctx context.Context, locator string) ([]model.RepoFile, error)
}
