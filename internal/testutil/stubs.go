package testutil

import (
	"context"

	"codetutor/internal/model"
)

// StubFetcher returns a canned file listing, or a fixed error. It records
// the locators it was asked for.
type StubFetcher struct {
	Files    []model.RepoFile
	Err      error
	Locators []string
}

func (f *StubFetcher) Fetch(ctx context.Context, locator string) ([]model.RepoFile, error) {
	f.Locators = append(f.Locators, locator)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Files, nil
}

// FailingStore wraps another ProjectStore and fails selected operations.
type FailingStore struct {
	SaveErr error
	LoadErr error
}

func (s *FailingStore) Save(ctx context.Context, data model.ProjectData, existingID, ownerID string) (*model.SaveResult, error) {
	return nil, s.SaveErr
}

func (s *FailingStore) Load(ctx context.Context, id string) (*model.StoredProject, error) {
	return nil, s.LoadErr
}

func (s *FailingStore) List(ctx context.Context) ([]*model.StoredProject, error) {
	return nil, s.LoadErr
}

func (s *FailingStore) Delete(ctx context.Context, id string) error { return nil }

func (s *FailingStore) Close() error { return nil }
