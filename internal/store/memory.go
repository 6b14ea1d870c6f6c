package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"codetutor/internal/model"
	"codetutor/internal/tutor"
)

// memoryRecord is one stored project. The payload is kept as encoded JSON
// so loads never alias a caller's slices.
type memoryRecord struct {
	ownerID   string
	data      []byte
	createdAt time.Time
	updatedAt time.Time
}

// MemoryStore is an in-memory implementation of the ProjectStore
// interface. It is useful for testing and for running without any
// configured persistence. Safe for concurrent use.
type MemoryStore struct {
	records map[string]*memoryRecord
	clock   tutor.Clock
	idgen   tutor.IDGenerator
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory project store.
func NewMemoryStore(clock tutor.Clock, idgen tutor.IDGenerator) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
		clock:   clock,
		idgen:   idgen,
	}
}

// Save persists the project payload. An empty existingID allocates a new
// record id; a non-empty one upserts in place.
func (m *MemoryStore) Save(ctx context.Context, data model.ProjectData, existingID, ownerID string) (*model.SaveResult, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	id := existingID
	if id == "" {
		id = m.idgen.New()
	}

	if rec, ok := m.records[id]; ok {
		rec.data = encoded
		rec.updatedAt = now
		return &model.SaveResult{ID: id, UpdatedAt: now}, nil
	}

	m.records[id] = &memoryRecord{
		ownerID:   ownerID,
		data:      encoded,
		createdAt: now,
		updatedAt: now,
	}
	return &model.SaveResult{ID: id, UpdatedAt: now}, nil
}

// Load retrieves a project by id. Returns (nil, nil) when not found.
func (m *MemoryStore) Load(ctx context.Context, id string) (*model.StoredProject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}

	var data model.ProjectData
	if err := json.Unmarshal(rec.data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &model.StoredProject{ID: id, OwnerID: rec.ownerID, Data: data}, nil
}

// List returns every stored project, newest first.
func (m *MemoryStore) List(ctx context.Context) ([]*model.StoredProject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	// Newest first; ties broken by id so listings are stable.
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.records[ids[i]], m.records[ids[j]]
		if !a.updatedAt.Equal(b.updatedAt) {
			return a.updatedAt.After(b.updatedAt)
		}
		return ids[i] < ids[j]
	})

	projects := make([]*model.StoredProject, 0, len(ids))
	for _, id := range ids {
		rec := m.records[id]
		var data model.ProjectData
		if err := json.Unmarshal(rec.data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
		}
		projects = append(projects, &model.StoredProject{ID: id, OwnerID: rec.ownerID, Data: data})
	}
	return projects, nil
}

// Delete removes a stored project. Unknown ids are a no-op.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, id)
	return nil
}

// Close releases nothing for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// Compile-time check that MemoryStore implements the ProjectStore interface
var _ tutor.ProjectStore = (*MemoryStore)(nil)
