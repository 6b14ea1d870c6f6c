package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codetutor/internal/model"
	"codetutor/internal/store/migrations"
	"codetutor/internal/tutor"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the ProjectStore interface using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	clock tutor.Clock
	idgen tutor.IDGenerator
}

// NewSQLiteStore creates a new SQLite-backed project store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string, clock tutor.Clock, idgen tutor.IDGenerator) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteStore{
		db:    db,
		path:  path,
		clock: clock,
		idgen: idgen,
	}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate brings the schema to the latest version.
func (s *SQLiteStore) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Save persists the project payload. An empty existingID allocates a new
// record id; a non-empty one upserts in place, preserving the original
// owner and creation time.
func (s *SQLiteStore) Save(ctx context.Context, data model.ProjectData, existingID, ownerID string) (*model.SaveResult, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	now := s.clock.Now()
	id := existingID
	if id == "" {
		id = s.idgen.New()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, ownerID, string(encoded), now, now)
	if err != nil {
		return nil, fmt.Errorf("saving project: %w", err)
	}

	return &model.SaveResult{ID: id, UpdatedAt: now}, nil
}

// Load retrieves a project by id. Returns (nil, nil) when not found.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*model.StoredProject, error) {
	var ownerID, encoded string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, data FROM projects WHERE id = ?`, id).Scan(&ownerID, &encoded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	var data model.ProjectData
	if err := json.Unmarshal([]byte(encoded), &data); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &model.StoredProject{ID: id, OwnerID: ownerID, Data: data}, nil
}

// List returns every stored project, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*model.StoredProject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, data FROM projects ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.StoredProject
	for rows.Next() {
		var id, ownerID, encoded string
		if err := rows.Scan(&id, &ownerID, &encoded); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}

		var data model.ProjectData
		if err := json.Unmarshal([]byte(encoded), &data); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
		}
		projects = append(projects, &model.StoredProject{ID: id, OwnerID: ownerID, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Delete removes a stored project. Unknown ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements the ProjectStore interface
var _ tutor.ProjectStore = (*SQLiteStore)(nil)
