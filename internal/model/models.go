package model

import "time"

// The types in this package are the serialized forms of the tutorial state.
// Each state type exposes a Serialize method returning one of these values,
// and can be rebuilt from the same value. ProjectData is the exact payload
// persisted by a ProjectStore, so it must round-trip without loss.

// ProjectData is the durable representation of a whole project.
type ProjectData struct {
	Title  string      `json:"title"`
	Slides []SlideData `json:"slides"`
}

// SlideData pairs one virtual file system with a markdown narrative.
type SlideData struct {
	FS       FileSystemData `json:"fs"`
	Markdown string         `json:"md"`
}

// FileSystemData is the serialized form of a slide's file collection.
// CurrentFileID is empty when no file is active.
type FileSystemData struct {
	CurrentFileID string     `json:"currentFileId,omitempty"`
	Files         []FileData `json:"files"`
}

// FileData is the serialized form of a single file.
type FileData struct {
	ID        string                  `json:"id"`
	Doc       string                  `json:"doc"`
	Path      string                  `json:"path"`
	Opened    bool                    `json:"opened"`
	CodeLinks map[string]CodeLinkData `json:"codeLinks,omitempty"`
}

// CodeLinkData is the backing data for a position-anchored code link.
// A link anchors either a [From, To) text range or, when Insertion is
// true, a single point at From.
type CodeLinkData struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Insertion bool   `json:"insertion,omitempty"`
}

// RepoFile is one file returned by a repository import.
type RepoFile struct {
	Path string
	Doc  string
}

// SaveResult is returned by a ProjectStore after a successful save.
type SaveResult struct {
	ID        string
	UpdatedAt time.Time
}

// StoredProject is a project as loaded from a ProjectStore.
type StoredProject struct {
	ID      string
	OwnerID string
	Data    ProjectData
}
