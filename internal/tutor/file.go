package tutor

import (
	"time"

	"codetutor/internal/model"
)

// FileRecord is a single in-memory file: a stable id, a virtual path, the
// full document text, and an opened flag controlling whether the file shows
// in the open-tabs list. The id is immutable for the record's lifetime;
// the path may change without affecting it.
//
// The record also owns the backing data for code links anchored in its
// document. The editor synchronization layer keeps those anchors current.
type FileRecord struct {
	id        string
	path      string
	document  string
	opened    bool
	savedAt   time.Time
	codeLinks map[string]model.CodeLinkData
	clock     Clock
}

// NewFileRecord builds a record from its serialized form.
func NewFileRecord(data model.FileData, clock Clock) *FileRecord {
	links := make(map[string]model.CodeLinkData, len(data.CodeLinks))
	for id, link := range data.CodeLinks {
		links[id] = link
	}
	return &FileRecord{
		id:        data.ID,
		path:      data.Path,
		document:  data.Doc,
		opened:    data.Opened,
		savedAt:   clock.Now(),
		codeLinks: links,
		clock:     clock,
	}
}

func (f *FileRecord) ID() string       { return f.id }
func (f *FileRecord) Path() string     { return f.path }
func (f *FileRecord) Document() string { return f.document }
func (f *FileRecord) Opened() bool     { return f.opened }

// SavedAt is the timestamp of the last structural change. Consumers such
// as the runtime file loader watch it to decide what changed since their
// last sync, so it must not be bumped spuriously.
func (f *FileRecord) SavedAt() time.Time { return f.savedAt }

// SetDocument replaces the full text. The editing surface supplies the
// already-materialized new text; no diffing happens here.
func (f *FileRecord) SetDocument(doc string) {
	f.document = doc
	f.savedAt = f.clock.Now()
}

// SetPath renames the file. Returns false without touching savedAt when
// the new path equals the current one.
func (f *FileRecord) SetPath(newPath string) bool {
	if f.path == newPath {
		return false
	}
	f.path = newPath
	f.savedAt = f.clock.Now()
	return true
}

// Open marks the file as shown in the open-tabs list.
func (f *FileRecord) Open() { f.opened = true }

// Close hides the file from the open-tabs list without destroying it.
func (f *FileRecord) Close() { f.opened = false }

// SetCodeLink creates or updates the backing data for a code link.
func (f *FileRecord) SetCodeLink(link model.CodeLinkData) {
	if link.Name == "" {
		if existing, ok := f.codeLinks[link.ID]; ok && existing.Name != "" {
			link.Name = existing.Name
		} else {
			link.Name = link.ID
		}
	}
	f.codeLinks[link.ID] = link
}

// RemoveCodeLink clears a code link's backing data. Unknown ids are a no-op.
func (f *FileRecord) RemoveCodeLink(id string) {
	delete(f.codeLinks, id)
}

// CodeLink returns the backing data for one code link.
func (f *FileRecord) CodeLink(id string) (model.CodeLinkData, bool) {
	link, ok := f.codeLinks[id]
	return link, ok
}

// CodeLinks returns the backing data for every code link on this file.
func (f *FileRecord) CodeLinks() []model.CodeLinkData {
	links := make([]model.CodeLinkData, 0, len(f.codeLinks))
	for _, link := range f.codeLinks {
		links = append(links, link)
	}
	return links
}

// Serialize returns the record's durable form.
func (f *FileRecord) Serialize() model.FileData {
	var links map[string]model.CodeLinkData
	if len(f.codeLinks) > 0 {
		links = make(map[string]model.CodeLinkData, len(f.codeLinks))
		for id, link := range f.codeLinks {
			links[id] = link
		}
	}
	return model.FileData{
		ID:        f.id,
		Doc:       f.document,
		Path:      f.path,
		Opened:    f.opened,
		CodeLinks: links,
	}
}
