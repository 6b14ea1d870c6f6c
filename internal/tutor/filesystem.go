package tutor

import (
	"fmt"

	"codetutor/internal/model"
)

// FileSystem is the virtual collection of files belonging to one slide,
// keyed by file id. An explicit order slice keeps listing deterministic
// (insertion order), and currentFileID tracks the active file.
type FileSystem struct {
	files         map[string]*FileRecord
	order         []string
	currentFileID string
	clock         Clock
	idgen         IDGenerator
}

// NewFileSystem creates an empty file system.
func NewFileSystem(clock Clock, idgen IDGenerator) *FileSystem {
	return &FileSystem{
		files: make(map[string]*FileRecord),
		clock: clock,
		idgen: idgen,
	}
}

// NewFileSystemFromData rebuilds a file system from its serialized form.
// When the data carries no current file id, the first opened file becomes
// current.
func NewFileSystemFromData(data model.FileSystemData, clock Clock, idgen IDGenerator) *FileSystem {
	fs := NewFileSystem(clock, idgen)
	for _, fd := range data.Files {
		record := NewFileRecord(fd, clock)
		fs.files[record.id] = record
		fs.order = append(fs.order, record.id)
	}
	fs.currentFileID = data.CurrentFileID
	if fs.currentFileID == "" {
		for _, id := range fs.order {
			if fs.files[id].Opened() {
				fs.currentFileID = id
				break
			}
		}
	}
	return fs
}

// AddFile creates a new file with a fresh id. The opened flag is set when
// the path's extension is on the editable allow-list.
func (fs *FileSystem) AddFile(doc, path string) *FileRecord {
	record := NewFileRecord(model.FileData{
		ID:     fs.idgen.New(),
		Doc:    doc,
		Path:   path,
		Opened: IsEditablePath(path),
	}, fs.clock)
	fs.files[record.id] = record
	fs.order = append(fs.order, record.id)
	return record
}

// RemoveFile deletes a file. Unknown ids are a no-op. If the removed file
// was current, the adjacent still-open file (by previous position) becomes
// current, falling back to the first remaining open file, else no file.
func (fs *FileSystem) RemoveFile(id string) {
	if _, ok := fs.files[id]; !ok {
		return
	}
	pos := fs.indexOf(id)
	delete(fs.files, id)
	fs.order = append(fs.order[:pos], fs.order[pos+1:]...)

	if fs.currentFileID != id {
		return
	}
	fs.currentFileID = ""
	// Prefer the open file now occupying the removed file's slot, then the
	// one before it, then any open file.
	for _, i := range []int{pos, pos - 1} {
		if i >= 0 && i < len(fs.order) && fs.files[fs.order[i]].Opened() {
			fs.currentFileID = fs.order[i]
			return
		}
	}
	for _, fid := range fs.order {
		if fs.files[fid].Opened() {
			fs.currentFileID = fid
			return
		}
	}
}

// RenameFile updates a file's path, preserving its id. Unknown ids are a
// no-op; renaming to the same path reports no change.
func (fs *FileSystem) RenameFile(id, newPath string) bool {
	record, ok := fs.files[id]
	if !ok {
		return false
	}
	return record.SetPath(newPath)
}

// File returns the record with the given id.
func (fs *FileSystem) File(id string) (*FileRecord, bool) {
	record, ok := fs.files[id]
	return record, ok
}

// FileList returns all records in insertion order.
func (fs *FileSystem) FileList() []*FileRecord {
	list := make([]*FileRecord, 0, len(fs.order))
	for _, id := range fs.order {
		list = append(list, fs.files[id])
	}
	return list
}

// IsEmpty reports whether the file system holds no files.
func (fs *FileSystem) IsEmpty() bool { return len(fs.files) == 0 }

// CurrentFileID returns the id of the active file, or "" when none is.
func (fs *FileSystem) CurrentFileID() string { return fs.currentFileID }

// CurrentFile returns the active file record, or nil when none is.
func (fs *FileSystem) CurrentFile() *FileRecord {
	if fs.currentFileID == "" {
		return nil
	}
	return fs.files[fs.currentFileID]
}

// SetCurrentFile makes the file with the given id active. It fails when
// the id references no existing file, keeping the invariant that
// currentFileID always points at a live record.
func (fs *FileSystem) SetCurrentFile(id string) error {
	if _, ok := fs.files[id]; !ok {
		return fmt.Errorf("no file with id %q", id)
	}
	fs.currentFileID = id
	return nil
}

// Serialize returns the file system's durable form.
func (fs *FileSystem) Serialize() model.FileSystemData {
	files := make([]model.FileData, 0, len(fs.order))
	for _, id := range fs.order {
		files = append(files, fs.files[id].Serialize())
	}
	return model.FileSystemData{
		CurrentFileID: fs.currentFileID,
		Files:         files,
	}
}

func (fs *FileSystem) indexOf(id string) int {
	for i, fid := range fs.order {
		if fid == id {
			return i
		}
	}
	return -1
}
