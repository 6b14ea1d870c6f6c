package tutor

import "strings"

// RuntimeEntry is one node of the nested directory tree handed to the
// external sandboxed runtime. A leaf carries file contents; a directory
// carries child entries.
type RuntimeEntry struct {
	Contents  string                   `json:"contents,omitempty"`
	Directory map[string]*RuntimeEntry `json:"directory,omitempty"`
}

// RuntimeTree converts a flat file list into the nested tree form the
// runtime expects: "/"-separated path segments become directories, the
// final segment a file leaf. The engine never executes anything itself.
func RuntimeTree(files []*FileRecord) map[string]*RuntimeEntry {
	tree := make(map[string]*RuntimeEntry)
	for _, file := range files {
		segments := strings.Split(file.Path(), "/")
		dir := tree
		for _, piece := range segments[:len(segments)-1] {
			entry, ok := dir[piece]
			if !ok || entry.Directory == nil {
				entry = &RuntimeEntry{Directory: make(map[string]*RuntimeEntry)}
				dir[piece] = entry
			}
			dir = entry.Directory
		}
		dir[segments[len(segments)-1]] = &RuntimeEntry{Contents: file.Document()}
	}
	return tree
}
