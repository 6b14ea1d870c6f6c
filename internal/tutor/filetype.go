package tutor

import "strings"

// FileType is a closed enumeration of the file types the editing surface
// supports. Paths with any other extension are still stored and listed,
// but are not opened in an editor tab.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeTypeScript
	FileTypeJavaScript
	FileTypeTSX
	FileTypeJSX
	FileTypeJSON
	FileTypeMarkdown
	FileTypeHTML
	FileTypeCSS
)

// fileTypesByExtension maps a path's final extension to its FileType.
var fileTypesByExtension = map[string]FileType{
	"ts":   FileTypeTypeScript,
	"js":   FileTypeJavaScript,
	"tsx":  FileTypeTSX,
	"jsx":  FileTypeJSX,
	"json": FileTypeJSON,
	"md":   FileTypeMarkdown,
	"html": FileTypeHTML,
	"css":  FileTypeCSS,
}

// FileTypeForPath classifies a path by its final ".extension" segment.
// A path with no dot, or an unrecognized extension, is FileTypeUnknown.
func FileTypeForPath(path string) FileType {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return FileTypeUnknown
	}
	return fileTypesByExtension[path[idx+1:]]
}

// Editable reports whether files of this type get a live editing surface.
// The switch is exhaustive over the enumeration so adding a new FileType
// is a single-point change the compiler will point at.
func (t FileType) Editable() bool {
	switch t {
	case FileTypeTypeScript, FileTypeJavaScript, FileTypeTSX, FileTypeJSX,
		FileTypeJSON, FileTypeMarkdown, FileTypeHTML, FileTypeCSS:
		return true
	case FileTypeUnknown:
		return false
	}
	return false
}

func (t FileType) String() string {
	switch t {
	case FileTypeTypeScript:
		return "ts"
	case FileTypeJavaScript:
		return "js"
	case FileTypeTSX:
		return "tsx"
	case FileTypeJSX:
		return "jsx"
	case FileTypeJSON:
		return "json"
	case FileTypeMarkdown:
		return "md"
	case FileTypeHTML:
		return "html"
	case FileTypeCSS:
		return "css"
	case FileTypeUnknown:
		return "unknown"
	}
	return "unknown"
}

// IsEditablePath reports whether a path's extension is on the editable
// allow-list. This is the classification used for the opened flag when
// files are created or imported.
func IsEditablePath(path string) bool {
	return FileTypeForPath(path).Editable()
}
