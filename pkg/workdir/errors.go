package workdir

import "fmt"

// FilePathKind classifies file path validation failures.
type FilePathKind int

const (
	FileNotFound FilePathKind = iota
	FileAlreadyExists
	FileInvalidType
)

// FilePathError reports a problem with a caller-supplied file path.
type FilePathError struct {
	Kind FilePathKind
	Path string
	// Extension is set for FileInvalidType: the extension the path actually
	// carried ("N/A" when it had none).
	Extension string
}

func (e *FilePathError) Error() string {
	switch e.Kind {
	case FileNotFound:
		return fmt.Sprintf("file does not exist: %s", e.Path)
	case FileAlreadyExists:
		return fmt.Sprintf("file already exists: %s", e.Path)
	case FileInvalidType:
		return fmt.Sprintf("file type %q is invalid: %s", e.Extension, e.Path)
	default:
		return fmt.Sprintf("invalid file path: %s", e.Path)
	}
}

// DirPathError reports a missing or unresolvable directory.
type DirPathError struct {
	Path string
}

func (e *DirPathError) Error() string {
	if e.Path == "" {
		return "directory does not exist"
	}
	return fmt.Sprintf("directory does not exist: %s", e.Path)
}
