package file

import "os"

// pathResolver turns tool arguments into absolute paths.
type pathResolver interface {
	Abs(path string) (string, error)
}

// fileReader is the filesystem access needed to read files.
type fileReader interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
}

// fileWriter is the filesystem access needed to write files.
type fileWriter interface {
	Stat(path string) (os.FileInfo, error)
	EnsureDirs(path string) error
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// fileRemover is the filesystem access needed to delete files.
type fileRemover interface {
	Stat(path string) (os.FileInfo, error)
	Remove(path string) error
}
