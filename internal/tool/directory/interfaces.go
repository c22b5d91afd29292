package directory

import (
	iofs "io/fs"
	"os"
)

// pathResolver turns tool arguments into absolute paths.
type pathResolver interface {
	Abs(path string) (string, error)
}

// dirLister is the filesystem access needed to list a directory.
type dirLister interface {
	Stat(path string) (os.FileInfo, error)
	ListDir(path string) ([]os.DirEntry, error)
}

// dirWalker is the filesystem access needed to search a tree and load its
// .gitignore.
type dirWalker interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string, limit int64) ([]byte, error)
	Walk(root string, fn iofs.WalkDirFunc) error
}
