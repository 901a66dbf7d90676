package host

import "context"

// Host is the capability surface the scanner consumes for all file-system
// access. Implementations must be safe for concurrent use.
type Host interface {
	// ReadFile returns the content of the file at path. A missing file is
	// reported with an error satisfying errors.Is(err, fs.ErrNotExist);
	// any other failure is an I/O error.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file or directory exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadDirsInDir lists the names of the immediate child directories of path.
	ReadDirsInDir(ctx context.Context, path string) ([]string, error)
}
