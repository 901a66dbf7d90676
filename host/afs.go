package host

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

type afsHost struct {
	fs afs.Service
}

// New returns a Host backed by the afs virtual file system. Plain paths,
// file:// and mem:// URLs are all supported.
func New() Host {
	return &afsHost{fs: afs.New()}
}

// NewWithService returns a Host over a caller-supplied afs service, e.g. an
// in-memory one for tests.
func NewWithService(service afs.Service) Host {
	return &afsHost{fs: service}
}

func (h *afsHost) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := h.fs.DownloadWithURL(ctx, path)
	if err != nil {
		if ok, _ := h.fs.Exists(ctx, path); !ok {
			return nil, fmt.Errorf("%v: %w", path, fs.ErrNotExist)
		}
		return nil, err
	}
	return data, nil
}

func (h *afsHost) Exists(ctx context.Context, path string) (bool, error) {
	return h.fs.Exists(ctx, path)
}

func (h *afsHost) ReadDirsInDir(ctx context.Context, path string) ([]string, error) {
	objects, err := h.fs.List(ctx, path)
	if err != nil {
		return nil, err
	}
	baseURL := strings.TrimRight(url.Normalize(path, file.Scheme), "/")
	var names []string
	for _, object := range objects {
		if !object.IsDir() {
			continue
		}
		// afs lists the folder itself alongside its children
		if strings.TrimRight(object.URL(), "/") == baseURL {
			continue
		}
		names = append(names, strings.TrimRight(object.Name(), "/"))
	}
	return names, nil
}
