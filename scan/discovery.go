package scan

import (
	"context"
	"fmt"

	"github.com/plugkit/extscan/host"
	"github.com/viant/afs/url"
)

// Reference is a discovered extension candidate: the logical name (last path
// segment) and its absolute path.
type Reference struct {
	Name string
	Path string
}

// Resolver discovers candidate extension locations under a scan root.
type Resolver interface {
	Resolve(ctx context.Context, root string) ([]Reference, error)
}

type directoryResolver struct {
	host host.Host
}

// NewDirectoryResolver returns the default Resolver, listing the immediate
// child directories of the root.
func NewDirectoryResolver(h host.Host) Resolver {
	return &directoryResolver{host: h}
}

func (r *directoryResolver) Resolve(ctx context.Context, root string) ([]Reference, error) {
	names, err := r.host.ReadDirsInDir(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list extension candidates in %v: %w", root, err)
	}
	references := make([]Reference, 0, len(names))
	for _, name := range names {
		references = append(references, Reference{Name: name, Path: url.Join(root, name)})
	}
	return references, nil
}
