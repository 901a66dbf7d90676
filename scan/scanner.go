// Package scan discovers extension packages under a root, parses their
// manifests tolerantly, localizes placeholder strings, validates semantic
// constraints and emits a deduplicated, deterministically ordered descriptor
// collection.
package scan

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/plugkit/extscan/extension"
	"github.com/plugkit/extscan/host"
	"github.com/viant/afs/url"
	"golang.org/x/sync/errgroup"
)

const obsoleteFileName = ".obsolete"

// Scanner runs the discovery, localization and validation pipeline. All
// failures are reported through the logger; scan operations always return a
// possibly empty result and never an error.
type Scanner struct {
	host     host.Host
	log      host.Logger
	resolver Resolver
}

// New creates a Scanner over the given capability host. A nil logger
// discards diagnostics.
func New(h host.Host, logger host.Logger, options ...Option) *Scanner {
	if logger == nil {
		logger = host.Nop{}
	}
	s := &Scanner{host: h, log: logger, resolver: NewDirectoryResolver(h)}
	for _, option := range options {
		option(s)
	}
	return s
}

// ScanOne scans input.Location as a single extension folder. It returns nil
// when the folder holds no valid extension.
func (s *Scanner) ScanOne(ctx context.Context, input Input) *extension.Descriptor {
	return s.scanCandidate(ctx, input.Location, input, newNLSConfiguration(input))
}

// Scan treats input.Location as a root holding extension folders and returns
// the deduplicated, ordered descriptor collection.
func (s *Scanner) Scan(ctx context.Context, input Input) []*extension.Descriptor {
	descriptors, err := s.scanExtensions(ctx, input)
	if err != nil {
		s.log.Error(input.Location, fmt.Sprintf("scan failed: %v", err))
		return []*extension.Descriptor{}
	}
	return descriptors
}

// ScanOneOrMultiple scans a single extension when a manifest sits directly
// at the root, otherwise scans the root as a collection of extension folders.
func (s *Scanner) ScanOneOrMultiple(ctx context.Context, input Input) []*extension.Descriptor {
	exists, err := s.host.Exists(ctx, url.Join(input.Location, manifestFileName))
	if err != nil {
		s.log.Error(input.Location, fmt.Sprintf("scan failed: %v", err))
		return []*extension.Descriptor{}
	}
	if exists {
		if descriptor := s.ScanOne(ctx, input); descriptor != nil {
			return []*extension.Descriptor{descriptor}
		}
		return []*extension.Descriptor{}
	}
	return s.Scan(ctx, input)
}

func (s *Scanner) scanExtensions(ctx context.Context, input Input) ([]*extension.Descriptor, error) {
	obsolete := map[string]bool{}
	if !input.IsBuiltin {
		obsolete = s.readObsolete(ctx, input.Location)
	}
	references, err := s.resolver.Resolve(ctx, input.Location)
	if err != nil {
		return nil, err
	}
	candidates := make([]Reference, 0, len(references))
	for _, reference := range references {
		if !input.IsBuiltin && strings.HasPrefix(reference.Name, ".") {
			continue
		}
		candidates = append(candidates, reference)
	}
	// deterministic order before the concurrent fan-out
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })

	nls := newNLSConfiguration(input)
	results := make([]*extension.Descriptor, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		group.Go(func() error {
			results[i] = s.scanCandidate(groupCtx, candidates[i].Path, input, nls)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	descriptors := make([]*extension.Descriptor, 0, len(results))
	for _, descriptor := range results {
		if descriptor == nil {
			continue
		}
		if obsolete[descriptor.Key().String()] {
			continue
		}
		descriptors = append(descriptors, descriptor)
	}
	if !input.IsBuiltin {
		descriptors = dropOutdated(descriptors, input.TargetPlatform)
	}
	sort.Slice(descriptors, func(i, j int) bool { return descriptors[i].Location < descriptors[j].Location })
	return descriptors, nil
}

// scanCandidate runs the parse, localize, validate pipeline for one folder.
// A failing candidate contributes no descriptor and never aborts siblings.
func (s *Scanner) scanCandidate(ctx context.Context, folder string, input Input, nls NLSConfiguration) *extension.Descriptor {
	tree := s.parseManifest(ctx, folder)
	if tree == nil {
		return nil
	}
	tree = s.localizeManifest(ctx, folder, tree, nls)
	return s.validateManifest(folder, tree, input)
}

// readObsolete loads the per-root obsolete marker. A missing or malformed
// file is an empty map, not an error.
func (s *Scanner) readObsolete(ctx context.Context, root string) map[string]bool {
	content, err := s.host.ReadFile(ctx, url.Join(root, obsoleteFileName))
	if err != nil {
		return map[string]bool{}
	}
	value, parseErrors := parseJSON(content)
	if len(parseErrors) > 0 {
		return map[string]bool{}
	}
	entries, ok := value.(map[string]interface{})
	if !ok {
		return map[string]bool{}
	}
	obsolete := make(map[string]bool, len(entries))
	for key, flag := range entries {
		if marked, ok := flag.(bool); ok && marked {
			obsolete[key] = true
		}
	}
	return obsolete
}

// dropOutdated keeps at most one descriptor per identifier: the highest
// version wins; among equal versions the entry matching the scan's target
// platform wins.
func dropOutdated(descriptors []*extension.Descriptor, targetPlatform extension.TargetPlatform) []*extension.Descriptor {
	kept := make(map[string]*extension.Descriptor, len(descriptors))
	order := make([]string, 0, len(descriptors))
	for _, candidate := range descriptors {
		id := strings.ToLower(candidate.Identifier.ID)
		existing, ok := kept[id]
		if !ok {
			kept[id] = candidate
			order = append(order, id)
			continue
		}
		if compareVersions(existing.Manifest.Version, candidate.Manifest.Version) > 0 {
			continue
		}
		if existing.Manifest.Version == candidate.Manifest.Version && existing.TargetPlatform == targetPlatform {
			continue
		}
		kept[id] = candidate
	}
	result := make([]*extension.Descriptor, 0, len(kept))
	for _, id := range order {
		result = append(result, kept[id])
	}
	return result
}

// compareVersions orders two semver strings, falling back to plain string
// comparison when either fails to parse.
func compareVersions(a, b string) int {
	versionA, errA := semver.NewVersion(a)
	versionB, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return versionA.Compare(versionB)
}

// MergeBuiltins merges a primary built-in collection with an extra one;
// entries from extra override primary entries sharing an identifier. The
// result is ordered by the last segment of each extension location, stable
// on insertion order for exact ties.
func MergeBuiltins(primary, extra []*extension.Descriptor) []*extension.Descriptor {
	merged := make([]*extension.Descriptor, 0, len(primary)+len(extra))
	index := make(map[string]int, len(primary))
	for _, descriptor := range primary {
		index[strings.ToLower(descriptor.Identifier.ID)] = len(merged)
		merged = append(merged, descriptor)
	}
	for _, descriptor := range extra {
		if at, ok := index[strings.ToLower(descriptor.Identifier.ID)]; ok {
			merged[at] = descriptor
			continue
		}
		merged = append(merged, descriptor)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return path.Base(merged[i].Location) < path.Base(merged[j].Location)
	})
	return merged
}
