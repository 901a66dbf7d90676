package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/plugkit/extscan/extension"
	"github.com/viant/afs/url"
)

const (
	manifestFileName = "package.json"
	metadataKey      = "__metadata"
)

// parseManifest reads and parses <folder>/package.json. A missing manifest
// is not an error: the folder simply holds no extension. A manifest with any
// syntax error is rejected entirely, never partially used.
func (s *Scanner) parseManifest(ctx context.Context, folder string) map[string]interface{} {
	manifestPath := url.Join(folder, manifestFileName)
	content, err := s.host.ReadFile(ctx, manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.log.Error(folder, fmt.Sprintf("cannot read manifest %s: %v", manifestPath, err))
		return nil
	}
	value, parseErrors := parseJSON(content)
	if len(parseErrors) > 0 {
		for _, parseErr := range parseErrors {
			s.log.Error(folder, fmt.Sprintf("failed to parse %s: %s", manifestPath, parseErr))
		}
		return nil
	}
	tree, ok := value.(map[string]interface{})
	if !ok {
		s.log.Error(folder, fmt.Sprintf("invalid manifest file %s: not a JSON object", manifestPath))
		return nil
	}
	liftMetadata(tree)
	return tree
}

// liftMetadata promotes the embedded metadata fields to the top level and
// strips the metadata object.
func liftMetadata(tree map[string]interface{}) {
	tree["targetPlatform"] = string(extension.TargetPlatformUndefined)
	if metadata, ok := tree[metadataKey].(map[string]interface{}); ok {
		if id, ok := metadata["id"].(string); ok && id != "" {
			tree["uuid"] = id
		}
		if platform, ok := metadata["targetPlatform"].(string); ok && platform != "" {
			tree["targetPlatform"] = platform
		}
		if builtin, ok := metadata["isBuiltin"].(bool); ok {
			tree["isUserBuiltin"] = builtin
		}
	}
	delete(tree, metadataKey)
}
