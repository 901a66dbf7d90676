// Package extension defines the data model shared by the scan pipeline:
// descriptors, identifiers, composite keys and the typed manifest view.
package extension

import (
	"fmt"
	"strings"
)

// TargetPlatform identifies the OS/architecture variant an extension build
// is compiled for.
type TargetPlatform string

const (
	// TargetPlatformUndefined marks a build that never declared a platform.
	TargetPlatformUndefined TargetPlatform = "undefined"
	// TargetPlatformUniversal marks a build valid for every platform.
	TargetPlatformUniversal TargetPlatform = "universal"
	// TargetPlatformUnknown marks an unrecognized platform tag.
	TargetPlatformUnknown TargetPlatform = "unknown"
)

// UndefinedPublisher substitutes for a missing publisher field.
const UndefinedPublisher = "undefined_publisher"

// Identifier names an extension. ID preserves the manifest casing; equality
// is case-insensitive.
type Identifier struct {
	ID   string `json:"id"`
	UUID string `json:"uuid,omitempty"`
}

// Equals reports case-insensitive identity equality.
func (i Identifier) Equals(o Identifier) bool {
	return strings.EqualFold(i.ID, o.ID)
}

// Key is the composite identity used for obsolete-set membership.
type Key struct {
	ID             string
	Version        string
	TargetPlatform TargetPlatform
}

// String serializes the key in the lowercase id-version-targetplatform form
// used by obsolete marker files.
func (k Key) String() string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s", k.ID, k.Version, k.TargetPlatform))
}

// Manifest is the typed view of a validated package.json.
type Manifest struct {
	Name                  string                 `json:"name"`
	Publisher             string                 `json:"publisher,omitempty"`
	Version               string                 `json:"version"`
	DisplayName           string                 `json:"displayName,omitempty"`
	Description           string                 `json:"description,omitempty"`
	Engines               map[string]string      `json:"engines,omitempty"`
	Main                  string                 `json:"main,omitempty"`
	Browser               string                 `json:"browser,omitempty"`
	ActivationEvents      []string               `json:"activationEvents,omitempty"`
	ExtensionDependencies []string               `json:"extensionDependencies,omitempty"`
	ExtensionKind         []string               `json:"extensionKind,omitempty"`
	Categories            []string               `json:"categories,omitempty"`
	Contributes           map[string]interface{} `json:"contributes,omitempty"`
}

// Descriptor is a validated, localized, identity-stamped extension.
type Descriptor struct {
	Identifier         Identifier     `json:"identifier"`
	Manifest           *Manifest      `json:"manifest"`
	Location           string         `json:"location"`
	TargetPlatform     TargetPlatform `json:"targetPlatform"`
	IsBuiltin          bool           `json:"isBuiltin"`
	IsUserBuiltin      bool           `json:"isUserBuiltin"`
	IsUnderDevelopment bool           `json:"isUnderDevelopment"`
}

// Key returns the composite identity of the descriptor.
func (d *Descriptor) Key() Key {
	return Key{ID: d.Identifier.ID, Version: d.Manifest.Version, TargetPlatform: d.TargetPlatform}
}
