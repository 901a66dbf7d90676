package scan

import (
	"fmt"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/mapstructure"
	"github.com/plugkit/extscan/extension"
)

type severity int

const (
	severityWarning severity = iota
	severityError
)

type notice struct {
	severity severity
	message  string
}

// validateManifest enforces the structural and semantic manifest rules,
// stamps provenance flags and assigns the canonical identity. Any
// error-severity notice rejects the manifest; warnings are logged and the
// manifest is kept.
func (s *Scanner) validateManifest(folder string, tree map[string]interface{}, input Input) *extension.Descriptor {
	notices := validate(tree, input.HostVersion, input.HostDate)
	failed := false
	for _, n := range notices {
		if n.severity == severityError {
			failed = true
			s.log.Error(folder, n.message)
		} else {
			s.log.Warn(folder, n.message)
		}
	}
	if failed {
		return nil
	}
	manifest, err := decodeManifest(tree)
	if err != nil {
		s.log.Error(folder, fmt.Sprintf("cannot decode manifest: %v", err))
		return nil
	}
	if manifest.Publisher == "" {
		manifest.Publisher = extension.UndefinedPublisher
	}
	uuid, _ := tree["uuid"].(string)
	targetPlatform := extension.TargetPlatformUndefined
	if platform, ok := tree["targetPlatform"].(string); ok && platform != "" {
		targetPlatform = extension.TargetPlatform(platform)
	}
	isUserBuiltin := false
	if !input.IsBuiltin {
		isUserBuiltin, _ = tree["isUserBuiltin"].(bool)
	}
	return &extension.Descriptor{
		Identifier:         extension.Identifier{ID: manifest.Publisher + "." + manifest.Name, UUID: uuid},
		Manifest:           manifest,
		Location:           folder,
		TargetPlatform:     targetPlatform,
		IsBuiltin:          input.IsBuiltin,
		IsUserBuiltin:      isUserBuiltin,
		IsUnderDevelopment: input.IsUnderDevelopment,
	}
}

// engineKey is the engines entry naming the compatible host version range.
const engineKey = "host"

func validate(tree map[string]interface{}, hostVersion, hostDate string) []notice {
	if tree == nil {
		return []notice{{severityError, "extension description is empty"}}
	}
	var notices []notice
	errorf := func(format string, args ...interface{}) {
		notices = append(notices, notice{severityError, fmt.Sprintf(format, args...)})
	}
	warnf := func(format string, args ...interface{}) {
		notices = append(notices, notice{severityWarning, fmt.Sprintf(format, args...)})
	}

	if raw, ok := tree["publisher"]; ok {
		if _, isString := raw.(string); !isString {
			errorf("property publisher can be omitted or must be of type string")
		}
	}
	if _, ok := tree["name"].(string); !ok {
		errorf("property name is mandatory and must be of type string")
	}
	version, hasVersion := tree["version"].(string)
	if !hasVersion {
		errorf("property version is mandatory and must be of type string")
	}
	engines, hasEngines := tree["engines"].(map[string]interface{})
	if !hasEngines {
		errorf("property engines is mandatory and must be of type object")
	}
	engineRange, hasEngineRange := "", false
	if hasEngines {
		engineRange, hasEngineRange = engines[engineKey].(string)
		if !hasEngineRange {
			errorf("property engines.%s is mandatory and must be of type string", engineKey)
		}
	}
	if raw, ok := tree["extensionDependencies"]; ok && !isStringArray(raw) {
		errorf("property extensionDependencies can be omitted or must be of type string[]")
	}
	_, hasMain := tree["main"]
	_, hasBrowser := tree["browser"]
	_, hasActivation := tree["activationEvents"]
	if raw, ok := tree["activationEvents"]; ok {
		if !isStringArray(raw) {
			errorf("property activationEvents can be omitted or must be of type string[]")
		} else if !hasMain && !hasBrowser {
			errorf("property activationEvents can be defined only if property main or property browser is also defined")
		}
	}
	if _, ok := tree["extensionKind"]; ok && !hasMain && !hasBrowser {
		warnf("property extensionKind can be defined only if property main or property browser is also defined")
	}
	validateEntryPoint := func(field string) {
		raw, ok := tree[field]
		if !ok {
			return
		}
		value, isString := raw.(string)
		if !isString {
			errorf("property %s can be omitted or must be of type string", field)
			return
		}
		if escapesFolder(value) {
			warnf("property %s (%s) is not contained in the extension folder, the extension might not work properly when moved", field, value)
		}
		if !hasActivation {
			errorf("properties %s and activationEvents must be defined together", field)
		}
	}
	validateEntryPoint("main")
	validateEntryPoint("browser")

	if hasVersion {
		if _, err := semver.StrictNewVersion(version); err != nil {
			errorf("extension version %q is not semver compatible", version)
		} else if hasEngineRange {
			notices = append(notices, validateHostCompatibility(engineRange, hostVersion, hostDate)...)
		}
	}
	return notices
}

func isStringArray(raw interface{}) bool {
	items, ok := raw.([]interface{})
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// escapesFolder reports whether a manifest-relative entry point resolves
// outside the extension folder. Manifest paths use slash separators.
func escapesFolder(relative string) bool {
	if path.IsAbs(relative) {
		return true
	}
	cleaned := path.Clean(relative)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

// decodeManifest turns the validated untyped tree into the typed manifest.
// Weak typing lets a scalar extensionKind coerce into a one-element slice.
func decodeManifest(tree map[string]interface{}) (*extension.Manifest, error) {
	var manifest extension.Manifest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &manifest,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, err
	}
	return &manifest, nil
}
