package scan

import (
	"testing"

	"github.com/plugkit/extscan/extension"
	"github.com/stretchr/testify/assert"
)

func mustTree(t *testing.T, content string) map[string]interface{} {
	value, parseErrors := parseJSON([]byte(content))
	assert.Empty(t, parseErrors)
	tree, ok := value.(map[string]interface{})
	assert.True(t, ok)
	return tree
}

func countBySeverity(notices []notice) (errors, warnings int) {
	for _, n := range notices {
		if n.severity == severityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

func TestValidate(t *testing.T) {
	tests := []struct {
		description  string
		manifest     string
		hostVersion  string
		wantErrors   int
		wantWarnings int
		messagePart  string
	}{
		{
			description: "minimal valid manifest",
			manifest:    `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"}}`,
			hostVersion: "1.0.0",
		},
		{
			description: "main and activationEvents together",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"main": "./out/main.js", "activationEvents": ["*"]}`,
			hostVersion: "1.0.0",
		},
		{
			description: "main without activationEvents",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"main": "./out/main.js"}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "must be defined together",
		},
		{
			description: "activationEvents without entry point",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"activationEvents": ["*"]}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "main or property browser",
		},
		{
			description: "main escaping the extension folder warns",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"main": "../other/main.js", "activationEvents": ["*"]}`,
			hostVersion:  "1.0.0",
			wantWarnings: 1,
			messagePart:  "not contained in the extension folder",
		},
		{
			description: "absolute main warns",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"main": "/abs/main.js", "activationEvents": ["*"]}`,
			hostVersion:  "1.0.0",
			wantWarnings: 1,
		},
		{
			description: "browser follows the same rules as main",
			manifest: `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
				"browser": "./web/main.js"}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "must be defined together",
		},
		{
			description:  "extensionKind without entry point warns",
			manifest:     `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"}, "extensionKind": ["ui"]}`,
			hostVersion:  "1.0.0",
			wantWarnings: 1,
			messagePart:  "extensionKind",
		},
		{
			description: "publisher must be a string",
			manifest:    `{"name": "ext", "publisher": 7, "version": "1.0.0", "engines": {"host": "*"}}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "publisher",
		},
		{
			description: "missing name",
			manifest:    `{"version": "1.0.0", "engines": {"host": "*"}}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "name",
		},
		{
			description: "missing version",
			manifest:    `{"name": "ext", "engines": {"host": "*"}}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "version",
		},
		{
			description: "missing engines",
			manifest:    `{"name": "ext", "version": "1.0.0"}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "engines",
		},
		{
			description: "missing engines.host",
			manifest:    `{"name": "ext", "version": "1.0.0", "engines": {}}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "engines.host",
		},
		{
			description: "extensionDependencies must be a string array",
			manifest:    `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"}, "extensionDependencies": [1]}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "extensionDependencies",
		},
		{
			description: "version must be semver",
			manifest:    `{"name": "ext", "version": "1.0", "engines": {"host": "*"}}`,
			hostVersion: "1.0.0",
			wantErrors:  1,
			messagePart: "semver",
		},
		{
			description: "incompatible host version",
			manifest:    `{"name": "ext", "version": "1.0.0", "engines": {"host": "^1.50.0"}}`,
			hostVersion: "1.40.0",
			wantErrors:  1,
			messagePart: "not compatible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			notices := validate(mustTree(t, tt.manifest), tt.hostVersion, "")
			errors, warnings := countBySeverity(notices)
			assert.Equal(t, tt.wantErrors, errors, "%v: %v", tt.description, notices)
			assert.Equal(t, tt.wantWarnings, warnings, "%v: %v", tt.description, notices)
			if tt.messagePart != "" {
				messages := make([]string, 0, len(notices))
				for _, n := range notices {
					messages = append(messages, n.message)
				}
				assert.True(t, anyContains(messages, tt.messagePart), "%v: %v", tt.description, messages)
			}
		})
	}
}

func TestValidateManifest_Identity(t *testing.T) {
	f := newFixture(t)
	f.write(t, "ext/package.json", `{
		"name": "Ext", "publisher": "Pub", "version": "1.0.0", "engines": {"host": "*"},
		"__metadata": {"id": "abc-123", "targetPlatform": "linux-x64", "isBuiltin": true}
	}`)

	descriptor := scanOne(f, Input{Location: f.path("ext"), HostVersion: "1.0.0"})
	assert.NotNil(t, descriptor)
	assert.Equal(t, "Pub.Ext", descriptor.Identifier.ID)
	assert.Equal(t, "abc-123", descriptor.Identifier.UUID)
	assert.Equal(t, extension.TargetPlatform("linux-x64"), descriptor.TargetPlatform)
	assert.True(t, descriptor.IsUserBuiltin)
	assert.False(t, descriptor.IsBuiltin)
	assert.Equal(t, f.path("ext"), descriptor.Location)
}

func TestValidateManifest_BuiltinForcesUserBuiltinOff(t *testing.T) {
	f := newFixture(t)
	f.write(t, "ext/package.json", `{
		"name": "ext", "version": "1.0.0", "engines": {"host": "*"},
		"__metadata": {"isBuiltin": true}
	}`)
	descriptor := scanOne(f, Input{Location: f.path("ext"), HostVersion: "1.0.0", IsBuiltin: true})
	assert.NotNil(t, descriptor)
	assert.True(t, descriptor.IsBuiltin)
	assert.False(t, descriptor.IsUserBuiltin)
}

func TestValidateManifest_UndefinedPublisher(t *testing.T) {
	f := newFixture(t)
	f.write(t, "ext/package.json", `{"name": "ext", "version": "1.0.0", "engines": {"host": "*"}}`)
	descriptor := scanOne(f, Input{Location: f.path("ext"), HostVersion: "1.0.0"})
	assert.NotNil(t, descriptor)
	assert.Equal(t, extension.UndefinedPublisher+".ext", descriptor.Identifier.ID)
	assert.Equal(t, extension.UndefinedPublisher, descriptor.Manifest.Publisher)
}

func TestEscapesFolder(t *testing.T) {
	tests := []struct {
		path    string
		escapes bool
	}{
		{"./out/main.js", false},
		{"out/main.js", false},
		{"out/../main.js", false},
		{"../other/main.js", true},
		{"out/../../main.js", true},
		{"..", true},
		{"/abs/main.js", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.escapes, escapesFolder(tt.path), tt.path)
	}
}
