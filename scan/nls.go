package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
)

const nlsFileName = "package.nls.json"

func nlsLocaleFileName(locale string) string {
	return fmt.Sprintf("package.nls.%s.json", locale)
}

// localizedMessages pairs the resolved localized bundle (nil when
// unavailable) with the path of the default, unlocalized bundle ("" when
// there is no separate original).
type localizedMessages struct {
	messages    map[string]interface{}
	defaultPath string
}

// localizeManifest resolves the message bundle for the manifest and
// substitutes placeholder strings in place. Localization is best effort and
// never fails the pipeline: on any internal failure the manifest is returned
// unmodified.
func (s *Scanner) localizeManifest(ctx context.Context, folder string, tree map[string]interface{}, cfg NLSConfiguration) map[string]interface{} {
	resolved := s.resolveLocalizedMessages(ctx, folder, tree, cfg)
	if resolved == nil {
		return tree
	}
	var originals map[string]interface{}
	if resolved.defaultPath != "" {
		originals = s.loadMessageBag(ctx, resolved.defaultPath)
	}
	if resolved.messages == nil && originals == nil {
		return tree
	}
	warn := func(key string) {
		s.log.Warn(folder, fmt.Sprintf("couldn't find message for key %s", key))
	}
	substituteNLStrings(tree, resolved.messages, originals, cfg.Pseudo, false, warn)
	return tree
}

// resolveLocalizedMessages walks the bundle fallback chain: an override
// translation bundle first, then the locale chain (each `-` subtag stripped
// in turn), finally the base bundle. Each candidate locale is checked once,
// sequentially, so resolution happens exactly once.
func (s *Scanner) resolveLocalizedMessages(ctx context.Context, folder string, tree map[string]interface{}, cfg NLSConfiguration) *localizedMessages {
	defaultPath := url.Join(folder, nlsFileName)

	translationID := stringField(tree, "publisher") + "." + stringField(tree, "name")
	if translationPath, ok := cfg.Translations[translationID]; ok && translationPath != "" {
		return &localizedMessages{
			messages:    s.loadTranslationBundle(ctx, folder, translationPath),
			defaultPath: defaultPath,
		}
	}

	exists, err := s.host.Exists(ctx, defaultPath)
	if err != nil || !exists {
		return nil
	}
	if cfg.DevMode || cfg.Pseudo || cfg.Language == "" {
		return &localizedMessages{messages: s.loadMessageBag(ctx, defaultPath)}
	}
	for locale := cfg.Language; ; {
		candidate := url.Join(folder, nlsLocaleFileName(locale))
		if ok, err := s.host.Exists(ctx, candidate); err == nil && ok {
			return &localizedMessages{messages: s.loadMessageBag(ctx, candidate), defaultPath: defaultPath}
		}
		index := strings.LastIndex(locale, "-")
		if index < 0 {
			return &localizedMessages{messages: s.loadMessageBag(ctx, defaultPath)}
		}
		locale = locale[:index]
	}
}

// loadTranslationBundle reads an override translation bundle and extracts
// its contents.package message bag. Malformed bundles are logged and treated
// as absent.
func (s *Scanner) loadTranslationBundle(ctx context.Context, folder, path string) map[string]interface{} {
	content, err := s.host.ReadFile(ctx, path)
	if err != nil {
		s.log.Error(folder, fmt.Sprintf("cannot read translation bundle %s: %v", path, err))
		return nil
	}
	value, parseErrors := parseJSON(content)
	if len(parseErrors) > 0 {
		for _, parseErr := range parseErrors {
			s.log.Error(folder, fmt.Sprintf("failed to parse translation bundle %s: %s", path, parseErr))
		}
		return nil
	}
	bundle, ok := value.(map[string]interface{})
	if !ok {
		s.log.Error(folder, fmt.Sprintf("invalid translation bundle %s: not a JSON object", path))
		return nil
	}
	contents, _ := bundle["contents"].(map[string]interface{})
	bag, _ := contents["package"].(map[string]interface{})
	return bag
}

// loadMessageBag reads a plain message bundle, tolerating absence and
// malformed content.
func (s *Scanner) loadMessageBag(ctx context.Context, path string) map[string]interface{} {
	content, err := s.host.ReadFile(ctx, path)
	if err != nil {
		return nil
	}
	value, parseErrors := parseJSON(content)
	if len(parseErrors) > 0 {
		return nil
	}
	bag, _ := value.(map[string]interface{})
	return bag
}

const (
	pseudoOpen  = "［"
	pseudoClose = "］"
)

// pseudoLocalize doubles every vowel and brackets the message with
// full-width square brackets, keeping translatable strings recognizable.
func pseudoLocalize(message string) string {
	var out strings.Builder
	out.WriteString(pseudoOpen)
	for _, r := range message {
		out.WriteRune(r)
		switch r {
		case 'a', 'o', 'u', 'e', 'i':
			out.WriteRune(r)
		}
	}
	out.WriteString(pseudoClose)
	return out.String()
}

// substituteNLStrings walks the manifest tree and replaces %key% placeholder
// strings with resolved messages. Inside a commands subtree, title and
// category values become {value, original} pairs when an original exists and
// differs.
func substituteNLStrings(node interface{}, messages, originals map[string]interface{}, pseudo, inCommands bool, warn func(key string)) {
	switch value := node.(type) {
	case map[string]interface{}:
		for key, child := range value {
			if text, ok := child.(string); ok {
				if replaced, ok := substituteString(text, key, messages, originals, pseudo, inCommands, warn); ok {
					value[key] = replaced
				}
				continue
			}
			substituteNLStrings(child, messages, originals, pseudo, inCommands || key == "commands", warn)
		}
	case []interface{}:
		for i, child := range value {
			if text, ok := child.(string); ok {
				if replaced, ok := substituteString(text, "", messages, originals, pseudo, inCommands, warn); ok {
					value[i] = replaced
				}
				continue
			}
			substituteNLStrings(child, messages, originals, pseudo, inCommands, warn)
		}
	}
}

func substituteString(value, key string, messages, originals map[string]interface{}, pseudo, inCommands bool, warn func(key string)) (interface{}, bool) {
	if len(value) <= 1 || value[0] != '%' || value[len(value)-1] != '%' {
		return nil, false
	}
	messageKey := value[1 : len(value)-1]
	message, found := messageOf(messages[messageKey])
	original, hasOriginal := messageOf(originals[messageKey])
	if !found {
		if !hasOriginal {
			warn(messageKey)
			return nil, false
		}
		message = original
	}
	if pseudo {
		message = pseudoLocalize(message)
	}
	if inCommands && (key == "title" || key == "category") && hasOriginal && original != message {
		return map[string]interface{}{"value": message, "original": original}, true
	}
	return message, true
}

// messageOf extracts the message text from either the plain-string or the
// structured {message, comment} bundle entry form.
func messageOf(entry interface{}) (string, bool) {
	switch typed := entry.(type) {
	case string:
		return typed, true
	case map[string]interface{}:
		if message, ok := typed["message"].(string); ok {
			return message, true
		}
	}
	return "", false
}

func stringField(tree map[string]interface{}, key string) string {
	value, _ := tree[key].(string)
	return value
}
