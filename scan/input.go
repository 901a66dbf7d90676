package scan

import (
	"encoding/binary"
	"sort"
	"time"

	"github.com/minio/highwayhash"
	"github.com/plugkit/extscan/extension"
)

var cacheKeySeed = []byte("FEDCBA9876543210FEDCBA9876543210")

// Input is the immutable configuration of one scan invocation.
type Input struct {
	// Location is the absolute root path of the scan.
	Location string
	// Mtime is an optional modification time used only by external caching
	// layers; it still participates in the equality contract.
	Mtime time.Time

	HostVersion string
	HostDate    string
	HostCommit  string

	DevMode  bool
	Language string

	TargetPlatform     extension.TargetPlatform
	IsBuiltin          bool
	IsUnderDevelopment bool

	// Translations maps an extension identity to an override
	// translation-bundle path.
	Translations map[string]string
}

// Equals reports field-by-field equality, with Translations compared as a
// key/value set.
func (i Input) Equals(o Input) bool {
	if i.Location != o.Location ||
		!i.Mtime.Equal(o.Mtime) ||
		i.HostVersion != o.HostVersion ||
		i.HostDate != o.HostDate ||
		i.HostCommit != o.HostCommit ||
		i.DevMode != o.DevMode ||
		i.Language != o.Language ||
		i.TargetPlatform != o.TargetPlatform ||
		i.IsBuiltin != o.IsBuiltin ||
		i.IsUnderDevelopment != o.IsUnderDevelopment {
		return false
	}
	if len(i.Translations) != len(o.Translations) {
		return false
	}
	for key, value := range i.Translations {
		if other, ok := o.Translations[key]; !ok || other != value {
			return false
		}
	}
	return true
}

// CacheKey returns a stable 64-bit hash over every input field, usable by
// external caching layers together with Mtime.
func (i Input) CacheKey() (uint64, error) {
	hash, err := highwayhash.New64(cacheKeySeed)
	if err != nil {
		return 0, err
	}
	write := func(value string) {
		_ = binary.Write(hash, binary.LittleEndian, int64(len(value)))
		_, _ = hash.Write([]byte(value))
	}
	write(i.Location)
	_ = binary.Write(hash, binary.LittleEndian, i.Mtime.UnixNano())
	write(i.HostVersion)
	write(i.HostDate)
	write(i.HostCommit)
	_ = binary.Write(hash, binary.LittleEndian, []bool{i.DevMode, i.IsBuiltin, i.IsUnderDevelopment})
	write(i.Language)
	write(string(i.TargetPlatform))
	keys := make([]string, 0, len(i.Translations))
	for key := range i.Translations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		write(key)
		write(i.Translations[key])
	}
	return hash.Sum64(), nil
}

// NLSConfiguration is the read-only localization view of an Input, derived
// once per scan.
type NLSConfiguration struct {
	DevMode      bool
	Language     string
	Pseudo       bool
	Translations map[string]string
}

const pseudoLanguage = "pseudo"

func newNLSConfiguration(input Input) NLSConfiguration {
	return NLSConfiguration{
		DevMode:      input.DevMode,
		Language:     input.Language,
		Pseudo:       input.Language == pseudoLanguage,
		Translations: input.Translations,
	}
}
