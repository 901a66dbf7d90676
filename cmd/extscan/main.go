// extscan scans one or more extension roots and prints the resulting
// descriptor collection as JSON. Diagnostics go to stderr; scan operations
// are total, so a run only fails on unusable configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/plugkit/extscan/extension"
	"github.com/plugkit/extscan/host"
	"github.com/plugkit/extscan/scan"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML scan configuration")
	hostVersion := flag.String("host-version", "", "running host version (overrides config)")
	language := flag.String("language", "", "locale tag (overrides config)")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	config, err := loadConfig(*configPath, flag.Arg(0))
	if err != nil {
		logger.Fatalf("unusable configuration: %v", err)
	}
	if *hostVersion != "" {
		config.HostVersion = *hostVersion
	}
	if *language != "" {
		config.Language = *language
	}

	ctx := context.Background()
	scanner := scan.New(host.New(), host.NewLogrusLogger(logger))

	descriptors := scanner.ScanOneOrMultiple(ctx, config.input(config.Root, false))
	if config.BuiltinRoot != "" {
		builtins := scanner.Scan(ctx, config.input(config.BuiltinRoot, true))
		if config.ExtraBuiltinRoot != "" {
			extra := scanner.Scan(ctx, config.input(config.ExtraBuiltinRoot, true))
			builtins = scan.MergeBuiltins(builtins, extra)
		}
		descriptors = append(builtins, descriptors...)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(descriptors); err != nil {
		logger.Fatalf("cannot encode result: %v", err)
	}
}

func (c *Config) input(location string, builtin bool) scan.Input {
	targetPlatform := extension.TargetPlatform(c.TargetPlatform)
	if targetPlatform == "" {
		targetPlatform = extension.TargetPlatformUndefined
	}
	return scan.Input{
		Location:           location,
		HostVersion:        c.HostVersion,
		HostDate:           c.HostDate,
		HostCommit:         c.HostCommit,
		DevMode:            c.DevMode,
		Language:           c.Language,
		TargetPlatform:     targetPlatform,
		IsBuiltin:          builtin,
		IsUnderDevelopment: c.IsUnderDevelopment && !builtin,
		Translations:       c.Translations,
	}
}
