// Package config parses the settings raptord needs to load a feed and
// serve queries, in the style transitcast's loaders use: a single
// conf.Parse call over a struct of conf-tagged fields, env vars and flags
// both accepted.
package config

import (
	"fmt"
	"os"

	"github.com/ardanlabs/conf"
)

// Config holds the engine's settings. Field names become flags
// (--feed-path) and env vars (RAPTOR_FEED_PATH) via conf's reflection.
// Routing.MaxRounds and Grid.CellSizeMeters are parsed but not read by
// the engine, which uses allocator.MaxRounds and
// quantities.AverageStopDistance.
type Config struct {
	conf.Version
	Feed struct {
		Path string `conf:"default:feed.zip"`
	}
	HTTP struct {
		Address string `conf:"default:0.0.0.0:8080"`
	}
	Routing struct {
		WalkDistanceMeters float64 `conf:"default:500"`
		MaxRounds          int     `conf:"default:8"`
	}
	Grid struct {
		CellSizeMeters float64 `conf:"default:500"`
	}
}

// Parse reads args and the environment into a Config, honoring --help and
// --version the way conf.Parse's callers are expected to.
func Parse(namespace string, args []string) (Config, error) {
	var cfg Config
	cfg.Version.SVN = "develop"
	cfg.Version.Desc = "Transit journey planning engine"

	if err := conf.Parse(args, namespace, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, usageErr := conf.Usage(namespace, &cfg)
			if usageErr != nil {
				return cfg, fmt.Errorf("generating usage: %w", usageErr)
			}
			fmt.Fprintln(os.Stdout, usage)
			os.Exit(0)
		case conf.ErrVersionWanted:
			version, versionErr := conf.VersionString(namespace, &cfg)
			if versionErr != nil {
				return cfg, fmt.Errorf("generating version: %w", versionErr)
			}
			fmt.Fprintln(os.Stdout, version)
			os.Exit(0)
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
