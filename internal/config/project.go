package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// EnvProjectDir pins the project directory instead of walking up from the
// working directory.
const EnvProjectDir = "VSCROLL_PROJECT_DIR"

// ErrNoProject indicates no .vscroll.yaml was found before the filesystem root.
var ErrNoProject = errors.New("no " + ProjectFileName + " found in directory or any parent")

// FindProject walks up from dir looking for ProjectFileName and returns the
// directory that contains it.
func FindProject(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	current := absDir
	for {
		if _, statErr := os.Stat(filepath.Join(current, ProjectFileName)); statErr == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoProject
		}
		current = parent
	}
}

// ResolveProjectDir determines the directory whose ProjectFileName overlays
// the global config. It checks (in order):
//  1. VSCROLL_PROJECT_DIR
//  2. FindProject(startDir) walk-up
//
// Returns an absolute path, or "" if no project was found.
func ResolveProjectDir(ctx context.Context, lookupEnv func(string) (string, bool), startDir string) string {
	if envDir, ok := lookupEnv(EnvProjectDir); ok && envDir != "" {
		abs, err := filepath.Abs(envDir)
		if err != nil {
			return envDir
		}
		return abs
	}
	if startDir == "" {
		return ""
	}

	dir, err := FindProject(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			zerolog.Ctx(ctx).Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}
	return dir
}
