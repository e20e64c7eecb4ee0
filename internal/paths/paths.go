// Package paths resolves the content types document, the configuration
// directory and the journal directory.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// appName names the per-user configuration subdirectory.
const appName = "ctregistry"

// CWD-relative directory name for the journal when nothing else is set.
const DefaultJournalDirName = ".ctregistry-journal"

// Environment variable names for directory overrides.
const (
	EnvConfigDir  = "CTREGISTRY_CONFIG_DIR"
	EnvJournalDir = "CTREGISTRY_JOURNAL_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/ctregistry (fallback ~/.config/ctregistry)
// macOS:   ~/Library/Application Support/ctregistry
// Windows: %APPDATA%/ctregistry
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CTREGISTRY_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveJournalDir returns the journal directory following the precedence
// chain: flag > configYAMLValue > CTREGISTRY_JOURNAL_DIR env > $(CWD)/.ctregistry-journal.
func ResolveJournalDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvJournalDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultJournalDirName), nil
}

// SuiteDocument is <root>/tests/<suite>/contentTypes.yml.
func SuiteDocument(root, suite string) string {
	return filepath.Join(root, types.TestsDirName, suite, types.DocumentFileName)
}

// SharedDocument is <root>/tests/contentTypes.yml.
func SharedDocument(root string) string {
	return filepath.Join(root, types.TestsDirName, types.DocumentFileName)
}

// FindDocument locates the content types document for cfg. An explicit
// Document path is used as is. Otherwise the suite document wins over the
// shared one. When no candidate exists the error wraps
// types.ErrDocumentNotFound and lists what was tried.
func FindDocument(cfg types.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrDocumentNotFound, err)
	}

	var candidates []string
	if cfg.Document != "" {
		candidates = append(candidates, cfg.Document)
	} else {
		if cfg.Suite != "" {
			candidates = append(candidates, SuiteDocument(cfg.Root, cfg.Suite))
		}
		candidates = append(candidates, SharedDocument(cfg.Root))
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s: %v", types.ErrDocumentNotFound, path, err)
		}
	}
	return "", fmt.Errorf("%w: tried %v", types.ErrDocumentNotFound, candidates)
}
