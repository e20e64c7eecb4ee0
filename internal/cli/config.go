package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix maps CTREGISTRY_ROOT and friends onto config keys.
	envPrefix = "CTREGISTRY"

	cfgKeyRoot       = "root"
	cfgKeySuite      = "suite"
	cfgKeyDocument   = "document"
	cfgKeyJournalDir = "journal_dir"
	cfgKeyLogLevel   = "log_level"

	defaultRoot     = "."
	defaultLogLevel = "warn"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# ctregistry configuration

# Project directory holding tests/contentTypes.yml (overridable by --root)
root: .

# Suite whose tests/<suite>/contentTypes.yml wins over the shared file
# suite:

# Explicit document path, bypassing suite lookup
# document:

# Where fill records interactions (overridable by --journal-dir)
# journal_dir:

log_level: warn
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error. CTREGISTRY_* environment variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyRoot, defaultRoot)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyRoot, cfgKeySuite, cfgKeyDocument, cfgKeyJournalDir, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// registryConfig merges flags over config values. Flags win.
func registryConfig() types.Config {
	pick := func(flag, key string) string {
		if flag != "" {
			return flag
		}
		if settings == nil {
			return ""
		}
		return settings.GetString(key)
	}
	return types.Config{
		Root:       pick(flags.root, cfgKeyRoot),
		Suite:      pick(flags.suite, cfgKeySuite),
		Document:   pick(flags.document, cfgKeyDocument),
		JournalDir: pick(flags.journalDir, cfgKeyJournalDir),
	}
}
