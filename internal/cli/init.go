package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ctregistry/internal/paths"
)

// starterDocument is one node bundle with a global body field.
type starterDocument struct {
	GlobalFields []map[string]any `yaml:"GlobalFields"`
	ContentTypes []map[string]any `yaml:"ContentTypes"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter contentTypes.yml",
		Long: "Write a starter tests/contentTypes.yml (or tests/<suite>/contentTypes.yml)\n" +
			"under the project root unless one already exists.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := registryConfig()
	root := cfg.Root
	if root == "" {
		root = defaultRoot
	}

	path := paths.SharedDocument(root)
	if cfg.Suite != "" {
		path = paths.SuiteDocument(root, cfg.Suite)
	}
	if err := writeStarterIfMissing(path); err != nil {
		return fmt.Errorf("write starter document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "content types document: %s\n", path)
	return nil
}

// writeStarterIfMissing creates the document if the file does not exist.
// An existing document is left untouched.
func writeStarterIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	doc := starterDocument{
		GlobalFields: []map[string]any{{
			"machineName": "body",
			"label":       "Body",
			"type":        "Long text and summary",
			"widget":      "Text area with a summary",
		}},
		ContentTypes: []map[string]any{{
			"humanName":   "Basic page",
			"machineName": "page",
			"fields": []any{
				map[string]any{"globals": []string{"body"}},
			},
		}},
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
