package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/ctregistry/internal/registry"
)

// loadRegistry builds the registry from the configured document.
func loadRegistry() (*registry.Registry, error) {
	cfg := registryConfig()
	reg := registry.New(registry.WithLogger(log))
	if err := reg.Load(cfg); err != nil {
		return nil, err
	}
	return reg, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// newTable returns a tabwriter for column output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
