package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Build the registry and report configuration errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"document":      reg.Source(),
					"content_types": len(reg.ContentTypes()),
					"global_fields": len(reg.GlobalFields()),
					"global_extras": len(reg.GlobalExtras()),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d content types, %d global fields, %d global extras\n",
				reg.Source(), len(reg.ContentTypes()), len(reg.GlobalFields()), len(reg.GlobalExtras()))
			return nil
		},
	}
}
