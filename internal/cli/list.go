package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// bundleSummary is one row of list output.
type bundleSummary struct {
	MachineName string `json:"machine_name"`
	HumanName   string `json:"human_name"`
	EntityType  string `json:"entity_type"`
	Fields      int    `json:"fields"`
	Extras      int    `json:"extras"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List content types",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	var rows []bundleSummary
	for _, ct := range reg.ContentTypes() {
		rows = append(rows, bundleSummary{
			MachineName: ct.MachineName(),
			HumanName:   ct.HumanName(),
			EntityType:  ct.EntityType().Name(),
			Fields:      len(ct.Fields()),
			Extras:      len(ct.Extras()),
		})
	}

	if flags.jsonMode {
		if rows == nil {
			rows = []bundleSummary{}
		}
		return printJSON(cmd.OutOrStdout(), rows)
	}

	w := newTable(cmd.OutOrStdout())
	fmt.Fprintln(w, "MACHINE NAME\tNAME\tENTITY TYPE\tFIELDS\tEXTRAS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", r.MachineName, r.HumanName, r.EntityType, r.Fields, r.Extras)
	}
	return w.Flush()
}
