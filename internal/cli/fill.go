package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ctregistry/internal/journal"
	"github.com/mesh-intelligence/ctregistry/internal/paths"
)

type fillFlags struct {
	role   string
	extras bool
	submit bool
	set    []string
}

func newFillCmd() *cobra.Command {
	var ff fillFlags
	cmd := &cobra.Command{
		Use:   "fill <content-type>",
		Short: "Dry-run a form fill into the journal",
		Long: "fill walks the content type's fields in form order and records every\n" +
			"actor call in the journal instead of driving a browser.\n\n" +
			"Example:\n  ctregistry fill article --role editor --set title=Hello --extras --submit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, args[0], ff)
		},
	}
	cmd.Flags().StringVar(&ff.role, "role", "", "role whose skipped fields are left out")
	cmd.Flags().BoolVar(&ff.extras, "extras", false, "fill extras after the fields")
	cmd.Flags().BoolVar(&ff.submit, "submit", false, "click the submit control at the end")
	cmd.Flags().StringArrayVar(&ff.set, "set", nil, "override a value as machine_name=value (repeatable)")
	return cmd
}

func runFill(cmd *cobra.Command, name string, ff fillFlags) error {
	overrides, err := parseOverrides(ff.set)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	ct, err := reg.ContentType(name)
	if err != nil {
		return err
	}

	configured := ""
	if settings != nil {
		configured = settings.GetString(cfgKeyJournalDir)
	}
	dir, err := paths.ResolveJournalDir(flags.journalDir, configured)
	if err != nil {
		return fmt.Errorf("resolve journal dir: %w", err)
	}
	j, err := journal.Open(dir, journal.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	fillErr := func() error {
		if err := ct.FillFields(j, ff.role, overrides); err != nil {
			return err
		}
		if ff.extras {
			if err := ct.FillExtras(j, ff.role, overrides); err != nil {
				return err
			}
		}
		if ff.submit {
			return ct.Submit(j)
		}
		return nil
	}()

	recorded, err := j.Interactions("")
	if err != nil {
		j.Close()
		return err
	}
	if err := j.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	if fillErr != nil {
		return fillErr
	}

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"session":      j.Session(),
			"journal":      dir,
			"interactions": recorded,
		})
	}
	out := cmd.OutOrStdout()
	w := newTable(out)
	fmt.Fprintln(w, "SEQ\tMETHOD\tSELECTOR\tARGS")
	for _, in := range recorded {
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", in.Seq, in.Method, in.Selector, in.Args)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d interactions recorded in session %s (%s)\n", len(recorded), j.Session(), dir)
	return nil
}

// parseOverrides splits machine_name=value pairs.
func parseOverrides(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected machine_name=value", p)
		}
		out[key] = value
	}
	return out, nil
}
