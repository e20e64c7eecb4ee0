package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ctregistry/internal/contenttype"
	"github.com/mesh-intelligence/ctregistry/internal/field"
)

// fieldView is one field as shown by show.
type fieldView struct {
	MachineName string   `json:"machine_name"`
	Label       string   `json:"label,omitempty"`
	Type        string   `json:"type,omitempty"`
	Widget      string   `json:"widget,omitempty"`
	Selector    string   `json:"selector,omitempty"`
	Required    bool     `json:"required"`
	SkipRoles   []string `json:"skip_roles,omitempty"`
}

// bundleView is the show output of a content type.
type bundleView struct {
	MachineName     string      `json:"machine_name"`
	HumanName       string      `json:"human_name"`
	EntityType      string      `json:"entity_type"`
	ManageFieldsURL string      `json:"manage_fields_url"`
	Submit          string      `json:"submit"`
	Fields          []fieldView `json:"fields"`
	Extras          []fieldView `json:"extras"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <content-type>",
		Short: "Show the fields and extras of a content type",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	ct, err := reg.ContentType(args[0])
	if err != nil {
		return err
	}

	view := viewOf(ct)
	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), view)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", view.HumanName, view.MachineName)
	fmt.Fprintf(out, "entity type:   %s\n", view.EntityType)
	fmt.Fprintf(out, "manage fields: %s\n", view.ManageFieldsURL)
	fmt.Fprintf(out, "submit:        %s\n", view.Submit)

	for _, section := range []struct {
		title  string
		fields []fieldView
	}{{"Fields", view.Fields}, {"Extras", view.Extras}} {
		if len(section.fields) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", section.title)
		w := newTable(out)
		fmt.Fprintln(w, "MACHINE NAME\tLABEL\tWIDGET\tSELECTOR\tREQUIRED\tSKIP ROLES")
		for _, f := range section.fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
				f.MachineName, f.Label, f.Widget, f.Selector, f.Required, strings.Join(f.SkipRoles, ","))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func viewOf(ct *contenttype.ContentType) bundleView {
	return bundleView{
		MachineName:     ct.MachineName(),
		HumanName:       ct.HumanName(),
		EntityType:      ct.EntityType().Name(),
		ManageFieldsURL: ct.ManageFieldsURL(),
		Submit:          ct.SubmitSelector(),
		Fields:          fieldViews(ct.Fields()),
		Extras:          fieldViews(ct.Extras()),
	}
}

func fieldViews(fields []*field.Field) []fieldView {
	out := make([]fieldView, 0, len(fields))
	for _, f := range fields {
		v := fieldView{
			MachineName: f.MachineName(),
			Label:       f.Label(),
			Type:        f.Type(),
			Selector:    f.Selector(),
			Required:    f.Required(),
			SkipRoles:   f.SkipRoles(),
		}
		if f.HasWidget() {
			v.Widget = f.Widget().Name()
		}
		out = append(out, v)
	}
	return out
}
