// Package field models a single attribute on an entity edit form: its
// identity, the widget used to fill it, the steps run around the fill, the
// roles that never see it, and its test data.
package field

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/ctregistry/internal/special"
	"github.com/mesh-intelligence/ctregistry/internal/widget"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Config is the declarative form of a field as written in the document.
type Config struct {
	MachineName string       `mapstructure:"machineName" validate:"required"`
	Label       string       `mapstructure:"label"`
	Type        string       `mapstructure:"type"`
	Widget      string       `mapstructure:"widget"`
	Subtype     string       `mapstructure:"subtype"`
	Selector    string       `mapstructure:"selector"`
	Required    bool         `mapstructure:"required"`
	PreClick    string       `mapstructure:"preClick"`
	PreSteps    []types.Step `mapstructure:"preSteps"`
	PostSteps   []types.Step `mapstructure:"postSteps"`
	SkipRoles   any          `mapstructure:"skipRoles"`
	TestData    any          `mapstructure:"testData"`
}

// Labels that always make a field required.
var alwaysRequiredLabels = []string{"Title", "Name"}

// typesWithoutWidgetColumn lists field types that show nothing in the
// widget column of the admin "manage fields" page.
var typesWithoutWidgetColumn = []string{
	"Fieldset containing scheduling settings",
	"Meta tag module form elements.",
	"Node module element",
	"Path module form elements",
	"Poll choices",
	"Poll module settings",
	"Redirect module form elements",
	"XML sitemap module element",
}

var validate = validator.New()

// Field is one form-visible attribute of an entity bundle.
type Field struct {
	machineName string
	label       string
	typ         string
	selector    string
	required    bool
	preSteps    []types.Step
	postSteps   []types.Step
	skipRoles   []string
	testData    any
	widget      *widget.Widget
	rng         *rand.Rand
}

// FromMap decodes an untyped field definition and builds the Field.
// Scalars are weakly typed, so required: "false" reads as false.
func FromMap(raw map[string]any, resolver *special.Resolver) (*Field, error) {
	cfg, err := DecodeConfig(raw)
	if err != nil {
		return nil, err
	}
	return New(cfg, resolver)
}

// DecodeConfig decodes an untyped field definition into a Config.
func DecodeConfig(raw map[string]any) (Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(raw); err != nil {
		return cfg, fmt.Errorf("%w: %v", types.ErrInvalidField, err)
	}
	return cfg, nil
}

// New builds a Field from cfg. The widget is created only when cfg names a
// type, widget or subtype. Test data tokens are expanded through resolver.
// Every failure wraps types.ErrConfiguration.
func New(cfg Config, resolver *special.Resolver) (*Field, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidField, err)
	}
	if resolver == nil {
		resolver = special.NewResolver()
	}

	f := &Field{
		machineName: cfg.MachineName,
		label:       cfg.Label,
		typ:         cfg.Type,
		selector:    cfg.Selector,
		rng:         resolver.Rand(),
	}

	wcfg := widget.Config{Type: cfg.Type, Widget: cfg.Widget, Subtype: cfg.Subtype, Selector: cfg.Selector}
	if !wcfg.IsEmpty() {
		w, err := widget.New(wcfg, f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", cfg.MachineName, err)
		}
		f.widget = w
	}

	f.required = cfg.Required || slices.Contains(alwaysRequiredLabels, cfg.Label)

	if cfg.PreClick != "" {
		f.preSteps = append(f.preSteps, types.ClickStep(cfg.PreClick))
	}
	f.preSteps = append(f.preSteps, cfg.PreSteps...)
	f.postSteps = append(f.postSteps, cfg.PostSteps...)
	for _, s := range append(slices.Clone(f.preSteps), f.postSteps...) {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("field %q: %w", cfg.MachineName, err)
		}
	}

	f.skipRoles = stringList(cfg.SkipRoles)

	data, err := resolver.Resolve(cfg.TestData)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", cfg.MachineName, err)
	}
	f.testData = data

	return f, nil
}

// stringList returns v as a list of strings, or nil when v is not a list.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return slices.Clone(list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

// MachineName returns the field's machine name.
func (f *Field) MachineName() string { return f.machineName }

// Label returns the human-readable label.
func (f *Field) Label() string { return f.label }

// Type returns the field type as shown on the admin page.
func (f *Field) Type() string { return f.typ }

// Required reports whether the field is mandatory on the edit form.
func (f *Field) Required() bool { return f.required }

// Widget returns the field's widget, or nil for widget-less fields.
func (f *Field) Widget() *widget.Widget { return f.widget }

// HasWidget reports whether the field owns a widget.
func (f *Field) HasWidget() bool { return f.widget != nil }

// HasWidgetColumn reports whether the field type lists a widget name on the
// admin "manage fields" page.
func (f *Field) HasWidgetColumn() bool {
	return !slices.Contains(typesWithoutWidgetColumn, f.typ)
}

// Selector returns the widget selector, or the configured selector for a
// widget-less field.
func (f *Field) Selector() string {
	if f.widget != nil {
		return f.widget.Selector()
	}
	return f.selector
}

// PreSteps returns the steps run before the widget is filled.
func (f *Field) PreSteps() []types.Step { return slices.Clone(f.preSteps) }

// PostSteps returns the steps run after the widget is filled.
func (f *Field) PostSteps() []types.Step { return slices.Clone(f.postSteps) }

// SkipRoles returns the roles whose forms do not show this field.
func (f *Field) SkipRoles() []string { return slices.Clone(f.skipRoles) }

// IsSkipped reports whether the field is absent from role's form.
func (f *Field) IsSkipped(role string) bool {
	return slices.Contains(f.skipRoles, role)
}

// TestData returns the resolved test data as configured.
func (f *Field) TestData() any { return f.testData }

// TestDataAt returns the i-th test value when the data is a list, wrapping
// around its length. Scalar data is returned for any i.
func (f *Field) TestDataAt(i int) any {
	list, ok := f.testData.([]any)
	if !ok {
		return f.testData
	}
	if len(list) == 0 {
		return nil
	}
	i %= len(list)
	if i < 0 {
		i += len(list)
	}
	return list[i]
}

// PickTestData returns a random element of list test data using rng, or the
// scalar test data.
func (f *Field) PickTestData(rng *rand.Rand) any {
	list, ok := f.testData.([]any)
	if !ok || len(list) == 0 {
		return f.TestDataAt(0)
	}
	return list[rng.IntN(len(list))]
}

// Fill runs the pre steps, fills the widget and runs the post steps. With no
// value given the field's test data is used. A field without a widget returns
// an error wrapping types.ErrNoWidget and touches nothing; actor errors are
// returned unchanged. Callers decide whether the field is skipped for the
// active role.
func (f *Field) Fill(actor types.Actor, value ...any) error {
	if f.widget == nil {
		return fmt.Errorf("%w: %s", types.ErrNoWidget, f.machineName)
	}

	var v any
	if len(value) > 0 {
		v = value[0]
	} else {
		v = f.PickTestData(f.rng)
	}

	for _, s := range f.preSteps {
		if err := s.Run(actor); err != nil {
			return err
		}
	}
	if err := f.widget.Fill(actor, v); err != nil {
		return err
	}
	for _, s := range f.postSteps {
		if err := s.Run(actor); err != nil {
			return err
		}
	}
	return nil
}
