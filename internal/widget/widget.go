// Package widget models the form controls used to put values into fields.
//
// Each widget belongs to exactly one field and keeps a non-owning reference
// to it through the Owner interface. Construction dispatches on the field
// configuration (subtype, type and widget name) to a closed set of kinds;
// each kind supplies a selector rule and a fill algorithm expressed purely in
// terms of types.Actor.
package widget

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Owner is the field a widget is attached to.
type Owner interface {
	MachineName() string
	Type() string
}

// Config carries the field configuration keys that drive dispatch.
type Config struct {
	Type     string `mapstructure:"type"`
	Widget   string `mapstructure:"widget"`
	Subtype  string `mapstructure:"subtype"`
	Selector string `mapstructure:"selector"`
}

// emailType is the field type whose widgets need their own selector rule.
const emailType = "Email"

// keySeparator joins a type and widget name into a dispatch key.
const keySeparator = "::"

// IsEmpty reports whether no widget-producing key is present.
func (c Config) IsEmpty() bool {
	return c.Type == "" && c.Widget == "" && c.Subtype == ""
}

// Key returns the dispatch key: subtype, then "Email::<widget>", then the
// widget name, then the field type.
func (c Config) Key() string {
	switch {
	case c.Subtype != "":
		return c.Subtype
	case c.Type == emailType && c.Widget != "":
		return c.Type + keySeparator + c.Widget
	case c.Widget != "":
		return c.Widget
	default:
		return c.Type
	}
}

// dispatch maps configuration keys to kinds. Fields without a widget column
// on the admin page (e.g. the node title) are keyed by their type.
var dispatch = map[string]Kind{
	"Asset module element":                    KindText,
	"Autocomplete":                            KindAutocomplete,
	"Autocomplete text field":                 KindAutocomplete,
	"Check boxes":                             KindCheckboxes,
	"Dynamic address form":                    KindAddress,
	"Email::Text field":                       KindEmail,
	"Embedded":                                KindEmbedded,
	"Fieldset containing scheduling settings": KindScheduler,
	"File":                                    KindFile,
	"File module element":                     KindText,
	"Geocode from another field":              KindGeocode,
	"Hierarchical Select":                     KindHierarchical,
	"Image":                                   KindImage,
	"Language":                                KindLanguage,
	"Link":                                    KindLink,
	"Media browser":                           KindMediaBrowser,
	"Media file selector":                     KindMedia,
	"Node module element":                     KindText,
	"OG reference":                            KindOGReference,
	"Path module form elements":               KindPath,
	"Pop-up calendar":                         KindPopUpCalendar,
	"Radio buttons":                           KindRadios,
	"Select list":                             KindSelect,
	"Single on/off checkbox":                  KindSingleCheckbox,
	"Taxonomy module element":                 KindText,
	"Text area (multiple rows)":               KindTextArea,
	"Text area with a summary":                KindWysiwyg,
	"Text field":                              KindText,
	"User account":                            KindUserAccount,
	"Video":                                   KindVideo,
}

// Lookup returns the kind registered for a dispatch key.
func Lookup(key string) (Kind, bool) {
	k, ok := dispatch[key]
	return k, ok
}

// Keys returns all dispatch keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(dispatch))
	for k := range dispatch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Widget is a form control attached to a field.
type Widget struct {
	kind     Kind
	owner    Owner
	selector string
}

// New builds the widget selected by cfg for owner. An explicit selector in
// cfg overrides the derived one. Returns an error wrapping
// types.ErrUnknownWidget when the dispatch key is not registered.
func New(cfg Config, owner Owner) (*Widget, error) {
	key := cfg.Key()
	kind, ok := dispatch[key]
	if !ok {
		return nil, fmt.Errorf("%w for %q", types.ErrUnknownWidget, key)
	}
	w := &Widget{kind: kind, owner: owner}
	if cfg.Selector != "" {
		w.SetSelector(cfg.Selector)
	}
	return w, nil
}

// Kind returns the widget variant.
func (w *Widget) Kind() Kind { return w.kind }

// Name returns the widget name as listed on the admin "manage fields" page.
func (w *Widget) Name() string { return variants[w.kind].name }

// Owner returns the field the widget is attached to.
func (w *Widget) Owner() Owner { return w.owner }

// SetSelector sets an explicit selector, replacing the derived one.
func (w *Widget) SetSelector(selector string) { w.selector = selector }

// HasSelector reports whether an explicit selector was set.
func (w *Widget) HasSelector() bool { return w.selector != "" }

// Supported reports whether filling the widget performs any interaction.
func (w *Widget) Supported() bool {
	_, ok := fills[w.kind]
	return ok
}

// Rule returns the selector rule for the widget's current owner.
func (w *Widget) Rule() Rule { return variants[w.kind].rule(w.owner) }

// Selector returns the CSS or XPath selector for the widget. The text
// widget on a field named "title" always uses "#edit-title". Otherwise an
// explicit selector wins, and failing that the selector is derived from the
// owner's current machine name.
func (w *Widget) Selector() string {
	rule := w.Rule()
	if rule == RuleTitle {
		return DeriveSelector(w.owner.MachineName(), rule)
	}
	if w.HasSelector() {
		return w.selector
	}
	return DeriveSelector(w.owner.MachineName(), rule)
}

// Fill puts value into the widget through actor. Unsupported widgets do
// nothing and return nil. Actor errors are returned unchanged.
func (w *Widget) Fill(actor types.Actor, value any) error {
	fill, ok := fills[w.kind]
	if !ok {
		return nil
	}
	return fill(w, actor, value)
}
