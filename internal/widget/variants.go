package widget

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

type (
	ruleFunc func(Owner) Rule
	fillFunc func(w *Widget, actor types.Actor, value any) error

	// variant is the admin name and selector rule of a Kind.
	variant struct {
		name string
		rule ruleFunc
	}
)

// entityReferenceType is the field type that autocompletes on target id.
const entityReferenceType = "Entity Reference"

// titleMachineName is the node title, which has a fixed selector.
const titleMachineName = "title"

// plainTextFormat is the text format WYSIWYG widgets are switched to before
// filling, since the editor itself cannot be typed into.
const plainTextFormat = "plain_text"

func fixed(r Rule) ruleFunc { return func(Owner) Rule { return r } }

var variants = [...]variant{
	KindText: {
		name: "Text field",
		rule: func(o Owner) Rule {
			if o.MachineName() == titleMachineName {
				return RuleTitle
			}
			return RuleValue
		},
	},
	KindTextArea:       {name: "Text area (multiple rows)", rule: fixed(RuleValue)},
	KindEmail:          {name: "Text field", rule: fixed(RuleEmail)},
	KindSelect:         {name: "Select list", rule: fixed(RuleDefault)},
	KindLanguage:       {name: "Language", rule: fixed(RuleDefault)},
	KindCheckboxes:     {name: "Check boxes/radio buttons", rule: fixed(RuleContainerID)},
	KindRadios:         {name: "Check boxes/radio buttons", rule: fixed(RuleFormItem)},
	KindSingleCheckbox: {name: "Single on/off checkbox", rule: fixed(RuleDefault)},
	KindAutocomplete: {
		name: "Autocomplete",
		rule: func(o Owner) Rule {
			if o.Type() == entityReferenceType {
				return RuleTargetID
			}
			return RuleDefault
		},
	},
	KindFile:          {name: "File", rule: fixed(RuleUpload)},
	KindImage:         {name: "Image", rule: fixed(RuleUpload)},
	KindLink:          {name: "Link", rule: fixed(RuleDefault)},
	KindAddress:       {name: "Dynamic address form", rule: fixed(RuleDelta)},
	KindGeocode:       {name: "Geocode from another field", rule: fixed(RuleFieldName)},
	KindMedia:         {name: "Media file selector", rule: fixed(RuleDefault)},
	KindMediaBrowser:  {name: "Media browser", rule: fixed(RuleDefault)},
	KindEmbedded:      {name: "Embedded", rule: fixed(RuleDefault)},
	KindScheduler:     {name: "Fieldset containing scheduling settings", rule: fixed(RuleDefault)},
	KindOGReference:   {name: "OG reference", rule: fixed(RuleDefault)},
	KindHierarchical:  {name: "Hierarchical Select", rule: fixed(RuleDefault)},
	KindVideo:         {name: "Video", rule: fixed(RuleDefault)},
	KindWysiwyg:       {name: "Text area with a summary", rule: fixed(RuleDelta)},
	KindUserAccount:   {name: "User account", rule: fixed(RuleDefault)},
	KindPopUpCalendar: {name: "Pop-up calendar", rule: fixed(RuleDefault)},
	KindPath:          {name: "Path module form elements", rule: fixed(RuleDefault)},
}

// fills holds the fill algorithm per kind. Kinds without an entry cannot be
// driven and filling them is a silent no-op. Image uploads are refused by the
// headless browser in use, so the image widget is kept but not driven.
var fills = map[Kind]fillFunc{
	KindText:           fillText,
	KindTextArea:       fillText,
	KindEmail:          fillText,
	KindSelect:         fillSelect,
	KindLanguage:       fillSelect,
	KindCheckboxes:     fillCheckboxes,
	KindRadios:         fillRadios,
	KindSingleCheckbox: fillSingleCheckbox,
	KindAutocomplete:   fillText,
	KindFile:           fillFile,
	KindLink:           fillLink,
	KindAddress:        fillAddress,
	KindWysiwyg:        fillWysiwyg,
	KindUserAccount:    fillText,
	KindPopUpCalendar:  fillText,
	KindPath:           fillText,
}

func fillText(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	return actor.FillField(w.Selector(), value)
}

// fillSelect leaves the current selection alone when value is empty.
func fillSelect(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	return actor.SelectOption(w.Selector(), value)
}

func fillFile(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	return actor.AttachFile(w.Selector(), fmt.Sprint(value))
}

// fillCheckboxes toggles only the options named in value, a map from option
// label to desired state.
func fillCheckboxes(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	opts, err := asMap(value)
	if err != nil {
		return err
	}
	container := w.Selector()
	for _, label := range sortedKeys(opts) {
		sel := OptionXPath(container, label)
		if truthy(opts[label]) {
			err = actor.CheckOption(sel)
		} else {
			err = actor.UncheckOption(sel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// fillRadios accepts either the option to select or a map of option label to
// state, in which case every option set to true is selected.
func fillRadios(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	opts, err := asMap(value)
	if err != nil {
		return actor.SelectOption(w.Selector(), value)
	}
	for _, label := range sortedKeys(opts) {
		if !truthy(opts[label]) {
			continue
		}
		if err := actor.SelectOption(w.Selector(), label); err != nil {
			return err
		}
	}
	return nil
}

func fillSingleCheckbox(w *Widget, actor types.Actor, value any) error {
	if truthy(value) {
		return actor.CheckOption(w.Selector())
	}
	return actor.UncheckOption(w.Selector())
}

// fillLink expects a map with "title" and "url".
func fillLink(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	m, err := asMap(value)
	if err != nil {
		return err
	}
	title, hasTitle := m["title"]
	url, hasURL := m["url"]
	if !hasTitle || !hasURL {
		return fmt.Errorf("%w: link value needs title and url", types.ErrInvalidValue)
	}
	sel := w.Selector()
	if err := actor.FillField(sel+"-0-title", title); err != nil {
		return err
	}
	return actor.FillField(sel+"-0-url", url)
}

// addressSuffixes maps address sub-element labels to selector suffixes.
var addressSuffixes = map[string]string{
	"Country":             "-country",
	"Full name":           "-name-line",
	"Company":             "-organisation-name",
	"Address 1":           "-thoroughfare",
	"Thoroughfare":        "-thoroughfare",
	"Address 2":           "-premise",
	"Premise":             "-premise",
	"City":                "-locality",
	"Locality":            "-locality",
	"State":               "-administrative-area",
	"Administrative area": "-administrative-area",
	"Postal code":         "-postal-code",
	"ZIP code":            "-postal-code",
}

// AddressSuffix returns the selector suffix for an address sub-element.
// Unknown labels are lower-cased with spaces turned into dashes.
func AddressSuffix(label string) string {
	if s, ok := addressSuffixes[label]; ok {
		return s
	}
	return "-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "-")
}

// fillAddress fills each sub-element of value at <selector><suffix>. The
// country is a select list; everything else is a text input.
func fillAddress(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	parts, err := asMap(value)
	if err != nil {
		return err
	}
	base := w.Selector()
	for _, label := range sortedKeys(parts) {
		sel := base + AddressSuffix(label)
		if label == "Country" {
			err = actor.SelectOption(sel, parts[label])
		} else {
			err = actor.FillField(sel, parts[label])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func fillWysiwyg(w *Widget, actor types.Actor, value any) error {
	if isEmpty(value) {
		return nil
	}
	base := w.Selector()
	if err := actor.SelectOption(base+"-format--2", plainTextFormat); err != nil {
		return err
	}
	return actor.FillField(base+"-value", value)
}

// isEmpty reports whether a fill should be skipped. Zero numbers, false and
// the string "0" count as empty alongside nil and empty strings and
// collections.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == "" || val == "0"
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case map[string]bool:
		return len(val) == 0
	case map[any]any:
		return len(val) == 0
	default:
		return false
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return val == "on" || val == "yes"
		}
		return b
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

func asMap(v any) (map[string]any, error) {
	switch val := v.(type) {
	case map[string]any:
		return val, nil
	case map[string]bool:
		out := make(map[string]any, len(val))
		for k, b := range val {
			out[k] = b
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a map, got %T", types.ErrInvalidValue, v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
