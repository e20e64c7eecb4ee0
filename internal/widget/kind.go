package widget

// Kind identifies a widget variant. The set is closed; every Kind has an
// entry in the variants table.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	KindText
	KindTextArea
	KindEmail
	KindSelect
	KindLanguage
	KindCheckboxes
	KindRadios
	KindSingleCheckbox
	KindAutocomplete
	KindFile
	KindImage
	KindLink
	KindAddress
	KindGeocode
	KindMedia
	KindMediaBrowser
	KindEmbedded
	KindScheduler
	KindOGReference
	KindHierarchical
	KindVideo
	KindWysiwyg
	KindUserAccount
	KindPopUpCalendar
	KindPath

	// KindTotal is one past the last valid Kind.
	KindTotal = int(iota)
)

var kindIdents = [...]string{
	KindText:           "text",
	KindTextArea:       "textarea",
	KindEmail:          "email",
	KindSelect:         "select",
	KindLanguage:       "language",
	KindCheckboxes:     "checkboxes",
	KindRadios:         "radios",
	KindSingleCheckbox: "single_checkbox",
	KindAutocomplete:   "autocomplete",
	KindFile:           "file",
	KindImage:          "image",
	KindLink:           "link",
	KindAddress:        "address",
	KindGeocode:        "geocode",
	KindMedia:          "media",
	KindMediaBrowser:   "media_browser",
	KindEmbedded:       "embedded",
	KindScheduler:      "scheduler",
	KindOGReference:    "og_reference",
	KindHierarchical:   "hierarchical",
	KindVideo:          "video",
	KindWysiwyg:        "wysiwyg",
	KindUserAccount:    "user_account",
	KindPopUpCalendar:  "popup_calendar",
	KindPath:           "path",
}

// String returns the short identifier of the kind.
func (k Kind) String() string {
	if !k.IsValid() {
		return "unknown"
	}
	return kindIdents[k]
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return k > 0 && int(k) < KindTotal
}
