package widget

import "strings"

// Rule selects how a selector is derived from a field machine name.
type Rule int

const (
	// RuleDefault is "#edit-<name>-und".
	RuleDefault Rule = iota
	// RuleTitle is the fixed "#edit-title".
	RuleTitle
	// RuleValue appends "-0-value".
	RuleValue
	// RuleEmail appends "-0-email".
	RuleEmail
	// RuleUpload appends "-0-upload".
	RuleUpload
	// RuleTargetID appends "-0-target-id".
	RuleTargetID
	// RuleDelta appends "-0", the first item of a multi-element widget.
	RuleDelta
	// RuleFieldName is the ".field-name-<name>" display class.
	RuleFieldName
	// RuleContainerID is the bare container id, without "#".
	RuleContainerID
	// RuleFormItem is the radio input xpath inside the form item wrapper.
	RuleFormItem
)

// Dashed replaces underscores in a machine name with dashes.
func Dashed(machine string) string {
	return strings.ReplaceAll(machine, "_", "-")
}

// BaseSelector converts field_foo_bar into edit-field-foo-bar-und.
func BaseSelector(machine string) string {
	return "edit-" + Dashed(machine) + "-und"
}

// DeriveSelector computes the selector for machine under rule. It is a pure
// function of its inputs; widgets call it on every Selector() so a renamed
// field is picked up immediately.
func DeriveSelector(machine string, rule Rule) string {
	base := BaseSelector(machine)
	switch rule {
	case RuleTitle:
		return "#edit-title"
	case RuleValue:
		return "#" + base + "-0-value"
	case RuleEmail:
		return "#" + base + "-0-email"
	case RuleUpload:
		return "#" + base + "-0-upload"
	case RuleTargetID:
		return "#" + base + "-0-target-id"
	case RuleDelta:
		return "#" + base + "-0"
	case RuleFieldName:
		return ".field-name-" + Dashed(machine)
	case RuleContainerID:
		return base
	case RuleFormItem:
		return `//div[contains(@class, "form-item-` + base + `")]/input`
	default:
		return "#" + base
	}
}

// OptionXPath locates the input for a labelled option inside the container
// with the given id.
func OptionXPath(containerID, option string) string {
	return `//div[@id="` + containerID + `"]//label[contains(text(), "` + option + `")]/../input`
}
