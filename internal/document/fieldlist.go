package document

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Keys that mark a globals reference inside a field list.
const (
	KeyGlobals      = "globals"
	KeyGlobalFields = "globalFields"
	KeyGlobalExtras = "globalExtras"
)

var globalsKeys = []string{KeyGlobals, KeyGlobalFields, KeyGlobalExtras}

// IsGlobalsKey reports whether key introduces a globals reference.
func IsGlobalsKey(key string) bool {
	return slices.Contains(globalsKeys, key)
}

// Entry is one element of a field list, in document order. It is either a
// field definition or a list of global names under GlobalsKey.
type Entry struct {
	GlobalsKey string
	Globals    []string
	Field      map[string]any
}

// IsGlobals reports whether the entry references globals.
func (e Entry) IsGlobals() bool { return e.GlobalsKey != "" }

// FieldList is an ordered field list. In YAML it is either a sequence of
// field mappings and {globals: [...]} items, or a mapping whose keys are
// machine names plus the globals keys.
type FieldList []Entry

// UnmarshalYAML accepts the sequence and mapping forms.
func (l *FieldList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		out := make(FieldList, 0, len(value.Content))
		for _, item := range value.Content {
			e, err := decodeItem(item)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		*l = out
		return nil
	case yaml.MappingNode:
		out := make(FieldList, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			e, err := decodePair(value.Content[i].Value, value.Content[i+1])
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		*l = out
		return nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: field list must be a sequence or a mapping", value.Line)
}

// decodeItem decodes a sequence item. A mapping with a single globals key
// is a globals entry.
func decodeItem(item *yaml.Node) (Entry, error) {
	if item.Kind != yaml.MappingNode {
		return Entry{}, fmt.Errorf("line %d: field entry must be a mapping", item.Line)
	}
	if len(item.Content) == 2 && IsGlobalsKey(item.Content[0].Value) {
		return decodeGlobals(item.Content[0].Value, item.Content[1])
	}
	var f map[string]any
	if err := item.Decode(&f); err != nil {
		return Entry{}, err
	}
	return Entry{Field: f}, nil
}

// decodePair decodes one key of the mapping form. The machine name defaults
// to the key.
func decodePair(key string, value *yaml.Node) (Entry, error) {
	if IsGlobalsKey(key) {
		return decodeGlobals(key, value)
	}
	f := map[string]any{}
	if !(value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		if value.Kind != yaml.MappingNode {
			return Entry{}, fmt.Errorf("line %d: field %q must be a mapping", value.Line, key)
		}
		if err := value.Decode(&f); err != nil {
			return Entry{}, err
		}
	}
	if _, ok := f["machineName"]; !ok {
		f["machineName"] = key
	}
	return Entry{Field: f}, nil
}

func decodeGlobals(key string, value *yaml.Node) (Entry, error) {
	var names []string
	if err := value.Decode(&names); err != nil {
		return Entry{}, fmt.Errorf("line %d: %s must be a list of names: %w", value.Line, key, err)
	}
	return Entry{GlobalsKey: key, Globals: names}, nil
}
