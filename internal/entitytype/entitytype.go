// Package entitytype describes the kinds of entity whose bundles carry fields:
// their admin URLs, their intrinsically required fields, and whether bundle
// machine names are shown on the bundle list.
package entitytype

import (
	"strings"

	"github.com/mesh-intelligence/ctregistry/internal/field"
)

// EntityType is one kind of entity.
type EntityType interface {
	// Name is the machine-readable kind name, e.g. "node".
	Name() string
	// TypesURL is the bundle list page. Kinds without bundles return false.
	TypesURL() (string, bool)
	// ManageFieldsURL is the "manage fields" page of bundle.
	ManageFieldsURL(bundle string) string
	// RequiredFields are the fields every bundle of this kind has, in form
	// order. The result is a fresh slice on every call.
	RequiredFields() []field.Config
	// MachineNameVisible reports whether the bundle list shows machine names.
	MachineNameVisible() bool
}

// Constructor builds an EntityType.
type Constructor func() EntityType

// BundlePlaceholder is replaced with the bundle name in URL templates.
const BundlePlaceholder = "{bundle}"

// Built-in kind names.
const (
	Node         = "node"
	TaxonomyTerm = "taxonomy_term"
	File         = "file"
	Flag         = "flag"
	User         = "user"
	Asset        = "asset"
)

// Default is the kind used by content types that do not name one.
const Default = Node

// kind is a table-driven EntityType. Every built-in and every inline
// definition is a kind.
type kind struct {
	name               string
	typesURL           string
	manageFieldsURL    string
	machineNameVisible bool
	requiredFields     []field.Config
}

func (k *kind) Name() string { return k.name }

func (k *kind) TypesURL() (string, bool) { return k.typesURL, k.typesURL != "" }

func (k *kind) ManageFieldsURL(bundle string) string {
	return strings.ReplaceAll(k.manageFieldsURL, BundlePlaceholder, bundle)
}

func (k *kind) RequiredFields() []field.Config {
	out := make([]field.Config, len(k.requiredFields))
	copy(out, k.requiredFields)
	return out
}

func (k *kind) MachineNameVisible() bool { return k.machineNameVisible }

var builtins = map[string]Constructor{
	Node: func() EntityType {
		return &kind{
			name:               Node,
			typesURL:           "admin/structure/types",
			manageFieldsURL:    "admin/structure/types/manage/{bundle}/fields",
			machineNameVisible: true,
			requiredFields: []field.Config{
				{MachineName: "title", Label: "Title", Type: "Node module element"},
			},
		}
	},
	TaxonomyTerm: func() EntityType {
		return &kind{
			name:            TaxonomyTerm,
			typesURL:        "admin/structure/taxonomy",
			manageFieldsURL: "admin/structure/taxonomy/{bundle}/fields",
			requiredFields: []field.Config{
				{MachineName: "name", Label: "Name", Type: "Taxonomy module element", Selector: "#edit-name"},
				{
					MachineName: "description",
					Label:       "Description",
					Type:        "Long text",
					Widget:      "Text area with a summary",
					Selector:    "#edit-description",
				},
			},
		}
	},
	File: func() EntityType {
		return &kind{
			name:            File,
			typesURL:        "admin/structure/file-types",
			manageFieldsURL: "admin/structure/file-types/manage/{bundle}/fields",
			requiredFields: []field.Config{
				{MachineName: "filename", Label: "Name", Type: "File module element", Selector: "#edit-filename"},
				{MachineName: "preview", Label: "Preview"},
			},
		}
	},
	Flag: func() EntityType {
		return &kind{
			name:            Flag,
			typesURL:        "admin/structure/flags",
			manageFieldsURL: "admin/structure/flags/manage/{bundle}/fields",
		}
	},
	User: func() EntityType {
		return &kind{
			name:            User,
			manageFieldsURL: "admin/config/people/accounts/fields",
		}
	},
}

// NewAsset builds the asset kind. It is not built in; catalogs register it
// as a constructor so documents can map a short name to "asset".
func NewAsset() EntityType {
	return &kind{
		name:            Asset,
		typesURL:        "admin/structure/assets",
		manageFieldsURL: "admin/structure/assets/manage/{bundle}/fields",
		requiredFields: []field.Config{
			{MachineName: "title", Label: "Title", Type: "Asset module element"},
		},
	}
}

// IsBuiltin reports whether name is a built-in kind.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}
