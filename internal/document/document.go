// Package document parses the content types YAML document.
package document

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Top-level section names.
const (
	SectionContentTypes = "ContentTypes"
	SectionGlobalFields = "GlobalFields"
	SectionGlobalExtras = "GlobalExtras"
	SectionEntityTypes  = "EntityTypes"
)

// Document is the parsed content types document.
type Document struct {
	ContentTypes []Bundle      `yaml:"ContentTypes" validate:"dive"`
	GlobalFields FieldList      `yaml:"GlobalFields"`
	GlobalExtras FieldList      `yaml:"GlobalExtras"`
	EntityTypes  map[string]any `yaml:"EntityTypes"`
}

// Bundle is one content type definition.
type Bundle struct {
	HumanName   string    `yaml:"humanName"`
	MachineName string    `yaml:"machineName" validate:"required"`
	EntityType  string    `yaml:"entityType"`
	Submit      string    `yaml:"submit"`
	Fields      FieldList `yaml:"fields"`
	Extras      FieldList `yaml:"extras"`
}

var validate = validator.New()

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDocumentNotFound, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a document. The ContentTypes section is required; every
// bundle needs a machineName.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDocumentInvalid, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", types.ErrDocumentInvalid)
	}
	top := root.Content[0]
	if !hasKey(top, SectionContentTypes) {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingSection, SectionContentTypes)
	}

	var doc Document
	if err := top.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDocumentInvalid, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDocumentInvalid, err)
	}
	return &doc, nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
