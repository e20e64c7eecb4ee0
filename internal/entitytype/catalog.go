package entitytype

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/mesh-intelligence/ctregistry/internal/field"
	"github.com/mesh-intelligence/ctregistry/internal/logger"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Definition declares an entity kind inline in the document.
type Definition struct {
	Name               string           `mapstructure:"name" validate:"required"`
	TypesURL           string           `mapstructure:"typesUrl"`
	ManageFieldsURL    string           `mapstructure:"manageFieldsUrl" validate:"required"`
	MachineNameVisible bool             `mapstructure:"machineNameVisible"`
	RequiredFields     []map[string]any `mapstructure:"requiredFields"`
}

var validate = validator.New()

// Catalog resolves short names to entity kinds for one run. Built-ins are
// always known; extensions are added from the document and persist on the
// catalog afterwards.
type Catalog struct {
	constructors map[string]Constructor
	extensions   map[string]EntityType
	logger       logger.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the catalog logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog returns a catalog with the asset constructor registered.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		constructors: map[string]Constructor{Asset: NewAsset},
		extensions:   make(map[string]EntityType),
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterConstructor makes ctor available to string locators under name.
func (c *Catalog) RegisterConstructor(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return fmt.Errorf("%w: constructor needs a name and a function", types.ErrInvalidEntityType)
	}
	c.constructors[name] = ctor
	return nil
}

// Register adds an extension under shortName. locator is either the name of
// a registered constructor or a mapping decoded as a Definition. Empty short
// names and short names of built-ins are rejected; an existing extension with
// the same short name is replaced.
func (c *Catalog) Register(shortName string, locator any) error {
	if shortName == "" {
		return fmt.Errorf("%w: empty short name", types.ErrInvalidEntityType)
	}
	if IsBuiltin(shortName) {
		return fmt.Errorf("%w: %q collides with a built-in entity type", types.ErrInvalidEntityType, shortName)
	}

	et, err := c.locate(locator)
	if err != nil {
		return fmt.Errorf("entity type %q: %w", shortName, err)
	}
	c.extensions[shortName] = et
	c.logger.Debug("entity type registered", "short_name", shortName, "kind", et.Name())
	return nil
}

// Load registers every locator in sorted short-name order. It stops at the
// first failure.
func (c *Catalog) Load(locators map[string]any) error {
	names := make([]string, 0, len(locators))
	for name := range locators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.Register(name, locators[name]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) locate(locator any) (EntityType, error) {
	switch loc := locator.(type) {
	case string:
		ctor, ok := c.constructors[loc]
		if !ok {
			return nil, fmt.Errorf("%w: no constructor %q", types.ErrUnknownEntityType, loc)
		}
		return ctor(), nil
	case map[string]any:
		return decodeDefinition(loc)
	default:
		return nil, fmt.Errorf("%w: locator must be a constructor name or a mapping, got %T",
			types.ErrInvalidEntityType, locator)
	}
}

func decodeDefinition(raw map[string]any) (EntityType, error) {
	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &def,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidEntityType, err)
	}
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidEntityType, err)
	}

	k := &kind{
		name:               def.Name,
		typesURL:           def.TypesURL,
		manageFieldsURL:    def.ManageFieldsURL,
		machineNameVisible: def.MachineNameVisible,
	}
	for _, rf := range def.RequiredFields {
		cfg, err := field.DecodeConfig(rf)
		if err != nil {
			return nil, err
		}
		if _, err := field.New(cfg, nil); err != nil {
			return nil, fmt.Errorf("%w: required field %q: %w", types.ErrInvalidEntityType, cfg.MachineName, err)
		}
		k.requiredFields = append(k.requiredFields, cfg)
	}
	return k, nil
}

// Resolve returns the kind for shortName, consulting built-ins first and
// then extensions. A miss returns an error wrapping types.ErrUnknownEntityType.
func (c *Catalog) Resolve(shortName string) (EntityType, error) {
	if ctor, ok := builtins[shortName]; ok {
		return ctor(), nil
	}
	if et, ok := c.extensions[shortName]; ok {
		return et, nil
	}
	return nil, fmt.Errorf("%w %q", types.ErrUnknownEntityType, shortName)
}

// Names returns every resolvable short name, built-ins first, each group
// sorted.
func (c *Catalog) Names() []string {
	var builtin, ext []string
	for name := range builtins {
		builtin = append(builtin, name)
	}
	for name := range c.extensions {
		ext = append(ext, name)
	}
	sort.Strings(builtin)
	sort.Strings(ext)
	return append(builtin, ext...)
}
