// Package registry builds the content type graph from a document and serves
// read-only lookups over it for the rest of the run.
package registry

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/ctregistry/internal/contenttype"
	"github.com/mesh-intelligence/ctregistry/internal/document"
	"github.com/mesh-intelligence/ctregistry/internal/entitytype"
	"github.com/mesh-intelligence/ctregistry/internal/field"
	"github.com/mesh-intelligence/ctregistry/internal/logger"
	"github.com/mesh-intelligence/ctregistry/internal/paths"
	"github.com/mesh-intelligence/ctregistry/internal/special"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Registry owns the entity catalog, the global field and extra pools, and
// the content types. It is built once by Init and never changes afterwards.
type Registry struct {
	mu          sync.RWMutex
	initialized bool
	source      string

	logger   logger.Logger
	catalog  *entitytype.Catalog
	resolver *special.Resolver

	globalFields *contenttype.Set
	globalExtras *contenttype.Set
	typeOrder    []string
	types        map[string]*contenttype.ContentType
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithCatalog sets the entity catalog. Extensions from the document are
// added to it.
func WithCatalog(c *entitytype.Catalog) Option {
	return func(r *Registry) { r.catalog = c }
}

// WithResolver sets the special value resolver used for test data.
func WithResolver(res *special.Resolver) Option {
	return func(r *Registry) { r.resolver = res }
}

// New returns an uninitialized registry.
func New(opts ...Option) *Registry {
	r := &Registry{logger: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalog == nil {
		r.catalog = entitytype.NewCatalog(entitytype.WithLogger(r.logger))
	}
	if r.resolver == nil {
		r.resolver = special.NewResolver()
	}
	return r
}

// Load locates the document for cfg, parses it and calls Init.
func (r *Registry) Load(cfg types.Config) error {
	if r.Initialized() {
		return nil
	}
	path, err := paths.FindDocument(cfg)
	if err != nil {
		return err
	}
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	r.logger.Debug("content types document found", "path", path)
	return r.init(doc, path)
}

// Init builds the registry from doc. A second call on an initialized
// registry does nothing. The build is all-or-nothing: on error the registry
// stays uninitialized and holds nothing from the failed attempt.
func (r *Registry) Init(doc *document.Document) error {
	return r.init(doc, "")
}

func (r *Registry) init(doc *document.Document, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if doc == nil {
		return fmt.Errorf("%w: no document", types.ErrDocumentInvalid)
	}

	if err := r.catalog.Load(doc.EntityTypes); err != nil {
		return err
	}

	globalFields, err := r.buildPool(doc.GlobalFields, document.SectionGlobalFields)
	if err != nil {
		return err
	}
	globalExtras, err := r.buildPool(doc.GlobalExtras, document.SectionGlobalExtras)
	if err != nil {
		return err
	}

	src := contenttype.Sources{
		Catalog:      r.catalog,
		GlobalFields: globalFields,
		GlobalExtras: globalExtras,
		Resolver:     r.resolver,
	}
	built := make(map[string]*contenttype.ContentType, len(doc.ContentTypes))
	var order []string
	for _, b := range doc.ContentTypes {
		ct, err := contenttype.New(b, src)
		if err != nil {
			return err
		}
		if _, ok := built[ct.MachineName()]; !ok {
			order = append(order, ct.MachineName())
		}
		built[ct.MachineName()] = ct
	}

	r.globalFields = globalFields
	r.globalExtras = globalExtras
	r.types = built
	r.typeOrder = order
	r.source = source
	r.initialized = true

	r.logger.Info("content type registry initialized",
		"content_types", len(order),
		"global_fields", globalFields.Len(),
		"global_extras", globalExtras.Len(),
		"entity_types", len(r.catalog.Names()),
	)
	return nil
}

func (r *Registry) buildPool(list document.FieldList, section string) (*contenttype.Set, error) {
	pool := contenttype.NewSet()
	for _, e := range list {
		if e.IsGlobals() {
			return nil, fmt.Errorf("%w: %s cannot reference globals", types.ErrDocumentInvalid, section)
		}
		f, err := field.FromMap(e.Field, r.resolver)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section, err)
		}
		pool.Put(f)
	}
	return pool, nil
}

// Initialized reports whether Init has completed.
func (r *Registry) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Source returns the document path the registry was loaded from, if any.
func (r *Registry) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

// ContentType returns the content type named name, or nil and an error
// wrapping types.ErrContentTypeNotFound.
func (r *Registry) ContentType(name string) (*contenttype.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrContentTypeNotFound, name)
	}
	return ct, nil
}

// ContentTypes returns every content type in document order.
func (r *Registry) ContentTypes() []*contenttype.ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*contenttype.ContentType, len(r.typeOrder))
	for i, name := range r.typeOrder {
		out[i] = r.types[name]
	}
	return out
}

// GlobalField returns the named global field, or nil and an error wrapping
// types.ErrGlobalFieldNotFound.
func (r *Registry) GlobalField(name string) (*field.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.globalFields != nil {
		if f, ok := r.globalFields.Get(name); ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrGlobalFieldNotFound, name)
}

// GlobalExtra returns the named global extra, or nil and an error wrapping
// types.ErrGlobalExtraNotFound.
func (r *Registry) GlobalExtra(name string) (*field.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.globalExtras != nil {
		if f, ok := r.globalExtras.Get(name); ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrGlobalExtraNotFound, name)
}

// GlobalFields returns the global field pool in document order.
func (r *Registry) GlobalFields() []*field.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.globalFields == nil {
		return nil
	}
	return r.globalFields.All()
}

// GlobalExtras returns the global extra pool in document order.
func (r *Registry) GlobalExtras() []*field.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.globalExtras == nil {
		return nil
	}
	return r.globalExtras.All()
}

// EntityTypes returns every entity type short name the registry can resolve.
func (r *Registry) EntityTypes() []string {
	return r.catalog.Names()
}

// EntityType resolves a short name through the registry's catalog.
func (r *Registry) EntityType(shortName string) (entitytype.EntityType, error) {
	return r.catalog.Resolve(shortName)
}
