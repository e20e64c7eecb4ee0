// Package contenttype builds bundles: an entity kind plus ordered fields and
// extras, with global references resolved against shared pools.
package contenttype

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/ctregistry/internal/document"
	"github.com/mesh-intelligence/ctregistry/internal/entitytype"
	"github.com/mesh-intelligence/ctregistry/internal/field"
	"github.com/mesh-intelligence/ctregistry/internal/special"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// DefaultSubmitSelector is the submit control of entity edit forms.
const DefaultSubmitSelector = "#edit-submit"

// Globals keys accepted in each list.
var (
	fieldGlobalsKeys = []string{document.KeyGlobals, document.KeyGlobalFields}
	extraGlobalsKeys = []string{document.KeyGlobalExtras, document.KeyGlobals}
)

// Sources are the already-built collaborators a bundle resolves against.
type Sources struct {
	Catalog      *entitytype.Catalog
	GlobalFields *Set
	GlobalExtras *Set
	Resolver     *special.Resolver
}

// ContentType is a bundle of an entity kind. It is read-only once built.
type ContentType struct {
	machineName string
	humanName   string
	entityType  entitytype.EntityType
	submit      string
	fields      *Set
	extras      *Set
}

// New builds the content type described by b. The entity kind's required
// fields come first; the document's fields and extras are then applied in
// order, later entries replacing earlier ones of the same name.
func New(b document.Bundle, src Sources) (*ContentType, error) {
	if b.MachineName == "" {
		return nil, fmt.Errorf("%w: machineName is required", types.ErrInvalidBundle)
	}
	if src.Catalog == nil {
		src.Catalog = entitytype.NewCatalog()
	}
	if src.GlobalFields == nil {
		src.GlobalFields = NewSet()
	}
	if src.GlobalExtras == nil {
		src.GlobalExtras = NewSet()
	}
	if src.Resolver == nil {
		src.Resolver = special.NewResolver()
	}

	kind := b.EntityType
	if kind == "" {
		kind = entitytype.Default
	}
	et, err := src.Catalog.Resolve(kind)
	if err != nil {
		return nil, fmt.Errorf("content type %q: %w", b.MachineName, err)
	}

	ct := &ContentType{
		machineName: b.MachineName,
		humanName:   b.HumanName,
		entityType:  et,
		submit:      b.Submit,
		fields:      NewSet(),
		extras:      NewSet(),
	}
	if ct.submit == "" {
		ct.submit = DefaultSubmitSelector
	}

	for _, cfg := range et.RequiredFields() {
		f, err := field.New(cfg, src.Resolver)
		if err != nil {
			return nil, fmt.Errorf("content type %q: %w", b.MachineName, err)
		}
		ct.fields.Put(f)
	}

	if err := apply(ct.fields, b.Fields, src.GlobalFields, fieldGlobalsKeys, src.Resolver); err != nil {
		return nil, fmt.Errorf("content type %q fields: %w", b.MachineName, err)
	}
	if err := apply(ct.extras, b.Extras, src.GlobalExtras, extraGlobalsKeys, src.Resolver); err != nil {
		return nil, fmt.Errorf("content type %q extras: %w", b.MachineName, err)
	}
	return ct, nil
}

// apply inserts list into dst in a single ordered pass. Global references are
// looked up in pool and must all exist.
func apply(dst *Set, list document.FieldList, pool *Set, allowed []string, resolver *special.Resolver) error {
	seenGlobals := false
	for _, e := range list {
		if !e.IsGlobals() {
			f, err := field.FromMap(e.Field, resolver)
			if err != nil {
				return err
			}
			dst.Put(f)
			continue
		}

		if !slices.Contains(allowed, e.GlobalsKey) {
			return fmt.Errorf("%w: %q is not allowed here", types.ErrInvalidBundle, e.GlobalsKey)
		}
		if seenGlobals {
			return types.ErrDuplicateGlobals
		}
		seenGlobals = true

		for _, name := range e.Globals {
			f, ok := pool.Get(name)
			if !ok {
				return fmt.Errorf("%w: the %s field was set as global, but it is not in the list of global fields",
					types.ErrGlobalNotFound, name)
			}
			dst.Put(f)
		}
	}
	return nil
}

// MachineName returns the bundle machine name.
func (c *ContentType) MachineName() string { return c.machineName }

// HumanName returns the bundle label.
func (c *ContentType) HumanName() string { return c.humanName }

// EntityType returns the owning entity kind.
func (c *ContentType) EntityType() entitytype.EntityType { return c.entityType }

// ManageFieldsURL returns the admin "manage fields" page of this bundle.
func (c *ContentType) ManageFieldsURL() string {
	return c.entityType.ManageFieldsURL(c.machineName)
}

// SubmitSelector returns the selector of the form's submit control.
func (c *ContentType) SubmitSelector() string { return c.submit }

// Fields returns the fields in form order.
func (c *ContentType) Fields() []*field.Field { return c.fields.All() }

// FieldNames returns field machine names in form order.
func (c *ContentType) FieldNames() []string { return c.fields.Names() }

// Field returns the named field, or an error wrapping types.ErrFieldNotFound.
func (c *ContentType) Field(name string) (*field.Field, error) {
	f, ok := c.fields.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrFieldNotFound, c.machineName, name)
	}
	return f, nil
}

// Extras returns the extras in form order.
func (c *ContentType) Extras() []*field.Field { return c.extras.All() }

// ExtraNames returns extra machine names in form order.
func (c *ContentType) ExtraNames() []string { return c.extras.Names() }

// Extra returns the named extra, or an error wrapping types.ErrFieldNotFound.
func (c *ContentType) Extra(name string) (*field.Field, error) {
	f, ok := c.extras.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s extra %s", types.ErrFieldNotFound, c.machineName, name)
	}
	return f, nil
}

// FillFields fills every field visible to role in form order. A value in
// overrides, keyed by machine name, replaces the field's test data.
// Widget-less fields are passed over. Actor errors are returned unchanged.
func (c *ContentType) FillFields(actor types.Actor, role string, overrides map[string]any) error {
	return fill(c.fields, actor, role, overrides)
}

// FillExtras is FillFields for the extras.
func (c *ContentType) FillExtras(actor types.Actor, role string, overrides map[string]any) error {
	return fill(c.extras, actor, role, overrides)
}

// Submit clicks the submit control.
func (c *ContentType) Submit(actor types.Actor) error {
	return actor.Click(c.submit)
}

func fill(set *Set, actor types.Actor, role string, overrides map[string]any) error {
	for _, f := range set.All() {
		if f.IsSkipped(role) || !f.HasWidget() {
			continue
		}
		var err error
		if v, ok := overrides[f.MachineName()]; ok {
			err = f.Fill(actor, v)
		} else {
			err = f.Fill(actor)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
