package entitytype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ctregistry/internal/field"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		short      string
		typesURL   string
		hasTypes   bool
		manage     string
		visible    bool
		requiredBy []string
	}{
		{Node, "admin/structure/types", true, "admin/structure/types/manage/article/fields", true, []string{"title"}},
		{TaxonomyTerm, "admin/structure/taxonomy", true, "admin/structure/taxonomy/article/fields", false, []string{"name", "description"}},
		{File, "admin/structure/file-types", true, "admin/structure/file-types/manage/article/fields", false, []string{"filename", "preview"}},
		{Flag, "admin/structure/flags", true, "admin/structure/flags/manage/article/fields", false, nil},
		{User, "", false, "admin/config/people/accounts/fields", false, nil},
	}

	c := NewCatalog()
	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			et, err := c.Resolve(tt.short)
			require.NoError(t, err)
			assert.Equal(t, tt.short, et.Name())

			url, ok := et.TypesURL()
			assert.Equal(t, tt.hasTypes, ok)
			assert.Equal(t, tt.typesURL, url)
			assert.Equal(t, tt.manage, et.ManageFieldsURL("article"))
			assert.Equal(t, tt.visible, et.MachineNameVisible())

			var names []string
			for _, cfg := range et.RequiredFields() {
				names = append(names, cfg.MachineName)
			}
			assert.Equal(t, tt.requiredBy, names)
		})
	}
}

func TestRequiredFieldsBuild(t *testing.T) {
	c := NewCatalog()
	for _, short := range []string{Node, TaxonomyTerm, File} {
		et, err := c.Resolve(short)
		require.NoError(t, err)
		for _, cfg := range et.RequiredFields() {
			_, err := field.New(cfg, nil)
			assert.NoError(t, err, "%s.%s", short, cfg.MachineName)
		}
	}

	tax, _ := c.Resolve(TaxonomyTerm)
	name, err := field.New(tax.RequiredFields()[0], nil)
	require.NoError(t, err)
	assert.True(t, name.Required())
	assert.Equal(t, "#edit-name", name.Selector())

	file, _ := c.Resolve(File)
	preview, err := field.New(file.RequiredFields()[1], nil)
	require.NoError(t, err)
	assert.False(t, preview.HasWidget())
}

func TestRequiredFieldsAreCopies(t *testing.T) {
	et, err := NewCatalog().Resolve(Node)
	require.NoError(t, err)
	fields := et.RequiredFields()
	fields[0].MachineName = "changed"
	assert.Equal(t, "title", et.RequiredFields()[0].MachineName)
}

func TestResolveUnknown(t *testing.T) {
	_, err := NewCatalog().Resolve("widget_thing")
	assert.ErrorIs(t, err, types.ErrUnknownEntityType)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestAssetIsNotBuiltin(t *testing.T) {
	c := NewCatalog()
	_, err := c.Resolve(Asset)
	assert.ErrorIs(t, err, types.ErrUnknownEntityType)

	require.NoError(t, c.Register("media_asset", "asset"))
	et, err := c.Resolve("media_asset")
	require.NoError(t, err)
	assert.Equal(t, Asset, et.Name())
	assert.Equal(t, "admin/structure/assets/manage/photo/fields", et.ManageFieldsURL("photo"))
	require.Len(t, et.RequiredFields(), 1)
	assert.Equal(t, "Asset module element", et.RequiredFields()[0].Type)
}

func TestRegisterConstructor(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.RegisterConstructor("commerce", func() EntityType {
		return &kind{name: "commerce_product", manageFieldsURL: "admin/commerce/{bundle}/fields"}
	}))
	require.NoError(t, c.Register("product", "commerce"))

	et, err := c.Resolve("product")
	require.NoError(t, err)
	assert.Equal(t, "commerce_product", et.Name())
	assert.Equal(t, "admin/commerce/shoe/fields", et.ManageFieldsURL("shoe"))

	assert.ErrorIs(t, c.RegisterConstructor("", nil), types.ErrInvalidEntityType)
}

func TestRegisterInlineDefinition(t *testing.T) {
	c := NewCatalog()
	err := c.Register("profile", map[string]any{
		"name":               "profile2",
		"typesUrl":           "admin/structure/profiles",
		"manageFieldsUrl":    "admin/structure/profiles/manage/{bundle}/fields",
		"machineNameVisible": "true",
		"requiredFields": []any{
			map[string]any{"machineName": "label", "label": "Name", "type": "Text", "widget": "Text field"},
		},
	})
	require.NoError(t, err)

	et, err := c.Resolve("profile")
	require.NoError(t, err)
	assert.Equal(t, "profile2", et.Name())
	url, ok := et.TypesURL()
	assert.True(t, ok)
	assert.Equal(t, "admin/structure/profiles", url)
	assert.Equal(t, "admin/structure/profiles/manage/main/fields", et.ManageFieldsURL("main"))
	assert.True(t, et.MachineNameVisible())
	require.Len(t, et.RequiredFields(), 1)
	assert.Equal(t, "label", et.RequiredFields()[0].MachineName)
}

func TestRegisterRejects(t *testing.T) {
	tests := []struct {
		name    string
		short   string
		locator any
		want    error
	}{
		{"empty short name", "", "asset", types.ErrInvalidEntityType},
		{"builtin collision", Node, "asset", types.ErrInvalidEntityType},
		{"unknown constructor", "thing", "Drupal\\Thing", types.ErrUnknownEntityType},
		{"wrong locator type", "thing", 42, types.ErrInvalidEntityType},
		{"inline without name", "thing", map[string]any{"manageFieldsUrl": "x"}, types.ErrInvalidEntityType},
		{"inline without url", "thing", map[string]any{"name": "thing"}, types.ErrInvalidEntityType},
		{"inline bad required field", "thing", map[string]any{
			"name":            "thing",
			"manageFieldsUrl": "x",
			"requiredFields":  []any{map[string]any{"machineName": map[string]any{"a": 1}}},
		}, types.ErrInvalidField},
		{"inline required field with unknown widget", "commerce", map[string]any{
			"name":            "commerce",
			"manageFieldsUrl": "admin/commerce/{bundle}/fields",
			"requiredFields":  []any{map[string]any{"machineName": "sku", "widget": "No Such Widget"}},
		}, types.ErrUnknownWidget},
		{"inline required field with unknown token", "commerce", map[string]any{
			"name":            "commerce",
			"manageFieldsUrl": "admin/commerce/{bundle}/fields",
			"requiredFields": []any{map[string]any{
				"machineName": "sku", "widget": "Text field", "testData": "special::nope",
			}},
		}, types.ErrUnknownToken},
		{"inline required field with bad step", "commerce", map[string]any{
			"name":            "commerce",
			"manageFieldsUrl": "admin/commerce/{bundle}/fields",
			"requiredFields": []any{map[string]any{
				"machineName": "sku", "widget": "Text field",
				"preSteps": []any{map[string]any{"method": "hover", "args": []any{"#a"}}},
			}},
		}, types.ErrUnknownStepMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCatalog().Register(tt.short, tt.locator)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestLoadAndNames(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Load(map[string]any{"zeta": "asset", "alpha": "asset"}))
	assert.Equal(t, []string{File, Flag, Node, TaxonomyTerm, User, "alpha", "zeta"}, c.Names())

	err := c.Load(map[string]any{"beta": "asset", "node": "asset"})
	assert.ErrorIs(t, err, types.ErrInvalidEntityType)
	_, err = c.Resolve("beta")
	assert.NoError(t, err, "entries before the failure stay registered")
}
