package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ctregistry/internal/actortest"
	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

func TestStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    types.Step
		wantErr bool
	}{
		{"click with selector", types.ClickStep("#a"), false},
		{"click without args", types.Step{Method: types.MethodClick}, true},
		{"fillField with value", types.Step{Method: types.MethodFillField, Args: []any{"#a", "x"}}, false},
		{"fillField missing value", types.Step{Method: types.MethodFillField, Args: []any{"#a"}}, true},
		{"see with scope", types.Step{Method: types.MethodSee, Args: []any{"Saved", ".messages"}}, false},
		{"see too many args", types.Step{Method: types.MethodSee, Args: []any{"a", "b", "c"}}, true},
		{"unknown method", types.Step{Method: "wait", Args: []any{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, types.ErrUnknownStepMethod)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestStepRun(t *testing.T) {
	steps := []types.Step{
		types.ClickStep("#open"),
		{Method: types.MethodFillField, Args: []any{"#name", 42}},
		{Method: types.MethodSelectOption, Args: []any{"#color", "red"}},
		{Method: types.MethodCheckOption, Args: []any{"#agree"}},
		{Method: types.MethodUncheckOption, Args: []any{"#promote"}},
		{Method: types.MethodAttachFile, Args: []any{"#upload", "a.png"}},
		{Method: types.MethodSee, Args: []any{"Saved"}},
		{Method: types.MethodDontSee, Args: []any{"Error", ".messages"}},
		{Method: types.MethodGrabAttributeFrom, Args: []any{"#link", "href"}},
	}

	rec := actortest.New()
	for _, s := range steps {
		require.NoError(t, s.Run(rec))
	}

	assert.Equal(t, []string{
		types.MethodClick,
		types.MethodFillField,
		types.MethodSelectOption,
		types.MethodCheckOption,
		types.MethodUncheckOption,
		types.MethodAttachFile,
		types.MethodSee,
		types.MethodDontSee,
		types.MethodGrabAttributeFrom,
	}, rec.Methods())
	assert.Equal(t, []any{"#name", 42}, rec.Calls[1].Args)
	assert.Equal(t, []any{"Saved"}, rec.Calls[6].Args)
	assert.Equal(t, []any{"Error", ".messages"}, rec.Calls[7].Args)
}

func TestStepRunPassesActorErrorsThrough(t *testing.T) {
	boom := errors.New("element not found")
	rec := actortest.New()
	rec.Fail[types.MethodClick] = boom

	err := types.ClickStep("#missing").Run(rec)
	assert.Same(t, boom, err)
}

func TestStepRunRejectsInvalidStep(t *testing.T) {
	rec := actortest.New()
	err := types.Step{Method: "hover", Args: []any{"#a"}}.Run(rec)
	assert.ErrorIs(t, err, types.ErrUnknownStepMethod)
	assert.Empty(t, rec.Calls)
}

func TestStepString(t *testing.T) {
	s := types.Step{Method: types.MethodFillField, Args: []any{"#edit-title", 7}}
	assert.Equal(t, `fillField("#edit-title", "7")`, s.String())
	assert.Equal(t, `click("#a")`, types.ClickStep("#a").String())
}

func TestErrorHierarchy(t *testing.T) {
	for _, err := range []error{
		types.ErrDocumentNotFound,
		types.ErrGlobalNotFound,
		types.ErrUnknownWidget,
		types.ErrInvalidBundle,
	} {
		assert.ErrorIs(t, err, types.ErrConfiguration)
		assert.NotErrorIs(t, err, types.ErrNotFound)
	}
	assert.ErrorIs(t, types.ErrContentTypeNotFound, types.ErrNotFound)
	assert.ErrorIs(t, types.ErrFieldNotFound, types.ErrNotFound)
	assert.NotErrorIs(t, types.ErrNoWidget, types.ErrConfiguration)
}
