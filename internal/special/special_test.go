package special

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

var alnum = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func seeded() *Resolver {
	return NewResolver(WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestResolve_RandomText(t *testing.T) {
	r := seeded()

	t.Run("default length", func(t *testing.T) {
		v, err := r.Resolve("special::randomText")
		require.NoError(t, err)
		s, ok := v.(string)
		require.True(t, ok)
		assert.Len(t, s, DefaultTextLength)
		assert.Regexp(t, alnum, s)
	})

	t.Run("explicit length", func(t *testing.T) {
		v, err := r.Resolve("special::randomText:20")
		require.NoError(t, err)
		assert.Len(t, v, 20)
	})

	t.Run("bad length", func(t *testing.T) {
		_, err := r.Resolve("special::randomText:abc")
		assert.ErrorIs(t, err, types.ErrUnknownToken)
	})
}

func TestResolve_Deterministic(t *testing.T) {
	a, err := seeded().Resolve("special::randomText")
	require.NoError(t, err)
	b, err := seeded().Resolve("special::randomText")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolve_UUID(t *testing.T) {
	v, err := seeded().Resolve("special::uuid")
	require.NoError(t, err)
	_, err = uuid.Parse(v.(string))
	assert.NoError(t, err)
}

func TestResolve_Nested(t *testing.T) {
	in := map[string]any{
		"title": "special::randomText:4",
		"url":   "http://example.com",
		"tags":  []any{"plain", "special::randomText:3", 7},
		"inner": map[any]any{"deep": "special::randomText:2"},
	}

	v, err := seeded().Resolve(in)
	require.NoError(t, err)

	out := v.(map[string]any)
	assert.Len(t, out["title"], 4)
	assert.Equal(t, "http://example.com", out["url"])

	tags := out["tags"].([]any)
	assert.Equal(t, "plain", tags[0])
	assert.Len(t, tags[1], 3)
	assert.Equal(t, 7, tags[2])

	inner := out["inner"].(map[string]any)
	assert.Len(t, inner["deep"], 2)

	// Input is left untouched.
	assert.Equal(t, "special::randomText:4", in["title"])
}

func TestResolve_UnknownToken(t *testing.T) {
	_, err := seeded().Resolve([]any{"special::nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownToken)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestRegister(t *testing.T) {
	r := seeded()
	require.NoError(t, r.Register("fixed", func(_ *Resolver, args []string) (any, error) {
		return "fixed-" + args[0], nil
	}))

	v, err := r.Resolve("special::fixed:x")
	require.NoError(t, err)
	assert.Equal(t, "fixed-x", v)

	assert.Error(t, r.Register("", nil))
	assert.Error(t, r.Register("a:b", func(*Resolver, []string) (any, error) { return nil, nil }))
	assert.Error(t, r.Register("nilgen", nil))
}

func TestIsToken(t *testing.T) {
	assert.True(t, IsToken("special::randomText"))
	assert.False(t, IsToken("randomText"))
	assert.False(t, IsToken(42))
}
