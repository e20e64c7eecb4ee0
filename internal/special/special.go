// Package special expands sentinel test-data tokens into concrete values.
//
// A token is a string of the form "special::<name>[:<arg>...]". The resolver
// keeps a table of named generators; randomText and uuid are registered by
// default and callers may add more with Register.
package special

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/ctregistry/pkg/types"
)

// Prefix marks a string as a special value token.
const Prefix = "special::"

// Built-in token names.
const (
	TokenRandomText = "randomText"
	TokenUUID       = "uuid"
)

// Random text defaults.
const (
	DefaultTextLength = 8
	Alphabet          = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator produces a value for a token. args holds the colon-separated
// arguments that followed the token name.
type Generator func(r *Resolver, args []string) (any, error)

// Resolver maps token names to generators.
type Resolver struct {
	rng        *rand.Rand
	generators map[string]Generator
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRand sets the random source. Tests use a seeded source for repeatable
// output.
func WithRand(rng *rand.Rand) Option {
	return func(r *Resolver) { r.rng = rng }
}

// NewResolver returns a resolver with the built-in tokens registered.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		generators: make(map[string]Generator),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.generators[TokenRandomText] = randomText
	r.generators[TokenUUID] = func(*Resolver, []string) (any, error) {
		return uuid.NewString(), nil
	}
	return r
}

// Register adds or replaces the generator for name.
func (r *Resolver) Register(name string, gen Generator) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("invalid token name %q", name)
	}
	if gen == nil {
		return errors.New("generator must not be nil")
	}
	r.generators[name] = gen
	return nil
}

// Rand exposes the resolver's random source to generators.
func (r *Resolver) Rand() *rand.Rand {
	return r.rng
}

// IsToken reports whether v is a string carrying the token prefix.
func IsToken(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, Prefix)
}

// Resolve walks v and replaces every token with its generated value.
// Lists and maps are copied; non-token scalars are returned as is.
// An unregistered token name yields an error wrapping types.ErrUnknownToken.
func (r *Resolver) Resolve(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !strings.HasPrefix(val, Prefix) {
			return val, nil
		}
		return r.generate(strings.TrimPrefix(val, Prefix))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			res, err := r.Resolve(item)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			res, err := r.Resolve(item)
			if err != nil {
				return nil, err
			}
			out[k] = res
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			res, err := r.Resolve(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = res
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *Resolver) generate(token string) (any, error) {
	name, rest, _ := strings.Cut(token, ":")
	gen, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", types.ErrUnknownToken, name)
	}
	var args []string
	if rest != "" {
		args = strings.Split(rest, ":")
	}
	return gen(r, args)
}

// randomText returns DefaultTextLength characters from Alphabet, or the
// length given as the first argument.
func randomText(r *Resolver, args []string) (any, error) {
	n := DefaultTextLength
	if len(args) > 0 && args[0] != "" {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: randomText length %q", types.ErrUnknownToken, args[0])
		}
		n = v
	}
	return RandomString(r.rng, n), nil
}

// RandomString draws n characters from Alphabet.
func RandomString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = Alphabet[rng.IntN(len(Alphabet))]
	}
	return string(b)
}
