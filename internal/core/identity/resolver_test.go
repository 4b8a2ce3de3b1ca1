package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	Name string
}

func staticLookup(hit string, result *entity) Lookup[entity] {
	return func(_ context.Context, ref string) (*entity, error) {
		if ref == hit {
			return result, nil
		}
		return nil, nil
	}
}

func TestResolve_PriorityOrder(t *testing.T) {
	first := &entity{Name: "first"}
	second := &entity{Name: "second"}

	// Both strategies match the same reference; the first one must win
	resolver := NewResolver("thing", nil,
		Strategy[entity]{Name: "primary", Lookup: staticLookup("ref-1", first)},
		Strategy[entity]{Name: "secondary", Lookup: staticLookup("ref-1", second)},
	)

	got, err := resolver.Resolve(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestResolve_FallsThroughToLaterStrategy(t *testing.T) {
	want := &entity{Name: "late"}

	resolver := NewResolver("thing", nil,
		Strategy[entity]{Name: "primary", Lookup: staticLookup("other", &entity{})},
		Strategy[entity]{Name: "secondary", Lookup: staticLookup("ref-2", want)},
	)

	got, err := resolver.Resolve(context.Background(), "ref-2")
	require.NoError(t, err)
	assert.Equal(t, "late", got.Name)
}

func TestResolve_SkipsNonApplyingStrategies(t *testing.T) {
	called := false

	resolver := NewResolver("thing", nil,
		Strategy[entity]{
			Name:    "uuid-only",
			Applies: IsStoreID,
			Lookup: func(_ context.Context, _ string) (*entity, error) {
				called = true
				return &entity{}, nil
			},
		},
	)

	_, err := resolver.Resolve(context.Background(), "not-a-uuid")
	assert.False(t, called, "strategy should be skipped when Applies is false")
	assert.True(t, IsNotFound(err))
}

func TestResolve_AllMiss_ReturnsNotFound(t *testing.T) {
	resolver := NewResolver("actor", nil,
		Strategy[entity]{Name: "a", Lookup: staticLookup("x", &entity{})},
	)

	_, err := resolver.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "actor not found")
}

func TestResolve_MalformedInputIsNotFoundNotError(t *testing.T) {
	resolver := NewResolver("thing", nil,
		Strategy[entity]{Name: "uuid", Applies: IsStoreID, Lookup: staticLookup("x", &entity{})},
		Strategy[entity]{Name: "uri", Applies: IsURIShaped, Lookup: staticLookup("x", &entity{})},
	)

	// Garbage that no strategy applies to resolves to NotFound, never a panic
	// or a malformed-input failure
	_, err := resolver.Resolve(context.Background(), "!!%% not an id :: ")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsBadReference(err))
}

func TestResolve_EmptyReferenceIsBadReference(t *testing.T) {
	resolver := NewResolver[entity]("thing", nil)

	_, err := resolver.Resolve(context.Background(), "   ")
	assert.True(t, IsBadReference(err))
	assert.False(t, IsNotFound(err))
}

func TestResolve_StoreFaultPropagates(t *testing.T) {
	storeErr := errors.New("connection refused")

	resolver := NewResolver("thing", nil,
		Strategy[entity]{
			Name: "broken",
			Lookup: func(_ context.Context, _ string) (*entity, error) {
				return nil, storeErr
			},
		},
	)

	_, err := resolver.Resolve(context.Background(), "ref")
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, IsNotFound(err))
}

func TestResolve_Deterministic(t *testing.T) {
	want := &entity{Name: "stable"}
	resolver := NewResolver("thing", nil,
		Strategy[entity]{Name: "a", Lookup: staticLookup("ref", want)},
	)

	for i := 0; i < 5; i++ {
		got, err := resolver.Resolve(context.Background(), "ref")
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
}

func TestIsStoreID(t *testing.T) {
	assert.True(t, IsStoreID(uuid.New().String()))
	assert.False(t, IsStoreID("alice"))
	assert.False(t, IsStoreID("https://example.org/users/alice"))
}

func TestIsURIShaped(t *testing.T) {
	assert.True(t, IsURIShaped("https://example.org/users/alice"))
	assert.True(t, IsURIShaped("nostr://abc"))
	assert.False(t, IsURIShaped("alice"))
	assert.False(t, IsURIShaped("://missing-scheme"))
}
