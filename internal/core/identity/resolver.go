package identity

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Lookup is a single read-only lookup against one identifier space.
// A miss is (nil, nil); errors are reserved for store faults.
type Lookup[T any] func(ctx context.Context, ref string) (*T, error)

// Strategy pairs a lookup with an optional applicability check. Strategies
// with a nil Applies are always tried.
type Strategy[T any] struct {
	Name    string
	Applies func(ref string) bool
	Lookup  Lookup[T]
}

// Resolver turns a caller-supplied reference of unknown shape into exactly
// one canonical entity by trying its strategies in priority order and
// returning the first hit. Resolution is read-only and deterministic.
//
// A reference that happens to be valid in more than one identifier space is
// resolved by priority order alone; no ambiguity detection is attempted.
type Resolver[T any] struct {
	kind       string
	strategies []Strategy[T]
	logger     *slog.Logger
}

// NewResolver creates a resolver for the given entity kind. Strategies are
// tried in the order given.
func NewResolver[T any](kind string, logger *slog.Logger, strategies ...Strategy[T]) *Resolver[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver[T]{
		kind:       kind,
		strategies: strategies,
		logger:     logger,
	}
}

// Resolve resolves ref to a canonical entity.
// Returns *NotFoundError when every strategy misses and *BadReferenceError
// when ref is empty. Malformed but non-empty references are not an error:
// no strategy applies to them, so they resolve to NotFoundError.
func (r *Resolver[T]) Resolve(ctx context.Context, ref string) (*T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &BadReferenceError{Reference: ref, Reason: "reference cannot be empty"}
	}

	for _, s := range r.strategies {
		if s.Applies != nil && !s.Applies(ref) {
			continue
		}

		entity, err := s.Lookup(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("%s lookup (%s) failed: %w", r.kind, s.Name, err)
		}
		if entity != nil {
			r.logger.Debug("reference resolved",
				"kind", r.kind,
				"strategy", s.Name,
				"reference", ref)
			return entity, nil
		}
	}

	return nil, &NotFoundError{Kind: r.kind, Reference: ref}
}

var schemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// IsStoreID reports whether ref is in the store's native identifier format.
func IsStoreID(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil
}

// IsURIShaped reports whether ref starts with a URI scheme.
func IsURIShaped(ref string) bool {
	return schemeRegex.MatchString(ref)
}
