package actors

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/identity"
)

// Handles are lowercase alphanumeric plus underscores, as produced by
// registration normalization.
var handleRegex = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type actorService struct {
	repo     Repository
	resolver *identity.Resolver[Actor]
	baseURL  string
	logger   *slog.Logger
}

// NewService creates a new actor service. baseURL is the instance base URL
// (e.g. "https://saturn.example.org") used to construct federated URIs for
// local actors; it is passed in explicitly so the service never reads
// deployment state itself.
func NewService(repo Repository, baseURL string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}

	// Resolution priority order: store identifier, legacy identifier,
	// federated URI, serialized identifier text, then handle as the final
	// actor-specific space. First match wins.
	resolver := identity.NewResolver("actor", logger,
		identity.Strategy[Actor]{
			Name:    "store-id",
			Applies: identity.IsStoreID,
			Lookup: func(ctx context.Context, ref string) (*Actor, error) {
				id, err := uuid.Parse(ref)
				if err != nil {
					return nil, nil
				}
				return repo.FindByID(ctx, id)
			},
		},
		identity.Strategy[Actor]{
			Name:   "legacy-id",
			Lookup: repo.FindByLegacyID,
		},
		identity.Strategy[Actor]{
			Name:    "federated-uri",
			Applies: identity.IsURIShaped,
			Lookup:  repo.FindByURI,
		},
		identity.Strategy[Actor]{
			Name:   "id-text",
			Lookup: repo.FindByIDText,
		},
		identity.Strategy[Actor]{
			Name: "handle",
			Lookup: func(ctx context.Context, ref string) (*Actor, error) {
				return repo.FindByHandle(ctx, strings.ToLower(ref))
			},
		},
	)

	return &actorService{
		repo:     repo,
		resolver: resolver,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *actorService) Register(ctx context.Context, req RegisterRequest) (*Actor, error) {
	handle := strings.TrimSpace(strings.ToLower(req.Handle))
	if !handleRegex.MatchString(handle) {
		return nil, ErrInvalidHandle
	}
	if strings.TrimSpace(req.CredentialHash) == "" {
		return nil, ErrCredentialRequired
	}

	uri := fmt.Sprintf("%s/users/%s", s.baseURL, handle)
	hash := req.CredentialHash

	actor := &Actor{
		URI:            uri,
		Handle:         handle,
		DisplayName:    req.DisplayName,
		Summary:        req.Summary,
		FollowersURI:   uri + "/followers",
		CredentialHash: &hash,
	}

	created, err := s.repo.Create(ctx, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("actor registered", "handle", created.Handle, "id", created.ID)
	return created, nil
}

func (s *actorService) CreateRemote(ctx context.Context, req CreateRemoteRequest) (*Actor, error) {
	if !identity.IsURIShaped(req.URI) {
		return nil, ErrInvalidURI
	}

	followersURI := req.FollowersURI
	if followersURI == "" {
		followersURI = strings.TrimRight(req.URI, "/") + "/followers"
	}

	actor := &Actor{
		URI:          req.URI,
		Handle:       strings.TrimSpace(strings.ToLower(req.Handle)),
		DisplayName:  req.DisplayName,
		Summary:      req.Summary,
		FollowersURI: followersURI,
	}

	created, err := s.repo.Create(ctx, actor)
	if err != nil {
		return nil, err
	}

	s.logger.Info("remote actor imported", "uri", created.URI, "id", created.ID)
	return created, nil
}

func (s *actorService) Resolve(ctx context.Context, ref string) (*Actor, error) {
	actor, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		if identity.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return actor, nil
}

func (s *actorService) UpdateProfile(ctx context.Context, ref string, principal authz.Principal, input UpdateProfileInput) (*Actor, error) {
	actor, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(principal, actor.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, actor.ID, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "actor", actor.ID, "by", principal.ActorID)
	return updated, nil
}

func (s *actorService) Delete(ctx context.Context, ref string, principal authz.Principal) error {
	actor, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if err := authz.Authorize(principal, actor.ID); err != nil {
		return err
	}

	if err := s.repo.Detach(ctx, actor.ID); err != nil {
		return err
	}

	s.logger.Info("actor detached", "actor", actor.ID, "by", principal.ActorID)
	return nil
}

func (s *actorService) Search(ctx context.Context, query string, limit, offset int) ([]*Actor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Actor{}, nil
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	return s.repo.Search(ctx, query, limit, offset)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}
