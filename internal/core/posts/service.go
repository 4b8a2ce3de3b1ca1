package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/identity"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/notify"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxContentLength = 5000
)

type postService struct {
	repo     Repository
	resolver *identity.Resolver[Post]
	notifier notify.Notifier
	baseURL  string
	logger   *slog.Logger
}

// NewService creates a new post service. baseURL is the instance base URL
// used to construct federated URIs for local posts.
func NewService(repo Repository, notifier notify.Notifier, baseURL string, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}

	// Resolution priority order: store identifier, legacy identifier,
	// federated URI, serialized identifier text. First match wins.
	resolver := identity.NewResolver("post", logger,
		identity.Strategy[Post]{
			Name:    "store-id",
			Applies: identity.IsStoreID,
			Lookup: func(ctx context.Context, ref string) (*Post, error) {
				id, err := uuid.Parse(ref)
				if err != nil {
					return nil, nil
				}
				return repo.FindByID(ctx, id)
			},
		},
		identity.Strategy[Post]{
			Name:   "legacy-id",
			Lookup: repo.FindByLegacyID,
		},
		identity.Strategy[Post]{
			Name:    "federated-uri",
			Applies: identity.IsURIShaped,
			Lookup:  repo.FindByURI,
		},
		identity.Strategy[Post]{
			Name:   "id-text",
			Lookup: repo.FindByIDText,
		},
	)

	return &postService{
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

func (s *postService) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &ValidationError{Field: "content", Message: "content is required"}
	}
	if len(req.Content) > maxContentLength {
		return nil, &ValidationError{Field: "content", Message: fmt.Sprintf("content exceeds %d characters", maxContentLength)}
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, &ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", visibility)}
	}

	var parent *Post
	if req.InReplyTo != nil && *req.InReplyTo != "" {
		var err error
		parent, err = s.Resolve(ctx, *req.InReplyTo)
		if err != nil {
			return nil, err
		}
	}

	id := uuid.New()
	post := &Post{
		ID:         id,
		URI:        fmt.Sprintf("%s/posts/%s", s.baseURL, id),
		AuthorID:   req.AuthorID,
		Content:    req.Content,
		Visibility: visibility,
		Sensitive:  req.Sensitive,
	}
	if parent != nil {
		parentID := parent.ID
		post.InReplyTo = &parentID
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post", created.ID, "author", created.AuthorID)

	if parent != nil && parent.AuthorID != created.AuthorID {
		s.fireNotification(ctx, notify.Event{
			Recipient: parent.AuthorID,
			Actor:     created.AuthorID,
			Kind:      notify.KindReply,
			TargetRef: parent.URI,
		})
	}

	return created, nil
}

func (s *postService) Resolve(ctx context.Context, ref string) (*Post, error) {
	post, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		if identity.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, ref string, principal authz.Principal, input UpdatePostInput) (*Post, error) {
	post, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(principal, post.AuthorID); err != nil {
		return nil, err
	}

	if input.Content != nil && strings.TrimSpace(*input.Content) == "" {
		return nil, &ValidationError{Field: "content", Message: "content cannot be cleared"}
	}
	if input.Visibility != nil && !input.Visibility.Valid() {
		return nil, &ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", *input.Visibility)}
	}

	updated, err := s.repo.Update(ctx, post.ID, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated", "post", post.ID, "by", principal.ActorID)
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, ref string, principal authz.Principal) error {
	post, err := s.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if err := authz.Authorize(principal, post.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return err
	}

	s.logger.Info("post deleted", "post", post.ID, "by", principal.ActorID)
	return nil
}

// Like adds actorID to the post's liker set. The repository applies the set
// mutation and the counter increment in one atomic call; the increment only
// happens when the membership is new, so repeated likes move the counter
// exactly once.
func (s *postService) Like(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error) {
	return s.engage(ctx, ref, actorID, notify.KindLike, s.repo.AddLiker)
}

func (s *postService) Unlike(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error) {
	return s.engage(ctx, ref, actorID, "", s.repo.RemoveLiker)
}

func (s *postService) Share(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error) {
	return s.engage(ctx, ref, actorID, notify.KindShare, s.repo.AddSharer)
}

func (s *postService) Unshare(ctx context.Context, ref string, actorID uuid.UUID) (*Post, error) {
	return s.engage(ctx, ref, actorID, "", s.repo.RemoveSharer)
}

type engagementOp func(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error)

func (s *postService) engage(ctx context.Context, ref string, actorID uuid.UUID, kind notify.Kind, op engagementOp) (*Post, error) {
	post, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	updated, changed, err := op(ctx, post.ID, actorID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Post vanished between resolution and mutation
		return nil, ErrNotFound
	}

	// Notify only when the set actually changed, and never for self-engagement
	if changed && kind != "" && actorID != updated.AuthorID {
		s.fireNotification(ctx, notify.Event{
			Recipient: updated.AuthorID,
			Actor:     actorID,
			Kind:      kind,
			TargetRef: updated.URI,
		})
	}

	return updated, nil
}

func (s *postService) Search(ctx context.Context, query string, limit, offset int) ([]*Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Post{}, nil
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	return s.repo.Search(ctx, query, limit, offset)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Post, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByAuthor(ctx, authorID, publicOnly, limit, offset)
}

// fireNotification hands the event to the notifier. The notifier contract is
// best-effort: a failure is logged and never affects the mutation.
func (s *postService) fireNotification(ctx context.Context, event notify.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("notification trigger failed",
			"kind", event.Kind,
			"recipient", event.Recipient,
			"error", err)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
