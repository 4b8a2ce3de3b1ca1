package posts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ForYouPage-Org/saturn-api-sub000/internal/core/authz"
	"github.com/ForYouPage-Org/saturn-api-sub000/internal/notify"
)

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, post *Post) (*Post, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) FindByLegacyID(ctx context.Context, legacyID string) (*Post, error) {
	args := m.Called(ctx, legacyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) FindByURI(ctx context.Context, uri string) (*Post, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) FindByIDText(ctx context.Context, ref string) (*Post, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*Post, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepo) engagement(ctx context.Context, postID, actorID uuid.UUID, method string) (*Post, bool, error) {
	args := m.MethodCalled(method, ctx, postID, actorID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*Post), args.Bool(1), args.Error(2)
}

func (m *mockPostRepo) AddLiker(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error) {
	return m.engagement(ctx, postID, actorID, "AddLiker")
}

func (m *mockPostRepo) RemoveLiker(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error) {
	return m.engagement(ctx, postID, actorID, "RemoveLiker")
}

func (m *mockPostRepo) AddSharer(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error) {
	return m.engagement(ctx, postID, actorID, "AddSharer")
}

func (m *mockPostRepo) RemoveSharer(ctx context.Context, postID, actorID uuid.UUID) (*Post, bool, error) {
	return m.engagement(ctx, postID, actorID, "RemoveSharer")
}

func (m *mockPostRepo) HasLiked(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepo) HasShared(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepo) Search(ctx context.Context, query string, limit, offset int) ([]*Post, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *mockPostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, publicOnly bool, limit, offset int) ([]*Post, error) {
	args := m.Called(ctx, authorID, publicOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

// recordingNotifier captures events synchronously for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) captured() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event(nil), n.events...)
}

func TestCreate_RequiresContent(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	_, err := svc.Create(context.Background(), CreatePostRequest{AuthorID: uuid.New(), Content: "  "})
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_RejectsOversizedContent(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	long := make([]byte, maxContentLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(context.Background(), CreatePostRequest{AuthorID: uuid.New(), Content: string(long)})
	assert.True(t, IsValidationError(err))
}

func TestCreate_DefaultsVisibilityToPublic(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.Visibility == VisibilityPublic && p.URI != ""
	})).Return(&Post{ID: uuid.New()}, nil)

	_, err := svc.Create(context.Background(), CreatePostRequest{AuthorID: uuid.New(), Content: "hello"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_UnknownVisibility(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	_, err := svc.Create(context.Background(), CreatePostRequest{
		AuthorID:   uuid.New(),
		Content:    "hello",
		Visibility: Visibility("friends"),
	})
	assert.True(t, IsValidationError(err))
}

func TestCreate_ReplyResolvesParentAndNotifies(t *testing.T) {
	repo := new(mockPostRepo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "https://saturn.example.org", nil)

	parentAuthor := uuid.New()
	parent := &Post{ID: uuid.New(), AuthorID: parentAuthor, URI: "https://saturn.example.org/posts/parent"}
	repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)

	replyAuthor := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *Post) bool {
		return p.InReplyTo != nil && *p.InReplyTo == parent.ID
	})).Return(&Post{ID: uuid.New(), AuthorID: replyAuthor}, nil)

	parentRef := parent.ID.String()
	_, err := svc.Create(context.Background(), CreatePostRequest{
		AuthorID:  replyAuthor,
		Content:   "nice post",
		InReplyTo: &parentRef,
	})
	require.NoError(t, err)

	events := notifier.captured()
	require.Len(t, events, 1)
	assert.Equal(t, notify.KindReply, events[0].Kind)
	assert.Equal(t, parentAuthor, events[0].Recipient)
	assert.Equal(t, replyAuthor, events[0].Actor)
}

func TestCreate_SelfReplyDoesNotNotify(t *testing.T) {
	repo := new(mockPostRepo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "https://saturn.example.org", nil)

	author := uuid.New()
	parent := &Post{ID: uuid.New(), AuthorID: author}
	repo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(&Post{ID: uuid.New(), AuthorID: author}, nil)

	parentRef := parent.ID.String()
	_, err := svc.Create(context.Background(), CreatePostRequest{
		AuthorID:  author,
		Content:   "threading my own post",
		InReplyTo: &parentRef,
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.captured())
}

func TestCreate_MissingParent(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	repo.On("FindByLegacyID", mock.Anything, "gone").Return(nil, nil)
	repo.On("FindByIDText", mock.Anything, "gone").Return(nil, nil)

	parentRef := "gone"
	_, err := svc.Create(context.Background(), CreatePostRequest{
		AuthorID:  uuid.New(),
		Content:   "orphan reply",
		InReplyTo: &parentRef,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "Create")
}

func TestLike_FirstTimeNotifiesAuthor(t *testing.T) {
	repo := new(mockPostRepo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "https://saturn.example.org", nil)

	author := uuid.New()
	post := &Post{ID: uuid.New(), AuthorID: author, URI: "https://saturn.example.org/posts/p1"}
	liker := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	liked := &Post{ID: post.ID, AuthorID: author, URI: post.URI, LikeCount: 1}
	repo.On("AddLiker", mock.Anything, post.ID, liker).Return(liked, true, nil)

	got, err := svc.Like(context.Background(), post.ID.String(), liker)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)

	events := notifier.captured()
	require.Len(t, events, 1)
	assert.Equal(t, notify.KindLike, events[0].Kind)
	assert.Equal(t, author, events[0].Recipient)
}

func TestLike_RepeatIsIdempotent(t *testing.T) {
	repo := new(mockPostRepo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New(), LikeCount: 1}
	liker := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	// Set membership unchanged; count stays where the first like left it
	repo.On("AddLiker", mock.Anything, post.ID, liker).Return(post, false, nil)

	got, err := svc.Like(context.Background(), post.ID.String(), liker)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
	assert.Empty(t, notifier.captured(), "no notification when the set did not change")
}

func TestLike_SelfLikeDoesNotNotify(t *testing.T) {
	repo := new(mockPostRepo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, "https://saturn.example.org", nil)

	author := uuid.New()
	post := &Post{ID: uuid.New(), AuthorID: author}

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	liked := &Post{ID: post.ID, AuthorID: author, LikeCount: 1}
	repo.On("AddLiker", mock.Anything, post.ID, author).Return(liked, true, nil)

	_, err := svc.Like(context.Background(), post.ID.String(), author)
	require.NoError(t, err)
	assert.Empty(t, notifier.captured())
}

func TestUnlike_WhenAbsentIsNoOp(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New(), LikeCount: 0}
	actor := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	repo.On("RemoveLiker", mock.Anything, post.ID, actor).Return(post, false, nil)

	got, err := svc.Unlike(context.Background(), post.ID.String(), actor)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount, "count never goes negative")
}

func TestShare_PostVanishedBetweenResolveAndMutate(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	actor := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	repo.On("AddSharer", mock.Anything, post.ID, actor).Return(nil, false, nil)

	_, err := svc.Share(context.Background(), post.ID.String(), actor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_NonAuthorForbidden(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	author := uuid.New()
	post := &Post{ID: uuid.New(), AuthorID: author}
	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)

	content := "edited"
	bob := authz.Principal{ActorID: uuid.New(), Handle: "bob"}
	_, err := svc.Update(context.Background(), post.ID.String(), bob, UpdatePostInput{Content: &content})

	assert.True(t, authz.IsForbidden(err))
	repo.AssertNotCalled(t, "Update")
}

func TestUpdate_AdminAllowed(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)

	content := "redacted"
	updated := &Post{ID: post.ID, AuthorID: post.AuthorID, Content: content}
	repo.On("Update", mock.Anything, post.ID, UpdatePostInput{Content: &content}).Return(updated, nil)

	admin := authz.Principal{ActorID: uuid.New(), Handle: "root", Admin: true}
	got, err := svc.Update(context.Background(), post.ID.String(), admin, UpdatePostInput{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "redacted", got.Content)
}

func TestUpdate_CannotClearContent(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	author := uuid.New()
	post := &Post{ID: uuid.New(), AuthorID: author}
	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)

	empty := "   "
	_, err := svc.Update(context.Background(), post.ID.String(), authz.Principal{ActorID: author}, UpdatePostInput{Content: &empty})
	assert.True(t, IsValidationError(err))
}

func TestDelete_AuthorAllowed(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	author := uuid.New()
	post := &Post{ID: uuid.New(), AuthorID: author}
	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	repo.On("Delete", mock.Anything, post.ID).Return(nil)

	err := svc.Delete(context.Background(), post.ID.String(), authz.Principal{ActorID: author})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDelete_NonAuthorForbidden(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)

	err := svc.Delete(context.Background(), post.ID.String(), authz.Principal{ActorID: uuid.New()})
	assert.True(t, authz.IsForbidden(err))
	repo.AssertNotCalled(t, "Delete")
}

func TestResolve_URIReference(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	uri := "https://remote.example/posts/42"
	post := &Post{ID: uuid.New(), URI: uri}
	repo.On("FindByLegacyID", mock.Anything, uri).Return(nil, nil)
	repo.On("FindByURI", mock.Anything, uri).Return(post, nil)

	got, err := svc.Resolve(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, post, got)
}

func TestSearch_ClampsLimitAndOffset(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, nil, "https://saturn.example.org", nil)

	repo.On("Search", mock.Anything, "hello", defaultPageLimit, 0).Return([]*Post{}, nil)

	_, err := svc.Search(context.Background(), " hello ", 0, -1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEngagement_NotifierFailureDoesNotFailMutation(t *testing.T) {
	repo := new(mockPostRepo)
	svc := NewService(repo, failingNotifier{}, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	liker := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	liked := &Post{ID: post.ID, AuthorID: post.AuthorID, LikeCount: 1}
	repo.On("AddLiker", mock.Anything, post.ID, liker).Return(liked, true, nil)

	got, err := svc.Like(context.Background(), post.ID.String(), liker)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikeCount)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notify.Event) error {
	return context.DeadlineExceeded
}

// Sanity check that a slow notifier path cannot stall the mutation when the
// async wrapper is in front of it.
func TestEngagement_AsyncNotifierReturnsImmediately(t *testing.T) {
	repo := new(mockPostRepo)

	slow := notify.NewAsyncNotifier(blockingNotifier{}, nil)
	svc := NewService(repo, slow, "https://saturn.example.org", nil)

	post := &Post{ID: uuid.New(), AuthorID: uuid.New()}
	liker := uuid.New()

	repo.On("FindByID", mock.Anything, post.ID).Return(post, nil)
	liked := &Post{ID: post.ID, AuthorID: post.AuthorID, LikeCount: 1}
	repo.On("AddLiker", mock.Anything, post.ID, liker).Return(liked, true, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Like(context.Background(), post.ID.String(), liker)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Like blocked on the notifier")
	}
}

type blockingNotifier struct{}

func (blockingNotifier) Notify(ctx context.Context, _ notify.Event) error {
	<-ctx.Done()
	return ctx.Err()
}
