package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store/memory"
)

func strPtr(s string) *string { return &s }

func TestCreatePost_DefaultsAndPublishes(t *testing.T) {
	st := memory.New()
	events := &recordedEvents{}
	svc := NewPostService(st, events)
	user := seedUser(t, st, "a@x.com")

	post, err := svc.CreatePost(context.Background(), user.ID, models.CreatePostRequest{
		Content: "  Shipping a new CLI today  ",
		Code:    strPtr("fmt.Println(\"hi\")"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Shipping a new CLI today", post.Content)
	assert.Equal(t, models.PostTypePublic, post.Type)
	assert.Equal(t, models.AttachmentCode, post.Attachment.Kind)
	assert.Zero(t, post.LikeCount)
	require.NotNil(t, post.Author)
	assert.Equal(t, user.ID, post.Author.ID)

	require.Len(t, events.created, 1)
	assert.Equal(t, post.ID, events.created[0].ID)
}

func TestCreatePost_Validation(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	user := seedUser(t, st, "a@x.com")
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, user.ID, models.CreatePostRequest{Content: "   "})
	requireKind(t, err, KindValidation)

	_, err = svc.CreatePost(ctx, user.ID, models.CreatePostRequest{Content: "x", Type: "friends"})
	requireKind(t, err, KindValidation)

	_, err = svc.CreatePost(ctx, user.ID, models.CreatePostRequest{Content: "x", Link: strPtr("not a url")})
	requireKind(t, err, KindValidation)

	_, err = svc.CreatePost(ctx, user.ID, models.CreatePostRequest{
		Content: "x",
		Code:    strPtr("code"),
		Link:    strPtr("https://example.com"),
	})
	e := requireKind(t, err, KindValidation)
	assert.Equal(t, "attachment", e.Fields[0].Field)

	_, err = svc.CreatePost(ctx, user.ID, models.CreatePostRequest{
		Content: "x",
		Images:  []string{"/1", "/2", "/3", "/4", "/5"},
	})
	requireKind(t, err, KindValidation)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	svc := NewPostService(memory.New(), nil)

	_, err := svc.CreatePost(context.Background(), uuid.NewString(), models.CreatePostRequest{Content: "hello"})
	e := requireKind(t, err, KindNotFound)
	assert.Equal(t, "User not found", e.Message)
}

func TestListPosts_PagesAreContiguous(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	user := seedUser(t, st, "a@x.com")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		// Pairs share a timestamp so the id tie breaker is exercised.
		seedPost(t, st, user.ID, base.Add(time.Duration(i/2)*time.Minute))
	}
	ctx := context.Background()

	p1, err := svc.ListPosts(ctx, ListPostsQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	p2, err := svc.ListPosts(ctx, ListPostsQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	all, err := svc.ListPosts(ctx, ListPostsQuery{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, p1.Posts, 10)
	require.Len(t, p2.Posts, 10)
	assert.Equal(t, all.Posts, append(append([]models.Post{}, p1.Posts...), p2.Posts...))

	seen := map[string]bool{}
	for _, p := range append(p1.Posts, p2.Posts...) {
		assert.False(t, seen[p.ID], "post %s repeated across pages", p.ID)
		seen[p.ID] = true
	}

	assert.EqualValues(t, 25, p1.Total)
	assert.Equal(t, 3, p1.Pages)
	assert.Equal(t, 2, p2.Page)

	p3, err := svc.ListPosts(ctx, ListPostsQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, p3.Posts, 5)
}

func TestListPosts_Defaults(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	user := seedUser(t, st, "a@x.com")
	for i := 0; i < 12; i++ {
		seedPost(t, st, user.ID, time.Now().UTC())
	}

	page, err := svc.ListPosts(context.Background(), ListPostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Len(t, page.Posts, DefaultPageLimit)
	require.NotNil(t, page.Posts[0].Author)
}

func TestListPosts_InvalidPaging(t *testing.T) {
	svc := NewPostService(memory.New(), nil)
	ctx := context.Background()

	_, err := svc.ListPosts(ctx, ListPostsQuery{Page: -1})
	requireKind(t, err, KindValidation)

	_, err = svc.ListPosts(ctx, ListPostsQuery{Limit: MaxPageLimit + 1})
	requireKind(t, err, KindValidation)
}

func TestListPosts_HugePageIsRejected(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	user := seedUser(t, st, "a@x.com")
	seedPost(t, st, user.ID, time.Now().UTC())

	_, err := svc.ListPosts(context.Background(), ListPostsQuery{Page: 100000000000000000, Limit: MaxPageLimit})
	svcErr := requireKind(t, err, KindValidation)
	require.Len(t, svcErr.Fields, 1)
	assert.Equal(t, "page", svcErr.Fields[0].Field)
}

func TestListPosts_AuthorFilter(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	alice := seedUser(t, st, "alice@x.com")
	bob := seedUser(t, st, "bob@x.com")
	now := time.Now().UTC()
	seedPost(t, st, alice.ID, now)
	seedPost(t, st, alice.ID, now)
	seedPost(t, st, bob.ID, now)
	ctx := context.Background()

	byEmail, err := svc.ListPosts(ctx, ListPostsQuery{Author: "Alice@X.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byEmail.Total)
	for _, p := range byEmail.Posts {
		assert.Equal(t, alice.ID, p.AuthorID)
	}

	byID, err := svc.ListPosts(ctx, ListPostsQuery{Author: bob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byID.Total)

	for _, author := range []string{"nobody@x.com", "not-an-id"} {
		empty, err := svc.ListPosts(ctx, ListPostsQuery{Author: author})
		require.NoError(t, err)
		assert.Zero(t, empty.Total)
		assert.Empty(t, empty.Posts)
	}
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	st := memory.New()
	svc := NewPostService(st, nil)
	owner := seedUser(t, st, "owner@x.com")
	other := seedUser(t, st, "other@x.com")
	post := seedPost(t, st, owner.ID, time.Now().UTC())
	ctx := context.Background()

	err := svc.DeletePost(ctx, post.ID, other.ID)
	requireKind(t, err, KindForbidden)

	require.NoError(t, svc.DeletePost(ctx, post.ID, owner.ID))

	_, err = svc.GetPost(ctx, post.ID)
	requireKind(t, err, KindNotFound)

	err = svc.DeletePost(ctx, post.ID, owner.ID)
	requireKind(t, err, KindNotFound)
}
