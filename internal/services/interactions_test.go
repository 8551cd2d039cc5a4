package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store/memory"
)

func newInteractionFixture(t *testing.T) (*InteractionService, *memory.Store, *recordedEvents, *models.User, *models.Post) {
	t.Helper()
	st := memory.New()
	events := &recordedEvents{}
	svc := NewInteractionService(st, events)
	svc.now = newFakeClock().Now

	user := seedUser(t, st, "a@x.com")
	post := seedPost(t, st, user.ID, time.Now().UTC())
	return svc, st, events, user, post
}

func TestToggleLike_LikeThenStatus(t *testing.T) {
	svc, _, events, user, post := newInteractionFixture(t)
	ctx := context.Background()

	state, err := svc.ToggleLike(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, state.Liked)
	assert.Equal(t, 1, state.LikeCount)

	status, err := svc.LikeStatus(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{PostID: post.ID, Liked: true, LikeCount: 1}, status)

	require.Len(t, events.liked, 1)
	assert.Equal(t, state, events.liked[0])
}

func TestToggleLike_TwiceRestoresOriginalState(t *testing.T) {
	svc, st, _, user, post := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, post.ID, user.ID)
	require.NoError(t, err)
	state, err := svc.ToggleLike(ctx, post.ID, user.ID)
	require.NoError(t, err)

	assert.False(t, state.Liked)
	assert.Equal(t, 0, state.LikeCount)

	n, err := st.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleLike_UnknownPost(t *testing.T) {
	svc, _, events, user, _ := newInteractionFixture(t)

	_, err := svc.ToggleLike(context.Background(), uuid.NewString(), user.ID)
	e := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Post not found", e.Message)
	assert.Empty(t, events.liked)

	_, err = svc.LikeStatus(context.Background(), uuid.NewString(), user.ID)
	requireKind(t, err, KindNotFound)
}

func TestToggleLike_ConcurrentTogglesKeepCounterExact(t *testing.T) {
	svc, st, _, _, post := newInteractionFixture(t)
	ctx := context.Background()

	users := make([]*models.User, 6)
	for i := range users {
		users[i] = seedUser(t, st, uuid.NewString()+"@x.com")
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		for _, u := range users {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := svc.ToggleLike(ctx, post.ID, userID)
				assert.NoError(t, err)
			}(u.ID)
		}
	}
	wg.Wait()

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	n, err := st.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.LikeCount)
	// Three toggles per user leaves every user liking the post.
	assert.EqualValues(t, len(users), n)
}

func TestToggleLike_UnknownUser(t *testing.T) {
	svc, st, events, _, post := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.ToggleLike(ctx, post.ID, uuid.NewString())
	e := requireKind(t, err, KindNotFound)
	assert.Equal(t, "User not found", e.Message)
	assert.Empty(t, events.liked)

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikeCount)
}

func TestAddComment_RejectsBlankThenCounts(t *testing.T) {
	svc, st, _, user, post := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, post.ID, user.ID, models.CreateCommentRequest{Content: "   "})
	e := requireKind(t, err, KindValidation)
	require.NotEmpty(t, e.Fields)
	assert.Equal(t, "content", e.Fields[0].Field)

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)

	comment, err := svc.AddComment(ctx, post.ID, user.ID, models.CreateCommentRequest{Content: "  nice!  "})
	require.NoError(t, err)
	assert.Equal(t, "nice!", comment.Content)
	require.NotNil(t, comment.Author)
	assert.Equal(t, user.Name, comment.Author.Name)

	got, err = st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)
}

func TestAddComment_UnknownPost(t *testing.T) {
	svc, _, _, user, _ := newInteractionFixture(t)

	_, err := svc.AddComment(context.Background(), uuid.NewString(), user.ID, models.CreateCommentRequest{Content: "hi"})
	requireKind(t, err, KindNotFound)
}

func TestAddComment_UnknownAuthor(t *testing.T) {
	svc, st, _, _, post := newInteractionFixture(t)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, post.ID, uuid.NewString(), models.CreateCommentRequest{Content: "hi"})
	e := requireKind(t, err, KindNotFound)
	assert.Equal(t, "User not found", e.Message)

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentCount)
}

func TestAddComment_ConcurrentCommentsKeepCounterExact(t *testing.T) {
	svc, st, _, _, post := newInteractionFixture(t)
	ctx := context.Background()

	users := make([]*models.User, 6)
	for i := range users {
		users[i] = seedUser(t, st, uuid.NewString()+"@x.com")
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		for _, u := range users {
			wg.Add(1)
			go func(authorID string) {
				defer wg.Done()
				_, err := svc.AddComment(ctx, post.ID, authorID, models.CreateCommentRequest{Content: "ship it"})
				assert.NoError(t, err)
			}(u.ID)
		}
	}
	wg.Wait()

	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	n, err := st.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.CommentCount)
	assert.EqualValues(t, 3*len(users), n)
}

func TestAddComment_TooLong(t *testing.T) {
	svc, _, _, user, post := newInteractionFixture(t)

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.AddComment(context.Background(), post.ID, user.ID, models.CreateCommentRequest{Content: string(long)})
	requireKind(t, err, KindValidation)
}

func TestListComments_NewestFirst(t *testing.T) {
	svc, st, _, user, post := newInteractionFixture(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.AddComment(ctx, post.ID, user.ID, models.CreateCommentRequest{Content: text})
		require.NoError(t, err)
	}

	comments, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)
	for i := 1; i < len(comments); i++ {
		assert.True(t, comments[i-1].CreatedAt.After(comments[i].CreatedAt))
	}

	n, err := st.CountComments(ctx, post.ID)
	require.NoError(t, err)
	got, err := st.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.CommentCount)

	_, err = svc.ListComments(ctx, uuid.NewString())
	requireKind(t, err, KindNotFound)
}
