package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

// Now advances one second per call so successive writes are strictly ordered.
func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordedEvents struct {
	mu      sync.Mutex
	created []*models.Post
	liked   []models.LikeState
}

func (r *recordedEvents) PostCreated(_ context.Context, post *models.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, post)
}

func (r *recordedEvents) PostLiked(_ context.Context, state models.LikeState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.liked = append(r.liked, state)
}

func seedUser(t *testing.T, s store.Store, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Name:      "Test User",
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedPost(t *testing.T, s store.Store, authorID string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		Content:    "Hello DevConnect",
		Attachment: models.NoAttachment(),
		Type:       models.PostTypePublic,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	require.NoError(t, s.CreatePost(context.Background(), post))
	return post
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, kind, svcErr.Kind, "unexpected error: %v", err)
	return svcErr
}
