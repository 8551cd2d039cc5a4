package database

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect-api/internal/config"
	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping test - TEST_DATABASE_URL not set")
	}

	d, err := NewDatabase(&config.Config{DatabaseURL: dsn, DBMaxRetries: 1})
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func createUserAndPost(t *testing.T, d *Database) (*models.User, *models.Post) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Name:      "Test User",
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, d.CreateUser(ctx, user))

	post := &models.Post{
		ID:         uuid.NewString(),
		AuthorID:   user.ID,
		Content:    "hello",
		Attachment: models.CodeAttachment("fmt.Println(42)"),
		Type:       models.PostTypePublic,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, d.CreatePost(ctx, post))
	return user, post
}

func TestDatabase_CreateUserDuplicateEmail(t *testing.T) {
	d := openTestDatabase(t)
	user, _ := createUserAndPost(t, d)

	dup := &models.User{ID: uuid.NewString(), Email: user.Email, FirstName: "X", LastName: "Y", Name: "X Y", Role: models.RoleUser}
	err := d.CreateUser(context.Background(), dup)

	var dupErr *store.DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "email", dupErr.Field)
}

func TestDatabase_PostRoundTripWithAuthor(t *testing.T) {
	d := openTestDatabase(t)
	user, post := createUserAndPost(t, d)

	got, err := d.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, user.Name, got.Author.Name)
	assert.Equal(t, models.AttachmentCode, got.Attachment.Kind)

	_, err = d.GetPost(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDatabase_ConcurrentCounterUpdatesStayConsistent(t *testing.T) {
	d := openTestDatabase(t)
	user, post := createUserAndPost(t, d)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.InTx(ctx, func(tx store.Tx) error {
				if _, err := tx.LockPost(ctx, post.ID); err != nil {
					return err
				}
				deleted, err := tx.DeleteLike(ctx, post.ID, user.ID)
				if err != nil {
					return err
				}
				if deleted {
					_, err = tx.AddLikeCount(ctx, post.ID, -1)
					return err
				}
				if err := tx.InsertLike(ctx, &models.Like{ID: uuid.NewString(), PostID: post.ID, UserID: user.ID}); err != nil {
					return err
				}
				_, err = tx.AddLikeCount(ctx, post.ID, 1)
				return err
			})
		}()
	}
	wg.Wait()

	got, err := d.GetPost(ctx, post.ID)
	require.NoError(t, err)
	n, err := d.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.LikeCount)
	assert.EqualValues(t, 0, n, "an even number of toggles ends unliked")
}

func TestDatabase_DeletePostCascades(t *testing.T) {
	d := openTestDatabase(t)
	user, post := createUserAndPost(t, d)
	ctx := context.Background()

	require.NoError(t, d.InTx(ctx, func(tx store.Tx) error {
		return tx.InsertComment(ctx, &models.Comment{ID: uuid.NewString(), PostID: post.ID, AuthorID: user.ID, Content: "hi", CreatedAt: time.Now().UTC()})
	}))
	require.NoError(t, d.DeletePost(ctx, post.ID))

	n, err := d.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
