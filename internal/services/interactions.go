package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
	"devconnect-api/internal/utils"
)

// Events receives domain events once the write behind them has committed.
type Events interface {
	PostCreated(ctx context.Context, post *models.Post)
	PostLiked(ctx context.Context, state models.LikeState)
}

type noEvents struct{}

func (noEvents) PostCreated(context.Context, *models.Post)    {}
func (noEvents) PostLiked(context.Context, models.LikeState) {}

// InteractionService owns likes and comments and keeps the post counters in step with them.
type InteractionService struct {
	store  store.Store
	events Events
	now    func() time.Time
}

func NewInteractionService(s store.Store, events Events) *InteractionService {
	if events == nil {
		events = noEvents{}
	}
	return &InteractionService{
		store:  s,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ToggleLike flips userID's like on postID. Calls alternate between liked and unliked.
func (s *InteractionService) ToggleLike(ctx context.Context, postID, userID string) (models.LikeState, error) {
	state := models.LikeState{PostID: postID}

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.LockPost(ctx, postID); err != nil {
			return err
		}

		deleted, err := tx.DeleteLike(ctx, postID, userID)
		if err != nil {
			return err
		}

		delta := -1
		if !deleted {
			like := &models.Like{ID: uuid.NewString(), PostID: postID, UserID: userID, CreatedAt: s.now()}
			if err := tx.InsertLike(ctx, like); err != nil {
				return err
			}
			delta = 1
		}

		count, err := tx.AddLikeCount(ctx, postID, delta)
		if err != nil {
			return err
		}
		state.Liked = !deleted
		state.LikeCount = count
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.LikeState{}, conflict("Like already recorded")
		}
		return models.LikeState{}, storeError(err, "Post")
	}

	s.events.PostLiked(ctx, state)
	return state, nil
}

// LikeStatus reports whether userID likes postID and the post's cached like count.
func (s *InteractionService) LikeStatus(ctx context.Context, postID, userID string) (models.LikeState, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return models.LikeState{}, storeError(err, "Post")
	}

	state := models.LikeState{PostID: post.ID, LikeCount: post.LikeCount}
	_, err = s.store.FindLike(ctx, postID, userID)
	switch {
	case err == nil:
		state.Liked = true
	case !errors.Is(err, store.ErrNotFound):
		return models.LikeState{}, internal("failed to read like", err)
	}
	return state, nil
}

func (s *InteractionService) AddComment(ctx context.Context, postID, authorID string, req models.CreateCommentRequest) (*models.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: s.now(),
	}

	err := s.store.InTx(ctx, func(tx store.Tx) error {
		if _, err := tx.LockPost(ctx, postID); err != nil {
			return err
		}
		if err := tx.InsertComment(ctx, comment); err != nil {
			return err
		}
		_, err := tx.AddCommentCount(ctx, postID, 1)
		return err
	})
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return comment, nil
}

// ListComments returns every comment on postID, newest first.
func (s *InteractionService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, storeError(err, "Post")
	}
	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, internal("failed to list comments", err)
	}
	return comments, nil
}
