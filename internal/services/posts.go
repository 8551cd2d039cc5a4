package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
	"devconnect-api/internal/utils"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PostService struct {
	store  store.Store
	events Events
	now    func() time.Time
}

func NewPostService(s store.Store, events Events) *PostService {
	if events == nil {
		events = noEvents{}
	}
	return &PostService{
		store:  s,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	attachment, err := models.NewAttachment(req.Code, req.Link, req.Images)
	if err != nil {
		return nil, validationError("Validation failed", FieldError{Field: "attachment", Message: err.Error()})
	}

	if _, err := s.store.GetUserByID(ctx, authorID); err != nil {
		return nil, storeError(err, "User")
	}

	postType := req.Type
	if postType == "" {
		postType = models.PostTypePublic
	}

	now := s.now()
	post := &models.Post{
		ID:         uuid.NewString(),
		AuthorID:   authorID,
		Content:    req.Content,
		Attachment: attachment,
		Type:       postType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, storeError(err, "User")
	}

	s.events.PostCreated(ctx, post)
	return post, nil
}

// ListPostsQuery is the feed query. Zero Page and Limit select the defaults.
type ListPostsQuery struct {
	Page  int
	Limit int
	// Author is a user id or, when it contains "@", an email address.
	Author string
}

func (s *PostService) ListPosts(ctx context.Context, q ListPostsQuery) (*models.PostPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}

	var fields []FieldError
	if q.Page < 1 {
		fields = append(fields, FieldError{Field: "page", Message: "must be a positive integer"})
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		fields = append(fields, FieldError{Field: "limit", Message: "must be between 1 and 100"})
	} else if q.Page > math.MaxInt32/q.Limit {
		// Offset must fit in a 32-bit int.
		fields = append(fields, FieldError{Field: "page", Message: "is out of range"})
	}
	if len(fields) > 0 {
		return nil, validationError("Validation failed", fields...)
	}

	page := &models.PostPage{Posts: []models.Post{}, Page: q.Page, Limit: q.Limit}

	authorID, ok, err := s.resolveAuthor(ctx, strings.TrimSpace(q.Author))
	if err != nil {
		return nil, err
	}
	if !ok {
		return page, nil
	}

	posts, total, err := s.store.ListPosts(ctx, store.PostFilter{
		AuthorID: authorID,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return page, nil
		}
		return nil, internal("failed to list posts", err)
	}

	page.Posts = posts
	page.Total = total
	page.Pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return page, nil
}

// resolveAuthor maps the author filter to a user id. ok is false when the filter
// names nobody and the result set is therefore empty.
func (s *PostService) resolveAuthor(ctx context.Context, author string) (id string, ok bool, err error) {
	switch {
	case author == "":
		return "", true, nil
	case strings.Contains(author, "@"):
		user, err := s.store.GetUserByEmail(ctx, strings.ToLower(author))
		if errors.Is(err, store.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, internal("failed to resolve author", err)
		}
		return user.ID, true, nil
	default:
		if _, err := uuid.Parse(author); err != nil {
			return "", false, nil
		}
		return author, true, nil
	}
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return post, nil
}

// DeletePost removes a post with its likes and comments. Only the author may delete it.
func (s *PostService) DeletePost(ctx context.Context, id, userID string) error {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return storeError(err, "Post")
	}
	if post.AuthorID != userID {
		return &Error{Kind: KindForbidden, Message: "You can only delete your own posts"}
	}
	if err := s.store.DeletePost(ctx, id); err != nil {
		return storeError(err, "Post")
	}
	return nil
}
