// Package store defines the persistence contract shared by the relational and in-memory backends.
package store

import (
	"context"
	"errors"

	"devconnect-api/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateError names the unique field that rejected a write.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate value for " + e.Field }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// MissingReferenceError reports a write that pointed at a row that does not exist.
// Entity is "User" or "Post".
type MissingReferenceError struct {
	Entity string
}

func (e *MissingReferenceError) Error() string { return e.Entity + " does not exist" }

func (e *MissingReferenceError) Is(target error) bool { return target == ErrNotFound }

type PostFilter struct {
	AuthorID string
	Offset   int
	Limit    int
}

type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// ListPosts orders newest first with id as the tie breaker.
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	DeletePost(ctx context.Context, id string) error

	FindLike(ctx context.Context, postID, userID string) (*models.Like, error)
	CountLikes(ctx context.Context, postID string) (int64, error)

	// ListComments orders newest first with id as the tie breaker.
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CountComments(ctx context.Context, postID string) (int64, error)

	// InTx runs fn in one transaction. Any error returned by fn rolls back every write made through tx.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// Tx is the set of writes that must happen atomically with a post's counters.
type Tx interface {
	// LockPost loads the post and holds it against concurrent writers until the transaction ends.
	LockPost(ctx context.Context, id string) (*models.Post, error)
	DeleteLike(ctx context.Context, postID, userID string) (bool, error)
	InsertLike(ctx context.Context, like *models.Like) error
	InsertComment(ctx context.Context, comment *models.Comment) error
	AddLikeCount(ctx context.Context, postID string, delta int) (int, error)
	AddCommentCount(ctx context.Context, postID string, delta int) (int, error)
}
