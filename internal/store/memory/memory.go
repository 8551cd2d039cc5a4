// Package memory is an in-process implementation of store.Store used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

type likeKey struct {
	postID string
	userID string
}

type state struct {
	users    map[string]models.User
	posts    map[string]models.Post
	likes    map[likeKey]models.Like
	comments map[string]models.Comment
}

func newState() *state {
	return &state{
		users:    make(map[string]models.User),
		posts:    make(map[string]models.Post),
		likes:    make(map[likeKey]models.Like),
		comments: make(map[string]models.Comment),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.likes {
		c.likes[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	return c
}

// Store keeps everything in maps behind one mutex. Transactions hold the write lock for their
// whole duration and restore a snapshot when they fail.
type Store struct {
	mu   sync.RWMutex
	data *state
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newState()}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.users[user.ID]; ok {
		return &store.DuplicateError{Field: "id"}
	}
	for _, u := range s.data.users {
		if u.Email == user.Email {
			return &store.DuplicateError{Field: "email"}
		}
		if user.PhoneNumber != nil && u.PhoneNumber != nil && *u.PhoneNumber == *user.PhoneNumber {
			return &store.DuplicateError{Field: "phone"}
		}
	}
	s.data.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.data.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, func(u models.User) bool { return u.Email == email })
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findUser(ctx, func(u models.User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == phone })
}

func (s *Store) findUser(ctx context.Context, match func(models.User) bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.data.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	s.data.users[user.ID] = *user
	return nil
}

func (s *Store) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.data.users))
	for _, u := range s.data.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.users[post.AuthorID]; !ok {
		return &store.MissingReferenceError{Entity: "User"}
	}
	if _, ok := s.data.posts[post.ID]; ok {
		return &store.DuplicateError{Field: "id"}
	}
	stored := *post
	stored.Author = nil
	s.data.posts[post.ID] = stored
	post.Author = s.data.author(post.AuthorID)
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Author = s.data.author(p.AuthorID)
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter) ([]models.Post, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Post
	for _, p := range s.data.posts {
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset < 0 || filter.Offset >= len(matched) {
		return []models.Post{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	page := make([]models.Post, len(matched))
	for i, p := range matched {
		p.Author = s.data.author(p.AuthorID)
		page[i] = p
	}
	return page, total, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data.posts, id)
	for k := range s.data.likes {
		if k.postID == id {
			delete(s.data.likes, k)
		}
	}
	for k, c := range s.data.comments {
		if c.PostID == id {
			delete(s.data.comments, k)
		}
	}
	return nil
}

func (s *Store) FindLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.data.likes[likeKey{postID, userID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (s *Store) CountLikes(ctx context.Context, postID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for k := range s.data.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []models.Comment{}
	for _, c := range s.data.comments {
		if c.PostID != postID {
			continue
		}
		c.Author = s.data.author(c.AuthorID)
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, postID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.data.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&tx{data: s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func (s *state) author(id string) *models.AuthorSummary {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	summary := u.Summary()
	return &summary
}

// references mirrors the foreign keys on likes and comments.
func (s *state) references(postID, userID string) error {
	if _, ok := s.posts[postID]; !ok {
		return &store.MissingReferenceError{Entity: "Post"}
	}
	if _, ok := s.users[userID]; !ok {
		return &store.MissingReferenceError{Entity: "User"}
	}
	return nil
}

// tx operates on the live state while the store's write lock is held by InTx.
type tx struct {
	data *state
}

func (t *tx) LockPost(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := t.data.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (t *tx) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	k := likeKey{postID, userID}
	if _, ok := t.data.likes[k]; !ok {
		return false, nil
	}
	delete(t.data.likes, k)
	return true, nil
}

func (t *tx) InsertLike(ctx context.Context, like *models.Like) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.data.references(like.PostID, like.UserID); err != nil {
		return err
	}
	k := likeKey{like.PostID, like.UserID}
	if _, ok := t.data.likes[k]; ok {
		return &store.DuplicateError{Field: "like"}
	}
	t.data.likes[k] = *like
	return nil
}

func (t *tx) InsertComment(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.data.references(comment.PostID, comment.AuthorID); err != nil {
		return err
	}
	stored := *comment
	stored.Author = nil
	t.data.comments[comment.ID] = stored
	comment.Author = t.data.author(comment.AuthorID)
	return nil
}

func (t *tx) AddLikeCount(ctx context.Context, postID string, delta int) (int, error) {
	return t.addCounter(ctx, postID, func(p *models.Post) *int { return &p.LikeCount }, delta)
}

func (t *tx) AddCommentCount(ctx context.Context, postID string, delta int) (int, error) {
	return t.addCounter(ctx, postID, func(p *models.Post) *int { return &p.CommentCount }, delta)
}

func (t *tx) addCounter(ctx context.Context, postID string, field func(*models.Post) *int, delta int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p, ok := t.data.posts[postID]
	if !ok {
		return 0, store.ErrNotFound
	}
	counter := field(&p)
	*counter += delta
	t.data.posts[postID] = p
	return *counter, nil
}
