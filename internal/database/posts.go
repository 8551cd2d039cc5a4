package database

import (
	"context"

	"gorm.io/gorm"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	db := d.DB.WithContext(ctx)
	if err := db.Omit("Author").Create(post).Error; err != nil {
		return translate(err, "create post")
	}

	var author models.AuthorSummary
	if err := db.Select("id", "name", "image", "role").First(&author, "id = ?", post.AuthorID).Error; err != nil {
		return translate(err, "load post author")
	}
	post.Author = &author
	return nil
}

func (d *Database) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := d.DB.WithContext(ctx).
		Preload("Author", selectAuthor).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get post")
	}
	return &post, nil
}

func (d *Database) ListPosts(ctx context.Context, filter store.PostFilter) ([]models.Post, int64, error) {
	base := d.DB.WithContext(ctx).Model(&models.Post{})
	if filter.AuthorID != "" {
		base = base.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count posts")
	}

	posts := []models.Post{}
	q := base.Session(&gorm.Session{}).
		Preload("Author", selectAuthor).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, translate(err, "list posts")
	}
	return posts, total, nil
}

// DeletePost relies on ON DELETE CASCADE to remove the post's likes and comments.
func (d *Database) DeletePost(ctx context.Context, id string) error {
	res := d.DB.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete post")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func selectAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image", "role")
}
