package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

func (d *Database) FindLike(ctx context.Context, postID, userID string) (*models.Like, error) {
	var like models.Like
	err := d.DB.WithContext(ctx).First(&like, "post_id = ? AND user_id = ?", postID, userID).Error
	if err != nil {
		return nil, translate(err, "find like")
	}
	return &like, nil
}

func (d *Database) CountLikes(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := d.DB.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, translate(err, "count likes")
}

func (d *Database) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := d.DB.WithContext(ctx).
		Preload("Author", selectAuthor).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "list comments")
	}
	return comments, nil
}

func (d *Database) CountComments(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := d.DB.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, translate(err, "count comments")
}

func (d *Database) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return d.DB.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&tx{db: gtx})
	})
}

type tx struct {
	db *gorm.DB
}

func (t *tx) LockPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "lock post")
	}
	return &post, nil
}

func (t *tx) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	res := t.db.WithContext(ctx).Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID)
	if res.Error != nil {
		return false, translate(res.Error, "delete like")
	}
	return res.RowsAffected > 0, nil
}

func (t *tx) InsertLike(ctx context.Context, like *models.Like) error {
	return translate(t.db.WithContext(ctx).Create(like).Error, "insert like")
}

func (t *tx) InsertComment(ctx context.Context, comment *models.Comment) error {
	db := t.db.WithContext(ctx)
	if err := db.Omit("Author").Create(comment).Error; err != nil {
		return translate(err, "insert comment")
	}

	var author models.AuthorSummary
	if err := db.Select("id", "name", "image", "role").First(&author, "id = ?", comment.AuthorID).Error; err != nil {
		return translate(err, "load comment author")
	}
	comment.Author = &author
	return nil
}

func (t *tx) AddLikeCount(ctx context.Context, postID string, delta int) (int, error) {
	return t.addCounter(ctx, postID, "like_count", delta)
}

func (t *tx) AddCommentCount(ctx context.Context, postID string, delta int) (int, error) {
	return t.addCounter(ctx, postID, "comment_count", delta)
}

func (t *tx) addCounter(ctx context.Context, postID, column string, delta int) (int, error) {
	db := t.db.WithContext(ctx)
	res := db.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return 0, translate(res.Error, "update "+column)
	}
	if res.RowsAffected == 0 {
		return 0, store.ErrNotFound
	}

	var count int
	if err := db.Model(&models.Post{}).Select(column).Where("id = ?", postID).Row().Scan(&count); err != nil {
		return 0, translate(err, "read "+column)
	}
	return count, nil
}
