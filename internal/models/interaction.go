package models

import "time"

type Like struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:likes_post_user_key" json:"postId"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:likes_post_user_key" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string         `gorm:"type:uuid;not null;index" json:"postId"`
	AuthorID  string         `gorm:"type:uuid;not null" json:"authorId"`
	Author    *AuthorSummary `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}

// LikeState is what a like toggle or status read reports back.
type LikeState struct {
	PostID    string `json:"postId"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"likeCount"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}
