package models

import (
	"time"
)

const (
	PostTypePublic     = "public"
	PostTypeDevelopers = "developers"
	PostTypePrivate    = "private"
)

type Post struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     string         `gorm:"type:uuid;not null;index" json:"authorId"`
	Author       *AuthorSummary `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Attachment   Attachment     `gorm:"embedded;embeddedPrefix:attachment_" json:"attachment"`
	Type         string         `gorm:"type:varchar(16);not null;default:public" json:"type"`
	LikeCount    int            `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int            `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type CreatePostRequest struct {
	Content string   `json:"content" validate:"required,notblank,max=5000"`
	Code    *string  `json:"code" validate:"omitempty,max=20000"`
	Link    *string  `json:"link" validate:"omitempty,url,max=2048"`
	Images  []string `json:"images" validate:"omitempty,max=4,dive,required,max=2048"`
	Type    string   `json:"type" validate:"omitempty,oneof=public developers private"`
}

// PostPage is one page of the feed plus the paging metadata.
type PostPage struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
	Page  int    `json:"currentPage"`
	Limit int    `json:"limit"`
	Pages int    `json:"pages"`
}
