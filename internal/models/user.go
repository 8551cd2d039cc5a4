// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleUser      = "user"
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string         `gorm:"type:varchar(100);not null" json:"lastName"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	PhoneNumber  *string        `gorm:"type:varchar(32);uniqueIndex" json:"phoneNumber,omitempty"`
	PasswordHash *string        `gorm:"column:password_hash" json:"-"`
	Image        *string        `json:"image"`
	Role         string         `gorm:"type:varchar(32);not null;default:user" json:"role"`
	Bio          string         `gorm:"type:varchar(160);not null;default:''" json:"bio"`
	Location     string         `gorm:"type:varchar(30);not null;default:''" json:"location"`
	Website      string         `gorm:"type:varchar(100);not null;default:''" json:"website"`
	Github       string         `gorm:"type:varchar(100);not null;default:''" json:"github"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// UserResponse is the account as shown to its owner.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Image       *string   `json:"image"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the public view of a user. Contact details and credentials are never included.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	Role      string    `json:"role"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	Github    string    `json:"github"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecentUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Image:       u.Image,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

func (u *User) Profile() Profile {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	return Profile{
		ID:        u.ID,
		Name:      u.Name,
		Image:     u.Image,
		Role:      u.Role,
		Bio:       u.Bio,
		Location:  u.Location,
		Website:   u.Website,
		Github:    u.Github,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, Name: u.Name, Image: u.Image, Role: u.Role}
}

// AuthorSummary is the minimal author projection attached to posts and comments.
type AuthorSummary struct {
	ID    string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Role  string  `json:"role"`
}

func (AuthorSummary) TableName() string { return "users" }

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2,max=30"`
	LastName        string `json:"lastName" validate:"required,min=2,max=30"`
	Email           string `json:"email" validate:"required,email,max=255"`
	PhonePrefix     string `json:"phonePrefix" validate:"omitempty,max=5"`
	PhoneNumber     string `json:"phoneNumber" validate:"omitempty,min=10,max=15,digits"`
	Password        string `json:"password" validate:"required,min=8,max=100,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string  `json:"firstName" validate:"omitempty,min=2,max=30"`
	LastName  *string  `json:"lastName" validate:"omitempty,min=2,max=30"`
	Bio       *string  `json:"bio" validate:"omitempty,max=160"`
	Location  *string  `json:"location" validate:"omitempty,max=30"`
	Website   *string  `json:"website" validate:"omitempty,url,max=100"`
	Github    *string  `json:"github" validate:"omitempty,max=100"`
	Image     *string  `json:"image" validate:"omitempty,max=500"`
	Skills    []string `json:"skills" validate:"omitempty,max=10,dive,notblank,max=40"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=100,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
