package database

import (
	"context"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
)

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return translate(d.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (d *Database) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user by id")
	}
	return &user, nil
}

func (d *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (d *Database) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := d.DB.WithContext(ctx).First(&user, "phone_number = ?", phone).Error; err != nil {
		return nil, translate(err, "get user by phone")
	}
	return &user, nil
}

// UpdateUser writes the mutable profile and credential columns. Identity columns are never touched.
func (d *Database) UpdateUser(ctx context.Context, user *models.User) error {
	res := d.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("first_name", "last_name", "name", "image", "bio", "location", "website", "github", "skills", "password_hash", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *Database) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := d.DB.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "list recent users")
	}
	return users, nil
}
