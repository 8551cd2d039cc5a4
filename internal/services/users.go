package services

import (
	"context"
	"strings"
	"time"

	"devconnect-api/internal/models"
	"devconnect-api/internal/store"
	"devconnect-api/internal/utils"
)

const RecentUsersLimit = 5

type UserService struct {
	store store.Store
	now   func() time.Time
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Me returns the caller's own account, contact details included.
func (s *UserService) Me(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	resp := user.Response()
	return &resp, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) RecentUsers(ctx context.Context) ([]models.RecentUser, error) {
	users, err := s.store.RecentUsers(ctx, RecentUsersLimit)
	if err != nil {
		return nil, internal("failed to list recent users", err)
	}

	recent := make([]models.RecentUser, len(users))
	for i, u := range users {
		recent[i] = models.RecentUser{ID: u.ID, Name: u.Name, Image: u.Image, CreatedAt: u.CreatedAt}
	}
	return recent, nil
}

// UpdateProfile applies the fields present in req. Email and id cannot change.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	trim(req.FirstName, req.LastName, req.Bio, req.Location, req.Website, req.Github, req.Image)
	if err := utils.Validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.Name = user.FirstName + " " + user.LastName
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.Github != nil {
		user.Github = *req.Github
	}
	if req.Image != nil {
		if *req.Image == "" {
			user.Image = nil
		} else {
			user.Image = req.Image
		}
	}
	if req.Skills != nil {
		skills := make([]string, len(req.Skills))
		for i, sk := range req.Skills {
			skills[i] = strings.TrimSpace(sk)
		}
		user.Skills = skills
	}
	user.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, storeError(err, "User")
	}
	profile := user.Profile()
	return &profile, nil
}

func trim(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
