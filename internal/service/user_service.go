package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	Users   UserStore
	Storage *StorageService
}

func NewUserService(users UserStore, storage *StorageService) *UserService {
	return &UserService{Users: users, Storage: storage}
}

// ProfileUpdate carries the mutable profile fields. Pointers distinguish
// "leave alone" from "set to empty" for bio.
type ProfileUpdate struct {
	FullName string  `json:"fullName"`
	Bio      *string `json:"bio"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
}

// UpdateProfile applies the requested changes, re-checking uniqueness for
// username and email when they actually change.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}

	if update.Username != "" && update.Username != user.Username {
		if _, err := s.Users.FindByUsername(update.Username); err == nil {
			return nil, util.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = update.Username
	}

	if update.Email != "" && update.Email != user.Email {
		if _, err := s.Users.FindByEmail(update.Email); err == nil {
			return nil, util.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = update.Email
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

var allowedAvatarExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

func (s *UserService) UploadAvatar(c *gin.Context, userID uint, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		return "", util.ValidationError("unsupported avatar format %q", ext)
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrUserNotFound
		}
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", userID, uuid.NewString(), ext)
	url, err := s.Storage.Upload(c, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.Users.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
