package service

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/session"
	"coursehub_backend/internal/util"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Users    UserStore
	Sessions session.Store
	Cfg      *config.Config
}

func NewAuthService(users UserStore, sessions session.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:    users,
		Sessions: sessions,
		Cfg:      cfg,
	}
}

// Register creates the account after checking both uniqueness rules. The
// password arrives plaintext and is stored only as a bcrypt hash.
func (s *AuthService) Register(user *model.User) error {
	if _, err := s.Users.FindByEmail(user.Email); err == nil {
		return util.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.Users.FindByUsername(user.Username); err == nil {
		return util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	if user.Role == "" {
		user.Role = model.Student
	}
	if user.Avatar == "" {
		user.Avatar = model.DefaultAvatar
	}

	return s.Users.Create(user)
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

// IssueCredentials hands out both carriers: a server-side session and a
// stateless token. Either one authenticates subsequent requests; the
// token wins when both are present.
func (s *AuthService) IssueCredentials(user *model.User) (sessionID, token string, err error) {
	sessionID = session.NewSessionID()
	s.Sessions.Put(sessionID, session.Record{
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: time.Now(),
	})

	token, err = util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		s.Sessions.Delete(sessionID)
		return "", "", err
	}

	return sessionID, token, nil
}

func (s *AuthService) Logout(sessionID string) {
	if sessionID != "" {
		s.Sessions.Delete(sessionID)
	}
}

func (s *AuthService) GetUser(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
