package model

import "time"

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

const DefaultAvatar = "default-avatar.jpg"

type User struct {
	BaseModel
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	FullName  string    `gorm:"size:100;not null" json:"fullName"`
	Role      UserRole  `gorm:"type:enum('student','instructor','admin');default:'student'" json:"role"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Avatar    string    `gorm:"size:255;default:'default-avatar.jpg'" json:"avatar"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile is the projection returned by the auth endpoints. Password
// and soft-delete bookkeeping never leave the server.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"fullName": u.FullName,
		"role":     u.Role,
		"bio":      u.Bio,
		"avatar":   u.Avatar,
	}
}
