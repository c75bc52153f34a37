package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// UserPreferences is a small settings bag carried on the user document.
type UserPreferences struct {
	Theme                string `bson:"theme,omitempty" json:"theme,omitempty"`
	DefaultColor         string `bson:"default_color,omitempty" json:"default_color,omitempty" binding:"omitempty,hexcolor"`
	NotificationsEnabled bool   `bson:"notifications_enabled" json:"notifications_enabled"`
}

// User is provisioned lazily on the first request carrying a valid token
// from the identity provider. FirebaseUID is the provider's subject id and
// is unique per account; there is no local password.
type User struct {
	UserID          string          `bson:"user_id" json:"user_id"`
	FirebaseUID     string          `bson:"firebase_uid" json:"firebase_uid"`
	Email           string          `bson:"email" json:"email"`
	DisplayName     string          `bson:"display_name,omitempty" json:"display_name,omitempty"`
	PhotoURL        string          `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	IsEmailVerified bool            `bson:"is_email_verified" json:"is_email_verified"`
	IsActive        bool            `bson:"is_active" json:"is_active"`
	Role            Role            `bson:"role" json:"role"`
	Preferences     UserPreferences `bson:"preferences,omitempty" json:"preferences,omitempty"`
	LastLogin       time.Time       `bson:"last_login" json:"last_login"`
	LastLoginDevice string          `bson:"last_login_device,omitempty" json:"last_login_device,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}
