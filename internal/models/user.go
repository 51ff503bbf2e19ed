package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User represents a platform user as seen by the client
type User struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	FirebaseUID string `json:"firebase_uid,omitempty"` // Link to Firebase User UID
}

// UserCompact is the reduced author/actor shape embedded in feed and
// notification payloads
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact reduces a User to its embeddable form
func (u User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
