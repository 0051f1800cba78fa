package model

import "time"

// User is a registered member of the service.
type User struct {
	ID           string    `json:"_id" gorm:"type:char(24);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // never serialized
	Name         string    `json:"name,omitempty" gorm:"size:30"`
	About        string    `json:"about,omitempty" gorm:"size:30"`
	Avatar       string    `json:"avatar,omitempty" gorm:"size:2048"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserUpdate carries the profile fields a user may change about themselves.
// Nil fields are left untouched.
type UserUpdate struct {
	Name   *string
	About  *string
	Avatar *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.About == nil && u.Avatar == nil
}
