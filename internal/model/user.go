package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null;default:member" json:"role"`
	AvatarURL string    `gorm:"size:512" json:"avatarUrl"`
	BannerURL string    `gorm:"size:512" json:"bannerUrl"`
	Bio       string    `gorm:"size:1200" json:"bio"`
	CreatedAt time.Time `json:"dateJoined"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID       uint64
	Username string
	Role     Role
}

// UserStats is a row of the top uploaders board.
type UserStats struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatarUrl"`
	Role        Role   `json:"role"`
	LiveryCount int64  `json:"liveryCount"`
}
