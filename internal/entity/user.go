package entity

import "time"

type User struct {
	ID              int       `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"-"` // bcrypt hash, never serialized
	CanBeContacted  bool      `json:"can_be_contacted"`
	CanDataBeShared bool      `json:"can_data_be_shared"`
	Age             int       `json:"age"`
	CreatedTime     time.Time `json:"created_time"`
}

const MinimumAge = 18
