package entity

import "time"

// Project types
const (
	ProjectTypeBackend  = "BACKEND"
	ProjectTypeFrontend = "FRONTEND"
	ProjectTypeIOS      = "IOS"
	ProjectTypeAndroid  = "ANDROID"
)

type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"` // BACKEND | FRONTEND | IOS | ANDROID
	AuthorID    int       `json:"author"`
	CreatedTime time.Time `json:"created_time"`
}

func ValidProjectType(t string) bool {
	switch t {
	case ProjectTypeBackend, ProjectTypeFrontend, ProjectTypeIOS, ProjectTypeAndroid:
		return true
	}
	return false
}
