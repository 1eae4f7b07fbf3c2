package entity

import "time"

// Issue priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Issue tags
const (
	TagBug     = "BUG"
	TagFeature = "FEATURE"
	TagTask    = "TASK"
)

// Issue statuses
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusFinished   = "FINISHED"
)

type Issue struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       string    `json:"priority"` // LOW | MEDIUM | HIGH
	Tag            string    `json:"tag"`      // BUG | FEATURE | TASK
	Status         string    `json:"status"`   // TODO | IN_PROGRESS | FINISHED
	ProjectID      int       `json:"project"`
	AuthorID       int       `json:"author"`
	AuthorUsername string    `json:"author_username"`
	AssigneeID     *int      `json:"assignee"` // nulled when the assignee account is deleted
	CreatedTime    time.Time `json:"created_time"`
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func ValidTag(t string) bool {
	switch t {
	case TagBug, TagFeature, TagTask:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusFinished:
		return true
	}
	return false
}
