package entity

import "time"

// Comment is keyed by a random v4 UUID so comments cannot be enumerated by
// guessing sequential ids.
type Comment struct {
	UUID           string    `json:"uuid"`
	Text           string    `json:"text"`
	IssueID        int       `json:"issue"`
	AuthorID       int       `json:"author"`
	AuthorUsername string    `json:"author_username"`
	CreatedTime    time.Time `json:"created_time"`
}
