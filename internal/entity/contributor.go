package entity

// Contributor roles
const (
	RoleAuthor      = "AUTHOR"
	RoleContributor = "CONTRIBUTOR"
)

// Contributor links a user to a project. Exactly one AUTHOR row exists per
// project, inserted in the same transaction as the project itself.
type Contributor struct {
	ID        int    `json:"-"`
	UserID    int    `json:"user"`
	Username  string `json:"username"`
	ProjectID int    `json:"project"`
	Role      string `json:"role"` // AUTHOR | CONTRIBUTOR
}
