// Package permission holds the authorization rules for every resource type.
//
// Access is relationship-based: each decision resolves to a fresh roster
// lookup or an author-column equality check at request time. Nothing is
// cached, so roster edits take effect on the next request.
//
// Scope resolution runs before any relationship check. A missing project,
// issue or comment always surfaces as the not-found error; forbidden is only
// returned once the whole scope chain exists. The same ordering applies to
// every policy.
package permission

import (
	"context"

	"tracker-service/internal/entity"
)

type Action string

const (
	ActionRead   Action = "read"   // list, retrieve
	ActionWrite  Action = "write"  // create
	ActionModify Action = "modify" // update, partial update
	ActionRemove Action = "remove" // destroy
)

// Scope names the parent chain of the resource under decision. Only the
// fields a given policy needs are set.
type Scope struct {
	UserID      int // target user, for the user policy
	ProjectID   int
	IssueID     int
	CommentUUID string
}

// Policy is the per-resource decision function. A nil return allows the
// action; entity.ErrForbidden or one of the not-found sentinels denies it.
type Policy interface {
	CanAct(ctx context.Context, actorID int, action Action, scope Scope) error
}

// Stores the policies read from. Implemented by the repository types; the
// narrow interfaces keep the policies testable without a database.

type ProjectStore interface {
	GetProjectByID(ctx context.Context, id int) (*entity.Project, error)
}

type RosterStore interface {
	IsContributor(ctx context.Context, userID, projectID int) (bool, error)
}

type IssueStore interface {
	GetIssueByID(ctx context.Context, projectID, id int) (*entity.Issue, error)
}

type CommentStore interface {
	GetCommentByUUID(ctx context.Context, issueID int, uuid string) (*entity.Comment, error)
}

// UserPolicy: anyone may create an account; everything else is self-only.
// No identity may read, alter or delete another identity's record.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

func (p *UserPolicy) CanAct(ctx context.Context, actorID int, action Action, scope Scope) error {
	if action == ActionWrite {
		return nil
	}
	if scope.UserID != actorID {
		return entity.ErrForbidden
	}
	return nil
}

// ProjectPolicy: any authenticated user may create a project; reading takes
// roster membership; modify/remove take project authorship. Authorship is the
// author column on the project row, not the AUTHOR roster role, so the two
// predicates stay independent.
type ProjectPolicy struct {
	projects ProjectStore
	roster   RosterStore
}

func NewProjectPolicy(projects ProjectStore, roster RosterStore) *ProjectPolicy {
	return &ProjectPolicy{projects: projects, roster: roster}
}

func (p *ProjectPolicy) CanAct(ctx context.Context, actorID int, action Action, scope Scope) error {
	if action == ActionWrite {
		return nil
	}

	project, err := p.projects.GetProjectByID(ctx, scope.ProjectID)
	if err != nil {
		return err
	}

	if action == ActionModify || action == ActionRemove {
		if project.AuthorID != actorID {
			return entity.ErrForbidden
		}
		return nil
	}

	ok, err := p.roster.IsContributor(ctx, actorID, project.ID)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrForbidden
	}
	return nil
}

// ContributorPolicy: the roster is readable by anyone on it and managed only
// by the project author.
type ContributorPolicy struct {
	projects ProjectStore
	roster   RosterStore
}

func NewContributorPolicy(projects ProjectStore, roster RosterStore) *ContributorPolicy {
	return &ContributorPolicy{projects: projects, roster: roster}
}

func (p *ContributorPolicy) CanAct(ctx context.Context, actorID int, action Action, scope Scope) error {
	project, err := p.projects.GetProjectByID(ctx, scope.ProjectID)
	if err != nil {
		return err
	}

	if action == ActionWrite || action == ActionModify || action == ActionRemove {
		if project.AuthorID != actorID {
			return entity.ErrForbidden
		}
		return nil
	}

	ok, err := p.roster.IsContributor(ctx, actorID, project.ID)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrForbidden
	}
	return nil
}

// IssuePolicy: contributors create and read issues; only the issue's own
// author may modify or remove it. Being the project author does not grant
// issue authorship.
type IssuePolicy struct {
	projects ProjectStore
	roster   RosterStore
	issues   IssueStore
}

func NewIssuePolicy(projects ProjectStore, roster RosterStore, issues IssueStore) *IssuePolicy {
	return &IssuePolicy{projects: projects, roster: roster, issues: issues}
}

func (p *IssuePolicy) CanAct(ctx context.Context, actorID int, action Action, scope Scope) error {
	project, err := p.projects.GetProjectByID(ctx, scope.ProjectID)
	if err != nil {
		return err
	}

	if action == ActionModify || action == ActionRemove {
		issue, err := p.issues.GetIssueByID(ctx, project.ID, scope.IssueID)
		if err != nil {
			return err
		}
		if issue.AuthorID != actorID {
			return entity.ErrForbidden
		}
		return nil
	}

	ok, err := p.roster.IsContributor(ctx, actorID, project.ID)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrForbidden
	}
	return nil
}

// CommentPolicy: contributors of the issue's project create and read
// comments; only the comment's own author may modify or remove it.
type CommentPolicy struct {
	projects ProjectStore
	roster   RosterStore
	issues   IssueStore
	comments CommentStore
}

func NewCommentPolicy(projects ProjectStore, roster RosterStore, issues IssueStore, comments CommentStore) *CommentPolicy {
	return &CommentPolicy{projects: projects, roster: roster, issues: issues, comments: comments}
}

func (p *CommentPolicy) CanAct(ctx context.Context, actorID int, action Action, scope Scope) error {
	project, err := p.projects.GetProjectByID(ctx, scope.ProjectID)
	if err != nil {
		return err
	}

	issue, err := p.issues.GetIssueByID(ctx, project.ID, scope.IssueID)
	if err != nil {
		return err
	}

	if action == ActionModify || action == ActionRemove {
		comment, err := p.comments.GetCommentByUUID(ctx, issue.ID, scope.CommentUUID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actorID {
			return entity.ErrForbidden
		}
		return nil
	}

	ok, err := p.roster.IsContributor(ctx, actorID, project.ID)
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrForbidden
	}
	return nil
}
