package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker-service/internal/api"
	"tracker-service/internal/entity"
	"tracker-service/internal/permission"
	"tracker-service/internal/service"
)

// In-memory stores implementing both the service store interfaces and the
// permission store interfaces, standing in for the MySQL repositories.

type memUsers struct {
	users  map[int]*entity.User
	nextID int
}

func (m *memUsers) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}

func (m *memUsers) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) DeleteUser(ctx context.Context, id int) error {
	delete(m.users, id)
	return nil
}

type memRoster struct {
	rows   []*entity.Contributor
	nextID int
}

func (m *memRoster) CreateContributor(ctx context.Context, contributor *entity.Contributor) (*entity.Contributor, error) {
	for _, row := range m.rows {
		if row.UserID == contributor.UserID && row.ProjectID == contributor.ProjectID {
			return nil, entity.ErrAlreadyContributor
		}
	}
	contributor.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, contributor)
	return contributor, nil
}

func (m *memRoster) GetContributor(ctx context.Context, userID, projectID int) (*entity.Contributor, error) {
	for _, row := range m.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			return row, nil
		}
	}
	return nil, entity.ErrContributorNotFound
}

func (m *memRoster) GetContributorsByProject(ctx context.Context, projectID int) ([]entity.Contributor, error) {
	rows := []entity.Contributor{}
	for _, row := range m.rows {
		if row.ProjectID == projectID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (m *memRoster) DeleteContributor(ctx context.Context, userID, projectID int) error {
	for i, row := range m.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return entity.ErrContributorNotFound
}

func (m *memRoster) IsContributor(ctx context.Context, userID, projectID int) (bool, error) {
	for _, row := range m.rows {
		if row.UserID == userID && row.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

type memProjects struct {
	projects map[int]*entity.Project
	roster   *memRoster
	issues   *memIssues
	nextID   int
}

func (m *memProjects) CreateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	project.ID = m.nextID
	m.nextID++
	m.projects[project.ID] = project
	_, err := m.roster.CreateContributor(ctx, &entity.Contributor{
		UserID:    project.AuthorID,
		ProjectID: project.ID,
		Role:      entity.RoleAuthor,
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (m *memProjects) GetProjectByID(ctx context.Context, id int) (*entity.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, entity.ErrProjectNotFound
	}
	return project, nil
}

func (m *memProjects) GetProjectsByContributor(ctx context.Context, userID int) ([]entity.Project, error) {
	projects := []entity.Project{}
	for _, row := range m.roster.rows {
		if row.UserID == userID {
			if project, ok := m.projects[row.ProjectID]; ok {
				projects = append(projects, *project)
			}
		}
	}
	return projects, nil
}

func (m *memProjects) UpdateProject(ctx context.Context, project *entity.Project) (*entity.Project, error) {
	m.projects[project.ID] = project
	return project, nil
}

// DeleteProject mimics the FK cascades: roster rows and issues disappear with
// the project.
func (m *memProjects) DeleteProject(ctx context.Context, id int) error {
	if _, ok := m.projects[id]; !ok {
		return entity.ErrProjectNotFound
	}
	delete(m.projects, id)
	kept := m.roster.rows[:0]
	for _, row := range m.roster.rows {
		if row.ProjectID != id {
			kept = append(kept, row)
		}
	}
	m.roster.rows = kept
	for issueID, issue := range m.issues.issues {
		if issue.ProjectID == id {
			delete(m.issues.issues, issueID)
		}
	}
	return nil
}

type memIssues struct {
	issues map[int]*entity.Issue
	nextID int
}

func (m *memIssues) CreateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error) {
	issue.ID = m.nextID
	m.nextID++
	m.issues[issue.ID] = issue
	return issue, nil
}

func (m *memIssues) GetIssueByID(ctx context.Context, projectID, id int) (*entity.Issue, error) {
	issue, ok := m.issues[id]
	if !ok || issue.ProjectID != projectID {
		return nil, entity.ErrIssueNotFound
	}
	return issue, nil
}

func (m *memIssues) GetIssuesByProject(ctx context.Context, projectID int) ([]entity.Issue, error) {
	issues := []entity.Issue{}
	for _, issue := range m.issues {
		if issue.ProjectID == projectID {
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}

func (m *memIssues) UpdateIssue(ctx context.Context, issue *entity.Issue) (*entity.Issue, error) {
	m.issues[issue.ID] = issue
	return issue, nil
}

func (m *memIssues) DeleteIssue(ctx context.Context, projectID, id int) error {
	issue, ok := m.issues[id]
	if !ok || issue.ProjectID != projectID {
		return entity.ErrIssueNotFound
	}
	delete(m.issues, id)
	return nil
}

type memComments struct {
	comments map[string]*entity.Comment
}

func (m *memComments) CreateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error) {
	m.comments[comment.UUID] = comment
	return comment, nil
}

func (m *memComments) GetCommentByUUID(ctx context.Context, issueID int, uuid string) (*entity.Comment, error) {
	comment, ok := m.comments[uuid]
	if !ok || comment.IssueID != issueID {
		return nil, entity.ErrCommentNotFound
	}
	return comment, nil
}

func (m *memComments) GetCommentsByIssue(ctx context.Context, issueID int) ([]entity.Comment, error) {
	comments := []entity.Comment{}
	for _, comment := range m.comments {
		if comment.IssueID == issueID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (m *memComments) UpdateComment(ctx context.Context, comment *entity.Comment) (*entity.Comment, error) {
	m.comments[comment.UUID] = comment
	return comment, nil
}

func (m *memComments) DeleteComment(ctx context.Context, issueID int, uuid string) error {
	if _, ok := m.comments[uuid]; !ok {
		return entity.ErrCommentNotFound
	}
	delete(m.comments, uuid)
	return nil
}

// testAuth replaces the echo-jwt middleware: the X-User-ID header selects the
// authenticated identity.
func testAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if header := c.Request().Header.Get("X-User-ID"); header != "" {
			id, _ := strconv.Atoi(header)
			c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JwtCustomClaims{UserID: id}))
		}
		return next(c)
	}
}

func newTestServer() *echo.Echo {
	users := &memUsers{users: map[int]*entity.User{}, nextID: 1}
	roster := &memRoster{nextID: 1}
	issues := &memIssues{issues: map[int]*entity.Issue{}, nextID: 1}
	projects := &memProjects{projects: map[int]*entity.Project{}, roster: roster, issues: issues, nextID: 1}
	comments := &memComments{comments: map[string]*entity.Comment{}}

	userHandler := api.NewUserHandler(service.NewUserService(users), permission.NewUserPolicy())
	projectHandler := api.NewProjectHandler(
		service.NewProjectService(projects, nil), nil,
		permission.NewProjectPolicy(projects, roster))
	contributorHandler := api.NewContributorHandler(
		service.NewContributorService(roster, users),
		permission.NewContributorPolicy(projects, roster))
	issueHandler := api.NewIssueHandler(
		service.NewIssueService(issues, nil),
		permission.NewIssuePolicy(projects, roster, issues))
	commentHandler := api.NewCommentHandler(
		service.NewCommentService(comments),
		permission.NewCommentPolicy(projects, roster, issues, comments))

	e := echo.New()
	e.POST("/signup", userHandler.Signup)

	protected := e.Group("", testAuth)
	protected.GET("/users/:id", userHandler.GetUser)
	protected.DELETE("/users/:id", userHandler.DeleteUser)
	protected.GET("/projects", projectHandler.ListProjects)
	protected.POST("/projects", projectHandler.CreateProject)
	protected.GET("/projects/:project_id", projectHandler.GetProject)
	protected.DELETE("/projects/:project_id", projectHandler.DeleteProject)
	protected.POST("/projects/:project_id/contributors", contributorHandler.AddContributor)
	protected.DELETE("/projects/:project_id/contributors/:user_id", contributorHandler.RemoveContributor)
	protected.POST("/projects/:project_id/issues", issueHandler.CreateIssue)
	protected.GET("/projects/:project_id/issues/:issue_id", issueHandler.GetIssue)
	protected.PATCH("/projects/:project_id/issues/:issue_id", issueHandler.UpdateIssue)
	protected.POST("/projects/:project_id/issues/:issue_id/comments", commentHandler.CreateComment)
	protected.GET("/projects/:project_id/issues/:issue_id/comments/:uuid", commentHandler.GetComment)

	return e
}

func do(e *echo.Echo, method, path string, userID int, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrackerLifecycle(t *testing.T) {
	e := newTestServer()

	// A and B sign up.
	rec := do(e, http.MethodPost, "/signup", 0,
		`{"username":"alice","email":"a@example.com","password":"pw123456","password2":"pw123456","can_be_contacted":true,"can_data_be_shared":false,"age":30}`)
	require.Equal(t, 201, rec.Code)
	rec = do(e, http.MethodPost, "/signup", 0,
		`{"username":"bob","email":"b@example.com","password":"pw123456","password2":"pw123456","can_be_contacted":false,"can_data_be_shared":false,"age":22}`)
	require.Equal(t, 201, rec.Code)

	// A creates a project and becomes its AUTHOR contributor.
	rec = do(e, http.MethodPost, "/projects", 1,
		`{"title":"Tracker","description":"issue tracking","type":"BACKEND"}`)
	require.Equal(t, 201, rec.Code)
	var project entity.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))

	// B cannot see the project yet.
	rec = do(e, http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), 2, "")
	assert.Equal(t, 403, rec.Code)

	// A adds B; now B can read it.
	rec = do(e, http.MethodPost, fmt.Sprintf("/projects/%d/contributors", project.ID), 1, `{"user":2}`)
	require.Equal(t, 201, rec.Code)
	rec = do(e, http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), 2, "")
	assert.Equal(t, 200, rec.Code)

	// Adding B again conflicts.
	rec = do(e, http.MethodPost, fmt.Sprintf("/projects/%d/contributors", project.ID), 1, `{"user":2}`)
	assert.Equal(t, 400, rec.Code)

	// Adding an unknown user is a validation failure, not a 404.
	rec = do(e, http.MethodPost, fmt.Sprintf("/projects/%d/contributors", project.ID), 1, `{"user":42}`)
	assert.Equal(t, 400, rec.Code)

	// B files an issue.
	rec = do(e, http.MethodPost, fmt.Sprintf("/projects/%d/issues", project.ID), 2,
		`{"title":"Crash on save","description":"boom","priority":"HIGH","tag":"BUG"}`)
	require.Equal(t, 201, rec.Code)
	var issue entity.Issue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issue))
	assert.Equal(t, "TODO", issue.Status)

	issuePath := fmt.Sprintf("/projects/%d/issues/%d", project.ID, issue.ID)

	// Only B, the issue's author, may update it. A owns the project and
	// still gets a 403.
	rec = do(e, http.MethodPatch, issuePath, 1, `{"status":"IN_PROGRESS"}`)
	assert.Equal(t, 403, rec.Code)
	rec = do(e, http.MethodPatch, issuePath, 2, `{"status":"IN_PROGRESS"}`)
	require.Equal(t, 200, rec.Code)

	// B comments; A, a contributor, can read the comment.
	rec = do(e, http.MethodPost, issuePath+"/comments", 2, `{"text":"fixing"}`)
	require.Equal(t, 201, rec.Code)
	var comment entity.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comment))
	rec = do(e, http.MethodGet, issuePath+"/comments/"+comment.UUID, 1, "")
	assert.Equal(t, 200, rec.Code)

	// The AUTHOR roster row is not removable, even by A.
	rec = do(e, http.MethodDelete, fmt.Sprintf("/projects/%d/contributors/1", project.ID), 1, "")
	assert.Equal(t, 400, rec.Code)

	// B cannot delete the project; A can, and everything under it goes away.
	rec = do(e, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), 2, "")
	assert.Equal(t, 403, rec.Code)
	rec = do(e, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), 1, "")
	require.Equal(t, 204, rec.Code)
	rec = do(e, http.MethodGet, issuePath, 2, "")
	assert.Equal(t, 404, rec.Code)
}

func TestUserSelfScope(t *testing.T) {
	e := newTestServer()

	rec := do(e, http.MethodPost, "/signup", 0,
		`{"username":"alice","email":"a@example.com","password":"pw123456","password2":"pw123456","can_be_contacted":true,"can_data_be_shared":false,"age":30}`)
	require.Equal(t, 201, rec.Code)
	rec = do(e, http.MethodPost, "/signup", 0,
		`{"username":"bob","email":"b@example.com","password":"pw123456","password2":"pw123456","can_be_contacted":false,"can_data_be_shared":false,"age":22}`)
	require.Equal(t, 201, rec.Code)

	// Reading or deleting someone else's record is forbidden.
	rec = do(e, http.MethodGet, "/users/2", 1, "")
	assert.Equal(t, 403, rec.Code)
	rec = do(e, http.MethodDelete, "/users/2", 1, "")
	assert.Equal(t, 403, rec.Code)

	rec = do(e, http.MethodGet, "/users/1", 1, "")
	assert.Equal(t, 200, rec.Code)
}

func TestSignupValidationStatus(t *testing.T) {
	e := newTestServer()

	// Underage registration is a field-level 400.
	rec := do(e, http.MethodPost, "/signup", 0,
		`{"username":"kid","email":"k@example.com","password":"pw123456","password2":"pw123456","can_be_contacted":true,"can_data_be_shared":false,"age":15}`)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "age")

	// Password mismatch likewise.
	rec = do(e, http.MethodPost, "/signup", 0,
		`{"username":"eve","email":"e@example.com","password":"pw123456","password2":"other","can_be_contacted":true,"can_data_be_shared":false,"age":20}`)
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")
}
