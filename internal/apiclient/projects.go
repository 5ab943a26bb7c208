package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/admin-copilot/copilot-go/internal/models"
)

func (c *Client) ListProjects(ctx context.Context) (models.Paginated[models.Project], error) {
	var page models.Paginated[models.Project]
	err := c.getJSON(ctx, "/api/projects/", &page)
	if err != nil {
		return models.Paginated[models.Project]{}, err
	}
	return page, nil
}

func (c *Client) CreateProject(ctx context.Context, name string, description string) (models.Project, error) {
	var project models.Project
	err := c.sendJSON(ctx, http.MethodPost, "/api/projects/", map[string]string{"name": name, "description": description}, &project)
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (c *Client) GetProject(ctx context.Context, projectID int) (models.Project, error) {
	var project models.Project
	err := c.getJSON(ctx, fmt.Sprintf("/api/projects/%d/", projectID), &project)
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// UpdateProject patches only the provided fields.
func (c *Client) UpdateProject(ctx context.Context, projectID int, fields map[string]string) (models.Project, error) {
	var project models.Project
	err := c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/projects/%d/", projectID), fields, &project)
	if err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d/", projectID))
}

func (c *Client) SendProjectInvite(ctx context.Context, projectID int, email string, role string) (models.ProjectMembership, error) {
	var membership models.ProjectMembership
	err := c.sendJSON(
		ctx,
		http.MethodPost,
		"/api/projects/memberships/",
		map[string]any{"project_id": projectID, "email": email, "role": role},
		&membership,
	)
	if err != nil {
		return models.ProjectMembership{}, err
	}
	return membership, nil
}

func (c *Client) GetProjectActivities(ctx context.Context, projectID int) ([]models.ProjectActivity, error) {
	var activities []models.ProjectActivity
	err := c.getJSON(ctx, fmt.Sprintf("/api/projects/dashboard/%d/", projectID), &activities)
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (c *Client) LogProjectActivity(ctx context.Context, membershipID int, description string) (models.ProjectActivity, error) {
	var activity models.ProjectActivity
	err := c.sendJSON(
		ctx,
		http.MethodPost,
		"/api/project-activities/",
		map[string]any{"membership": membershipID, "description": description},
		&activity,
	)
	if err != nil {
		return models.ProjectActivity{}, err
	}
	return activity, nil
}

func (c *Client) DeleteProjectActivity(ctx context.Context, activityID int) error {
	return c.delete(ctx, fmt.Sprintf("/api/project-activities/%d/", activityID))
}

func (c *Client) GetProjectMembers(ctx context.Context, projectID int) ([]models.ProjectMembership, error) {
	var members []models.ProjectMembership
	err := c.getJSON(ctx, fmt.Sprintf("/api/projects/%d/members/", projectID), &members)
	if err != nil {
		return nil, err
	}
	return members, nil
}
