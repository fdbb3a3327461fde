package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/model"
)

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ListProjects lists the caller's projects filtered by status, in server order.
func (c *Client) ListProjects(ctx context.Context, token, statusFilter string) ([]model.Project, error) {
	env, err := c.postForm(ctx, OpListProjects, listProjectsPath, token, map[string]string{"statusFilter": statusFilter})
	if err != nil {
		return nil, err
	}
	if err := requireResult(OpListProjects, env); err != nil {
		return nil, err
	}

	items, err := listField(OpListProjects, env.Result, "projects")
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(items))
	for _, item := range items {
		project, err := decodeProject(OpListProjects, item)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, input model.ProjectInput) (model.Project, error) {
	env, err := c.postJSON(ctx, OpCreateProject, createProjectPath, token, input)
	if err != nil {
		return model.Project{}, err
	}
	return projectResult(OpCreateProject, env)
}

func (c *Client) EditProject(ctx context.Context, token, projectID string, patch model.ProjectPatch) (model.Project, error) {
	env, err := c.postJSON(ctx, OpEditProject, editProjectPath+url.PathEscape(projectID), token, patch)
	if err != nil {
		return model.Project{}, err
	}
	return projectResult(OpEditProject, env)
}

// ChangeProjectStatus sets a project's status. Status model.ProjectDeleted is
// how the service deletes projects. The response body is not inspected.
func (c *Client) ChangeProjectStatus(ctx context.Context, token, projectID, status string) error {
	_, err := c.postJSON(ctx, OpChangeProjectStatus, changeProjectStatusPath+url.PathEscape(projectID), token, changeStatusRequest{Status: status})
	return err
}

func projectResult(op string, env envelope) (model.Project, error) {
	if err := requireResult(op, env); err != nil {
		return model.Project{}, err
	}
	return decodeProject(op, unwrapEntity(env.Result, "project"))
}

func decodeProject(op string, raw json.RawMessage) (model.Project, error) {
	var project model.Project
	if err := json.Unmarshal(raw, &project); err != nil {
		return model.Project{}, apperrors.MalformedError("decode project", err).WithField("operation", op)
	}
	if project.ID == "" {
		project.ID = documentID(raw)
	}
	if project.ID == "" {
		return model.Project{}, apperrors.MalformedError("project has no id", nil).WithField("operation", op)
	}
	return project, nil
}
