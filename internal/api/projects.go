package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
)

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	return listSnapshot[model.Project](ctx, c, config.TagProjects, config.APIProjectsPath)
}

func (c *Client) GetProject(ctx context.Context, id model.ProjectID) (*model.Project, error) {
	project, err := get(ctx, c, config.APIProjectsPath+"/"+url.PathEscape(string(id)), decodeEntity[model.Project])
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, project model.Project) Result {
	return c.mutate(ctx, http.MethodPost, config.APIProjectsPath, config.TagProjects, project)
}

func (c *Client) UpdateProject(ctx context.Context, id model.ProjectID, patch Patch) Result {
	return c.mutate(ctx, http.MethodPatch, config.APIProjectsPath+"/"+url.PathEscape(string(id)), config.TagProjects, patch)
}

func (c *Client) DeleteProject(ctx context.Context, id model.ProjectID) Result {
	return c.mutate(ctx, http.MethodDelete, config.APIProjectsPath+"/"+url.PathEscape(string(id)), config.TagProjects, nil)
}
