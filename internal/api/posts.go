package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
)

func (c *Client) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	return listSnapshot[model.BlogPost](ctx, c, config.TagPosts, config.APIPostsPath)
}

func (c *Client) GetPost(ctx context.Context, slug string) (*model.BlogPost, error) {
	post, err := get(ctx, c, config.APIPostsPath+"/"+url.PathEscape(slug), decodeEntity[model.BlogPost])
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, post model.BlogPost) Result {
	return c.mutate(ctx, http.MethodPost, config.APIPostsPath, config.TagPosts, post)
}

func (c *Client) UpdatePost(ctx context.Context, id model.PostID, patch Patch) Result {
	return c.mutate(ctx, http.MethodPatch, config.APIPostsPath+"/"+url.PathEscape(string(id)), config.TagPosts, patch)
}

func (c *Client) DeletePost(ctx context.Context, id model.PostID) Result {
	return c.mutate(ctx, http.MethodDelete, config.APIPostsPath+"/"+url.PathEscape(string(id)), config.TagPosts, nil)
}
