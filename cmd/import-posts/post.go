package main

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/util"
)

// postFromFile builds a draft and its slug from a markdown file. Front matter
// is optional: without it the file name is the title and the whole file the
// content. Published posts without a date use modTime.
func postFromFile(name string, content []byte, modTime time.Time) (form.Post, string, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	meta, body, err := util.FrontMatter(content)
	switch {
	case errors.Is(err, util.ErrNoFrontMatter):
		meta, body = &util.PostMeta{}, content
	case err != nil:
		return form.Post{}, "", err
	}

	draft := form.EmptyPost()
	draft.Title = meta.Title
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = base
	}
	draft.Excerpt = meta.Excerpt
	draft.Content = string(body)
	draft.FeaturedImage = meta.FeaturedImage
	draft.Published = meta.Published
	draft.Tags = strings.Join(meta.Tags, ", ")

	draft.ReadTime = ""
	if meta.ReadTime > 0 {
		draft.ReadTime = strconv.Itoa(meta.ReadTime)
	}

	date := meta.Date
	if date.IsZero() && meta.Published {
		date = modTime
	}
	if !date.IsZero() {
		draft.PublishedAt = date.UTC().Format(time.RFC3339)
	}

	slug := meta.Slug
	if slug == "" {
		slug = base
	}
	return draft, slug, nil
}
