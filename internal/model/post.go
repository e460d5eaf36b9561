// Package model defines the portfolio entities exchanged with the backend.
package model

import (
	"slices"
	"time"
)

type PostID string

const (
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

type BlogPost struct {
	ID PostID `json:"id,omitempty"`

	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`

	AuthorID string `json:"authorId,omitempty"`
	Author   *User  `json:"author,omitempty"`

	Tags     []string `json:"tags"`
	ReadTime int      `json:"readTime"`
	Views    int      `json:"views"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p BlogPost) Clone() BlogPost {
	p.Tags = slices.Clone(p.Tags)
	p.PublishedAt = cloneTime(p.PublishedAt)
	if p.Author != nil {
		author := *p.Author
		p.Author = &author
	}
	return p
}

func (p BlogPost) SearchFields() []string {
	return []string{p.Title, p.Excerpt}
}

func (p BlogPost) FilterStatus() string {
	if p.Published {
		return PostStatusPublished
	}
	return PostStatusDraft
}
