package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/util"
	"github.com/debemdeboas/folio/internal/validation"
)

// DefaultReadTime is the read time, in minutes, a new post draft starts with.
const DefaultReadTime = "10"

// Post is a blog post draft. Tags, read time and publish date are kept as typed.
type Post struct {
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	FeaturedImage string `json:"featuredImage"`
	Published     bool   `json:"published"`
	PublishedAt   string `json:"publishedAt"`
	Tags          string `json:"tags"`
	ReadTime      string `json:"readTime"`
}

func (p Post) Clone() Post {
	return p
}

func EmptyPost() Post {
	return Post{ReadTime: DefaultReadTime}
}

func PostFromModel(p *model.BlogPost) Post {
	if p == nil {
		return EmptyPost()
	}

	post := Post{
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Published:     p.Published,
		Tags:          strings.Join(p.Tags, ", "),
		ReadTime:      strconv.Itoa(p.ReadTime),
	}
	if p.PublishedAt != nil {
		post.PublishedAt = p.PublishedAt.Format(time.RFC3339Nano)
	}
	return post
}

// ToModel applies the draft on top of base. A blank read time is estimated
// from the content. A blank publish date clears it, an unparseable one keeps
// base's value. Values the draft leaves unchanged keep base's representation
// so a diff against base only carries what was edited.
func (p Post) ToModel(base *model.BlogPost) model.BlogPost {
	var out model.BlogPost
	if base != nil {
		out = base.Clone()
	}

	out.Title = strings.TrimSpace(p.Title)
	out.Excerpt = strings.TrimSpace(p.Excerpt)
	out.Content = p.Content
	out.FeaturedImage = strings.TrimSpace(p.FeaturedImage)
	out.Published = p.Published
	out.Tags = keepEmpty(out.Tags, validation.SplitList(p.Tags, validation.ListSeparator), base != nil)

	if n, err := strconv.Atoi(strings.TrimSpace(p.ReadTime)); err == nil && n >= 0 {
		out.ReadTime = n
	} else {
		out.ReadTime = util.ReadTime(p.Content)
	}

	if strings.TrimSpace(p.PublishedAt) == "" {
		out.PublishedAt = nil
	} else if t, err := validation.ParseDate(p.PublishedAt); err == nil {
		if out.PublishedAt == nil || !out.PublishedAt.Equal(t) {
			out.PublishedAt = &t
		}
	}
	return out
}

// keepEmpty returns prev instead of next when both are empty and prev came
// from a stored entity, so nil and [] do not count as an edit.
func keepEmpty(prev, next []string, fromBase bool) []string {
	if fromBase && len(prev) == 0 && len(next) == 0 {
		return prev
	}
	return next
}

type postInput struct {
	Title         string `json:"title" validate:"notblank,min=3,max=120"`
	Excerpt       string `json:"excerpt" validate:"max=300"`
	Content       string `json:"content" validate:"min=10"`
	FeaturedImage string `json:"featuredImage" validate:"omitempty,max=2048,url"`
	PublishedAt   string `json:"publishedAt" validate:"omitempty,flexdate"`
	Tags          string `json:"tags" validate:"list_item_max=30,list_max=20"`
}

var postMessages = validation.Messages{
	"title.notblank": "Title is required",
	"title.min":      "Title must be at least 3 characters",
	"title.max":      "Keep the title under 120 characters",
	"excerpt.max":    "Excerpt must be 300 characters or fewer",
	"content.min":    "Content must be at least 10 characters",
	"tags.list_max":  "Limit to {param} tags",
}

func ValidatePost(p Post) validation.Result {
	in := postInput{
		Title:         strings.TrimSpace(p.Title),
		Excerpt:       strings.TrimSpace(p.Excerpt),
		Content:       strings.TrimSpace(p.Content),
		FeaturedImage: strings.TrimSpace(p.FeaturedImage),
		PublishedAt:   strings.TrimSpace(p.PublishedAt),
		Tags:          p.Tags,
	}
	res := validation.Validate(in, postMessages)

	if rt := strings.TrimSpace(p.ReadTime); rt != "" {
		if n, err := strconv.Atoi(rt); err != nil || n < 0 {
			res.Add("readTime", "Read time must be a whole number of minutes")
		}
	}
	return res
}
