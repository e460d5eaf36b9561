// Package form holds the editable shapes of entities as a user types them,
// their validation rules and the conversions to and from the domain model.
package form

import (
	"slices"
	"strings"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/validation"
)

// DefaultImageSlots is how many image inputs a project draft carries unless
// configured otherwise.
const DefaultImageSlots = 3

// Project is a project draft. Technologies stay a single delimited string and
// images keep their blank slots until the draft is converted.
type Project struct {
	Title           string              `json:"title"`
	Status          model.ProjectStatus `json:"status"`
	Description     string              `json:"description"`
	LongDescription string              `json:"longDescription"`
	GithubURL       string              `json:"githubUrl"`
	LiveURL         string              `json:"liveUrl"`
	TechnologiesStr string              `json:"technologiesStr"`
	Images          []string            `json:"images"`
	Featured        bool                `json:"featured"`
}

func (p Project) Clone() Project {
	p.Images = slices.Clone(p.Images)
	return p
}

// EmptyProject is the draft used to create a project, with slots blank image
// inputs.
func EmptyProject(slots int) Project {
	return Project{
		Status: model.StatusPlanned,
		Images: make([]string, max(slots, 0)),
	}
}

// ProjectFromModel seeds a draft from p, or returns EmptyProject when p is nil.
// Images are trimmed, blanks dropped, then padded or truncated to slots.
func ProjectFromModel(p *model.Project, slots int) Project {
	if p == nil {
		return EmptyProject(slots)
	}

	status := p.Status
	if status == "" {
		status = model.StatusPlanned
	}

	return Project{
		Title:           p.Title,
		Status:          status,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		GithubURL:       p.GithubURL,
		LiveURL:         p.LiveURL,
		TechnologiesStr: strings.Join(p.Technologies, ", "),
		Images:          padImages(nonBlank(p.Images), slots),
		Featured:        p.Featured,
	}
}

// ToModel applies the draft on top of base. Identity fields come from base.
func (p Project) ToModel(base *model.Project) model.Project {
	var out model.Project
	if base != nil {
		out = base.Clone()
	}

	out.Title = strings.TrimSpace(p.Title)
	out.Status = p.Status
	out.Description = strings.TrimSpace(p.Description)
	out.LongDescription = strings.TrimSpace(p.LongDescription)
	out.GithubURL = strings.TrimSpace(p.GithubURL)
	out.LiveURL = strings.TrimSpace(p.LiveURL)
	out.Technologies = keepEmpty(out.Technologies, validation.SplitList(p.TechnologiesStr, validation.ListSeparator), base != nil)
	out.Images = keepEmpty(out.Images, nonBlank(p.Images), base != nil)
	out.Featured = p.Featured
	return out
}

type projectInput struct {
	Title           string   `json:"title" validate:"notblank,max=120"`
	Description     string   `json:"description" validate:"notblank,max=500"`
	LongDescription string   `json:"longDescription" validate:"notblank,max=4000"`
	GithubURL       string   `json:"githubUrl" validate:"required,max=2048,url"`
	LiveURL         string   `json:"liveUrl" validate:"omitempty,max=2048,url"`
	TechnologiesStr string   `json:"technologiesStr" validate:"notblank,list_min=1,list_item_max=30,list_max=20"`
	Images          []string `json:"images" validate:"min=1,unique,dive,max=2048,url"`
}

var projectMessages = validation.Messages{
	"title.notblank":                "Title is required",
	"title.max":                     "Keep the title under 120 characters",
	"description.notblank":          "Description is required",
	"description.max":               "Description must be 500 characters or fewer",
	"longDescription.notblank":      "Long description is required",
	"longDescription.max":           "Long description must be 4000 characters or fewer",
	"githubUrl.required":            "GitHub URL is required",
	"githubUrl.max":                 "URL is too long",
	"liveUrl.max":                   "URL is too long",
	"technologiesStr.notblank":      "Technologies are required",
	"technologiesStr.list_min":      "Technologies are required",
	"technologiesStr.list_max":      "Limit to {param} technologies",
	"technologiesStr.list_item_max": "Each technology should be at most {param} characters",
	"images.min":                    "At least one image is required",
	"images.unique":                 "Each image must be different",
	"images.max":                    "URL is too long",
}

const errProjectStatus = "Status is required"

// ValidateProject checks a draft as typed. URLs are trimmed and blank image
// slots ignored before the rules run.
func ValidateProject(p Project) validation.Result {
	in := projectInput{
		Title:           strings.TrimSpace(p.Title),
		Description:     strings.TrimSpace(p.Description),
		LongDescription: strings.TrimSpace(p.LongDescription),
		GithubURL:       strings.TrimSpace(p.GithubURL),
		LiveURL:         strings.TrimSpace(p.LiveURL),
		TechnologiesStr: p.TechnologiesStr,
		Images:          nonBlank(p.Images),
	}
	res := validation.Validate(in, projectMessages)
	if !p.Status.Valid() {
		res.Add("status", errProjectStatus)
	}
	return res
}

func nonBlank(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func padImages(images []string, slots int) []string {
	out := make([]string, max(slots, 0))
	copy(out, images)
	return out
}
