package editor

import (
	"github.com/debemdeboas/folio/internal/form"
	"github.com/debemdeboas/folio/internal/model"
)

const (
	KindProject = "project"
	KindPost    = "post"
	KindResume  = "resume"
)

// ProjectSchema is the project schema with the default image slot count.
var ProjectSchema = NewProjectSchema(form.DefaultImageSlots)

// NewProjectSchema describes project drafts that start with imageSlots blank
// image inputs.
func NewProjectSchema(imageSlots int) *Schema[form.Project] {
	return &Schema[form.Project]{
		Kind:     KindProject,
		Empty:    func() form.Project { return form.EmptyProject(imageSlots) },
		Clone:    form.Project.Clone,
		Validate: form.ValidateProject,
		Fields: map[string]FieldSetter[form.Project]{
			"title":           Set(func(d *form.Project, v string) { d.Title = v }),
			"status":          Set(func(d *form.Project, v model.ProjectStatus) { d.Status = v }),
			"description":     Set(func(d *form.Project, v string) { d.Description = v }),
			"longDescription": Set(func(d *form.Project, v string) { d.LongDescription = v }),
			"githubUrl":       Set(func(d *form.Project, v string) { d.GithubURL = v }),
			"liveUrl":         Set(func(d *form.Project, v string) { d.LiveURL = v }),
			"technologiesStr": Set(func(d *form.Project, v string) { d.TechnologiesStr = v }),
			"images":          Set(func(d *form.Project, v []string) { d.Images = v }),
			"featured":        Set(func(d *form.Project, v bool) { d.Featured = v }),
		},
		Lists: map[string]List[form.Project]{
			"images": ListOf(func(d *form.Project) *[]string { return &d.Images }, nil),
		},
	}
}

var PostSchema = &Schema[form.Post]{
	Kind:     KindPost,
	Empty:    form.EmptyPost,
	Clone:    form.Post.Clone,
	Validate: form.ValidatePost,
	Fields: map[string]FieldSetter[form.Post]{
		"title":         Set(func(d *form.Post, v string) { d.Title = v }),
		"excerpt":       Set(func(d *form.Post, v string) { d.Excerpt = v }),
		"content":       Set(func(d *form.Post, v string) { d.Content = v }),
		"featuredImage": Set(func(d *form.Post, v string) { d.FeaturedImage = v }),
		"published":     Set(func(d *form.Post, v bool) { d.Published = v }),
		"publishedAt":   Set(func(d *form.Post, v string) { d.PublishedAt = v }),
		"tags":          Set(func(d *form.Post, v string) { d.Tags = v }),
		"readTime":      Set(func(d *form.Post, v string) { d.ReadTime = v }),
	},
}

var ResumeSchema = &Schema[model.Resume]{
	Kind:     KindResume,
	Empty:    model.DefaultResume,
	Clone:    model.Resume.Clone,
	Validate: form.ValidateResume,
	Fields: map[string]FieldSetter[model.Resume]{
		"personalInfo":          Set(func(d *model.Resume, v model.PersonalInfo) { d.PersonalInfo = v }),
		"personalInfo.name":     Set(func(d *model.Resume, v string) { d.PersonalInfo.Name = v }),
		"personalInfo.email":    Set(func(d *model.Resume, v string) { d.PersonalInfo.Email = v }),
		"personalInfo.phone":    Set(func(d *model.Resume, v string) { d.PersonalInfo.Phone = v }),
		"personalInfo.location": Set(func(d *model.Resume, v string) { d.PersonalInfo.Location = v }),
		"personalInfo.website":  Set(func(d *model.Resume, v string) { d.PersonalInfo.Website = v }),
		"personalInfo.linkedin": Set(func(d *model.Resume, v string) { d.PersonalInfo.LinkedIn = v }),
		"personalInfo.github":   Set(func(d *model.Resume, v string) { d.PersonalInfo.GitHub = v }),
		"personalInfo.summary":  Set(func(d *model.Resume, v string) { d.PersonalInfo.Summary = v }),
	},
	Lists: map[string]List[model.Resume]{
		"experience": ListOf(
			func(d *model.Resume) *[]model.Experience { return &d.Experience },
			func(e *model.Experience) *string { return &e.ID },
		),
		"education": ListOf(
			func(d *model.Resume) *[]model.Education { return &d.Education },
			func(e *model.Education) *string { return &e.ID },
		),
		"skills": ListOf(
			func(d *model.Resume) *[]model.SkillCategory { return &d.Skills },
			func(e *model.SkillCategory) *string { return &e.ID },
		),
		"certifications": ListOf(
			func(d *model.Resume) *[]model.Certification { return &d.Certifications },
			func(e *model.Certification) *string { return &e.ID },
		),
	},
}
