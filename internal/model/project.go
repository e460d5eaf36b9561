package model

import (
	"slices"
	"time"
)

type ProjectID string

type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "COMPLETED"
	StatusInProgress ProjectStatus = "IN-PROGRESS"
	StatusPlanned    ProjectStatus = "PLANNED"
)

// ProjectStatuses is the closed set accepted by the backend, in display order.
var ProjectStatuses = []ProjectStatus{StatusCompleted, StatusInProgress, StatusPlanned}

func (s ProjectStatus) Valid() bool {
	return slices.Contains(ProjectStatuses, s)
}

type Project struct {
	ID     ProjectID `json:"id,omitempty"`
	UserID string    `json:"userId,omitempty"`

	Title           string        `json:"title"`
	Slug            string        `json:"slug,omitempty"`
	Description     string        `json:"description"`
	LongDescription string        `json:"longDescription"`
	Technologies    []string      `json:"technologies"`
	GithubURL       string        `json:"githubUrl,omitempty"`
	LiveURL         string        `json:"liveUrl,omitempty"`
	Images          []string      `json:"images"`
	Featured        bool          `json:"featured"`
	Status          ProjectStatus `json:"status"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (p Project) Clone() Project {
	p.Technologies = slices.Clone(p.Technologies)
	p.Images = slices.Clone(p.Images)
	p.StartDate = cloneTime(p.StartDate)
	p.EndDate = cloneTime(p.EndDate)
	p.CreatedAt = cloneTime(p.CreatedAt)
	p.UpdatedAt = cloneTime(p.UpdatedAt)
	return p
}

func (p Project) SearchFields() []string {
	return []string{p.Title, p.Description}
}

func (p Project) FilterStatus() string {
	return string(p.Status)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
