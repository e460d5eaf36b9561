package model

import (
	"slices"
	"time"
)

// DefaultResumeID identifies the resume returned when nothing has been saved yet.
const DefaultResumeID = "default"

type Resume struct {
	ID             string          `json:"id"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience" validate:"min=1,dive"`
	Education      []Education     `json:"education" validate:"min=1,dive"`
	Skills         []SkillCategory `json:"skills" validate:"min=1,dive"`
	Certifications []Certification `json:"certifications" validate:"dive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type PersonalInfo struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website" validate:"omitempty,url"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
	GitHub   string `json:"github" validate:"omitempty,url"`
	Summary  string `json:"summary" validate:"notblank"`
}

type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company" validate:"notblank"`
	Position     string   `json:"position" validate:"notblank"`
	StartDate    string   `json:"startDate" validate:"notblank"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Education struct {
	ID           string   `json:"id"`
	Institution  string   `json:"institution" validate:"notblank"`
	Degree       string   `json:"degree" validate:"notblank"`
	Field        string   `json:"field"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements"`
}

type SkillCategory struct {
	ID       string   `json:"id,omitempty"`
	Category string   `json:"category" validate:"notblank"`
	Items    []string `json:"items"`
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"notblank"`
	Issuer string `json:"issuer" validate:"notblank"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty" validate:"omitempty,url"`
}

// DefaultResume is the resume shown before the first save: blank personal
// details and empty, non-nil sections.
func DefaultResume() Resume {
	return Resume{
		ID:             DefaultResumeID,
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []SkillCategory{},
		Certifications: []Certification{},
	}
}

func (r Resume) Clone() Resume {
	r.Experience = slices.Clone(r.Experience)
	for i := range r.Experience {
		r.Experience[i].Achievements = slices.Clone(r.Experience[i].Achievements)
	}
	r.Education = slices.Clone(r.Education)
	for i := range r.Education {
		r.Education[i].Achievements = slices.Clone(r.Education[i].Achievements)
	}
	r.Skills = slices.Clone(r.Skills)
	for i := range r.Skills {
		r.Skills[i].Items = slices.Clone(r.Skills[i].Items)
	}
	r.Certifications = slices.Clone(r.Certifications)
	return r
}
