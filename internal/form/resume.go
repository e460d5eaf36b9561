package form

import (
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/validation"
)

var resumeMessages = validation.Messages{
	"personalInfo.name.notblank":    "Name is required",
	"personalInfo.email.notblank":   "Email is required",
	"personalInfo.email.email":      "Enter a valid email address",
	"personalInfo.summary.notblank": "Professional summary is required",
	"experience.min":                "At least one work experience is required",
	"education.min":                 "At least one education entry is required",
	"skills.min":                    "At least one skill category is required",
	"startDate.notblank":            "Start date is required",
	"company.notblank":              "Company is required",
	"position.notblank":             "Position is required",
	"institution.notblank":          "Institution is required",
	"degree.notblank":               "Degree is required",
	"category.notblank":             "Category is required",
	"name.notblank":                 "Name is required",
	"issuer.notblank":               "Issuer is required",
}

// ValidateResume checks the rules declared on model.Resume. A resume needs
// contact details, a summary and at least one entry in each of experience,
// education and skills.
func ValidateResume(r model.Resume) validation.Result {
	return validation.Validate(r, resumeMessages)
}
