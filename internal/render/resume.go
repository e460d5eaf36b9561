package render

import (
	"strings"

	"github.com/debemdeboas/folio/internal/model"
)

// ResumeText lays the resume out as plain text, one section per heading.
// Blank optional details are left out rather than printed empty.
func ResumeText(r model.Resume) string {
	var b strings.Builder
	info := r.PersonalInfo

	line(&b, info.Name)
	line(&b, joinNonBlank(" | ", info.Email, info.Phone))
	line(&b, info.Location)
	line(&b, joinNonBlank(" | ", info.Website, info.LinkedIn, info.GitHub))
	b.WriteString("\n")

	b.WriteString("SUMMARY\n")
	line(&b, info.Summary)
	b.WriteString("\n")

	b.WriteString("EXPERIENCE\n")
	for _, exp := range r.Experience {
		line(&b, exp.Position+" at "+exp.Company)
		end := exp.EndDate
		if exp.Current {
			end = "Present"
		}
		line(&b, joinNonBlank(" - ", exp.StartDate, end))
		line(&b, exp.Description)
		bullets(&b, exp.Achievements)
		b.WriteString("\n")
	}

	b.WriteString("EDUCATION\n")
	for _, edu := range r.Education {
		line(&b, joinNonBlank(" in ", edu.Degree, edu.Field))
		line(&b, joinNonBlank(", ", edu.Institution, joinNonBlank(" - ", edu.StartDate, edu.EndDate)))
		if edu.GPA != "" {
			line(&b, "GPA: "+edu.GPA)
		}
		bullets(&b, edu.Achievements)
		b.WriteString("\n")
	}

	b.WriteString("SKILLS\n")
	for _, group := range r.Skills {
		line(&b, group.Category+": "+strings.Join(group.Items, ", "))
	}

	if len(r.Certifications) > 0 {
		b.WriteString("\nCERTIFICATIONS\n")
		for _, cert := range r.Certifications {
			line(&b, joinNonBlank(", ", cert.Name, cert.Issuer, cert.Date))
		}
	}
	return b.String()
}

func line(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.WriteString(s)
		b.WriteByte('\n')
	}
}

func bullets(b *strings.Builder, items []string) {
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			line(b, "- "+item)
		}
	}
}

func joinNonBlank(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
