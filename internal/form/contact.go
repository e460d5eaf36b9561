package form

import (
	"strings"

	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/validation"
)

// Contact is a submission of the public contact form.
type Contact struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Email   string `json:"email" validate:"notblank,email,max=254"`
	Subject string `json:"subject" validate:"notblank,max=200"`
	Message string `json:"message" validate:"notblank,max=5000"`
}

var contactMessages = validation.Messages{
	"name.notblank":    "Name is required",
	"email.notblank":   "Email is required",
	"email.email":      "Enter a valid email address",
	"subject.notblank": "Subject is required",
	"message.notblank": "Message is required",
	"message.max":      "Message must be {param} characters or fewer",
}

func ValidateContact(c Contact) validation.Result {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	return validation.Validate(c, contactMessages)
}

func (c Contact) ToModel() model.ContactMessage {
	return model.ContactMessage{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Subject: strings.TrimSpace(c.Subject),
		Message: c.Message,
	}
}
