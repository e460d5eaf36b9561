// Package validation turns struct rules into a field -> message mapping.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormKey holds errors that do not belong to any single field.
const FormKey = "form"

// Result maps a field path (JSON names) to its first error message.
// An empty Result means the value is valid.
type Result map[string]string

func (r Result) Valid() bool {
	return len(r) == 0
}

// Add records msg for key unless the key already has a message.
func (r Result) Add(key, msg string) {
	if _, ok := r[key]; !ok {
		r[key] = msg
	}
}

func (r Result) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Fields returns the failing keys in sorted order.
func (r Result) Fields() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Messages overrides the default text. Lookup order is "<key>.<tag>"
// ("images.min"), then "<last segment>.<tag>" ("company.required" matches
// every experience entry), then "<tag>". "{param}" is replaced with the rule
// parameter.
type Messages map[string]string

var defaultMessages = Messages{
	"required":      "Required",
	"notblank":      "Required",
	"max":           "Must be at most {param} characters",
	"min":           "Must be at least {param} characters",
	"url":           "Must be a valid URL",
	"email":         "Must be a valid email address",
	"oneof":         "Must be one of: {param}",
	"unique":        "Duplicates are not allowed",
	"gte":           "Must be at least {param}",
	"list_max":      "At most {param} items allowed",
	"list_min":      "At least {param} item(s) required",
	"list_item_max": "Each item must be at most {param} characters",
	"flexdate":      "Must be a date (YYYY-MM-DD)",
}

const fallbackMessage = "Invalid value"

var validate = newValidator()

// Validate runs the `validate` struct rules on v. It never panics: a value the
// validator cannot inspect yields a single FormKey entry.
func Validate(v any, messages Messages) (result Result) {
	result = Result{}
	defer func() {
		if r := recover(); r != nil {
			result = Result{FormKey: fallbackMessage}
		}
	}()

	err := validate.Struct(v)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Add(FormKey, fallbackMessage)
		return result
	}

	for _, fe := range fieldErrs {
		key := fieldKey(fe.Namespace())
		result.Add(key, message(messages, key, fe.Tag(), fe.Param()))
	}
	return result
}

var trailingIndex = regexp.MustCompile(`\[\d+\]$`)
var anyIndex = regexp.MustCompile(`\[\d+\]`)

// fieldKey drops the root struct name and folds element errors of primitive
// lists onto the list itself: "Project.images[2]" -> "images".
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return trailingIndex.ReplaceAllString(namespace, "")
}

func message(messages Messages, key, tag, param string) string {
	bare := anyIndex.ReplaceAllString(key, "")
	if i := strings.LastIndexByte(bare, '.'); i >= 0 {
		bare = bare[i+1:]
	}

	candidates := []string{key + "." + tag, bare + "." + tag, tag}
	for _, c := range candidates {
		if msg, ok := messages[c]; ok {
			return strings.ReplaceAll(msg, "{param}", param)
		}
	}
	if msg, ok := defaultMessages[tag]; ok {
		return strings.ReplaceAll(msg, "{param}", param)
	}
	return fallbackMessage
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	registerRules(v)
	return v
}
