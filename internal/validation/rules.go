package validation

import (
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ListSeparator splits delimited-list fields such as technologies and tags.
const ListSeparator = ","

// DateLayouts are accepted by the flexdate rule, in order.
var DateLayouts = []string{time.RFC3339, time.DateOnly}

func registerRules(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("list_max", listMax)
	_ = v.RegisterValidation("list_min", listMin)
	_ = v.RegisterValidation("list_item_max", listItemMax)
	_ = v.RegisterValidation("flexdate", flexDate)
}

// SplitList splits s on sep, trims each item and drops empties. Order is kept.
func SplitList(s, sep string) []string {
	items := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func listItems(fl validator.FieldLevel) ([]string, bool) {
	if fl.Field().Kind() != reflect.String {
		return nil, false
	}
	return SplitList(fl.Field().String(), ListSeparator), true
}

func intParam(fl validator.FieldLevel) (int, bool) {
	n, err := strconv.Atoi(fl.Param())
	return n, err == nil
}

func listMax(fl validator.FieldLevel) bool {
	items, ok := listItems(fl)
	n, okParam := intParam(fl)
	return ok && okParam && len(items) <= n
}

func listMin(fl validator.FieldLevel) bool {
	items, ok := listItems(fl)
	n, okParam := intParam(fl)
	return ok && okParam && len(items) >= n
}

func listItemMax(fl validator.FieldLevel) bool {
	items, ok := listItems(fl)
	n, okParam := intParam(fl)
	if !ok || !okParam {
		return false
	}
	for _, item := range items {
		if utf8.RuneCountInString(item) > n {
			return false
		}
	}
	return true
}

func flexDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
