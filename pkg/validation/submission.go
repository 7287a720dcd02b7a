// Package validation checks submitted form values against the control kinds
// the encoder inferred for them.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// Issue is one rejected submitted value.
type Issue struct {
	Path    string `json:"path"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes for a submission.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Payload groups the issue messages by path, the shape accepted by
// render.MapErrorPayload.
func (r Result) Payload() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	payload := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		payload[issue.Path] = append(payload[issue.Path], issue.Message)
	}
	return payload
}

// HasCheck reports whether values of kind are checked at all. Free text is
// never rejected.
func HasCheck(kind model.FieldKind) bool {
	switch kind {
	case model.FieldKindNumber, model.FieldKindFloat, model.FieldKindDate, model.FieldKindDateTime, model.FieldKindCheckbox:
		return true
	default:
		return false
	}
}

// CheckValue verifies that text can be read back as a value of kind. Empty
// text is accepted for every kind.
func CheckValue(kind model.FieldKind, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var err error
	switch kind {
	case model.FieldKindNumber:
		if _, err = strconv.ParseInt(text, 10, 64); err != nil {
			return errors.New("must be a whole number")
		}
	case model.FieldKindFloat:
		if _, err = strconv.ParseFloat(text, 64); err != nil {
			return errors.New("must be a number")
		}
	case model.FieldKindDate:
		if _, err = time.Parse(model.DateLayout, text); err != nil {
			return fmt.Errorf("must be a date (%s)", model.DateLayout)
		}
	case model.FieldKindDateTime:
		if _, err = time.Parse(model.DateTimeLayout, text); err != nil {
			return fmt.Errorf("must be a date and time (%s)", model.DateTimeLayout)
		}
	case model.FieldKindCheckbox:
		if _, err = strconv.ParseBool(text); err != nil {
			return errors.New("must be true or false")
		}
	}
	return nil
}

// ValidateSubmission checks every field of layout that form carries.
// Submitted keys the layout does not know are not checked.
func ValidateSubmission(layout model.Layout, form model.Form) Result {
	result := Result{Valid: true}
	for _, field := range layout.Fields {
		if !HasCheck(field.Kind) {
			continue
		}
		text, ok := form.Get(field.Path)
		if !ok {
			continue
		}
		if err := CheckValue(field.Kind, text); err != nil {
			result.Valid = false
			result.Issues = append(result.Issues, Issue{
				Path:    field.Path,
				Field:   field.Key,
				Message: err.Error(),
			})
		}
	}
	return result
}
