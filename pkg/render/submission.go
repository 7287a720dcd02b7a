package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// HiddenField represents a hidden form input emitted alongside the generated
// controls. VersionField builds the optimistic-locking field.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// VersionField constructs a hidden field used for optimistic locking.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// ParseForm parses an application/x-www-form-urlencoded body into an ordered
// Form. A name submitted more than once keeps the position of its first
// occurrence and the value of its last one, which lets a hidden "false" input
// placed before a checkbox act as the unchecked default.
func ParseForm(body string) (model.Form, error) {
	var form model.Form
	for body != "" {
		var pair string
		pair, body, _ = strings.Cut(body, "&")
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return model.Form{}, fmt.Errorf("render: parse form key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return model.Form{}, fmt.Errorf("render: parse form value for %q: %w", key, err)
		}
		form.Set(key, value)
	}
	return form, nil
}

// NormalizeSubmission reorders form to follow the encoded fields and fills in
// checkbox state: a checkbox that was not submitted becomes "false" and one
// that was submitted with any value other than "false" becomes "true".
// Entries that match no field are kept after the known ones, in their
// original order. form is not modified.
func NormalizeSubmission(form model.Form, fields []model.Field) model.Form {
	var out model.Form
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Path] = struct{}{}
		value, ok := form.Get(f.Path)
		if f.Kind == model.FieldKindCheckbox {
			out.Set(f.Path, checkboxState(value, ok))
			continue
		}
		if ok {
			out.Set(f.Path, value)
		}
	}
	for _, e := range form.Entries() {
		if _, ok := known[e.Key]; ok {
			continue
		}
		out.Set(e.Key, e.Value)
	}
	return out
}

func checkboxState(value string, submitted bool) string {
	if !submitted || strings.EqualFold(strings.TrimSpace(value), "false") {
		return "false"
	}
	return "true"
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, ok := clean[key]; !ok {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}
