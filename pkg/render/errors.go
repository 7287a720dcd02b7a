package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// ErrRendererNotFound is returned when a registry has no renderer by the
// requested name.
var ErrRendererNotFound = errors.New("render: renderer not found")

// ErrorMapping splits an error payload into field-level messages keyed by
// composite path and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload attaches validation messages to the fields of an encoded
// layout. Payload keys may be composite paths ("f__b__0"), JSON pointers
// ("/b/0") or dotted paths ("b.0", "b[0]"), optionally nested under request
// wrappers such as "body" or "data". Each key maps to the deepest field or
// group path it reaches; keys reaching nothing become form-level errors.
func MapErrorPayload(layout model.Layout, sep string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	known := collectLayoutPaths(layout)

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		mapped := mapErrorPath(layout.Root, sep, rawPath, known)
		if mapped == "" {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(root, sep, raw string, known map[string]struct{}) string {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return ""
	}
	if _, ok := known[trimmed]; ok {
		return trimmed
	}
	if sep != "" && strings.HasPrefix(trimmed, root+sep) {
		if path := longestMatchingPath(root, sep, strings.Split(trimmed[len(root)+len(sep):], sep), known); path != "" {
			return path
		}
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return ""
	}
	if path := longestMatchingPath(root, sep, segments, known); path != "" {
		return path
	}
	return longestMatchingPath(root, sep, dropWrapperSegments(segments), known)
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func longestMatchingPath(root, sep string, segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := root + sep + strings.Join(segments[:end], sep)
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func collectLayoutPaths(layout model.Layout) map[string]struct{} {
	known := make(map[string]struct{}, len(layout.Fields))
	layout.Walk(func(_ int, g *model.Group) {
		if g.Path != layout.Root {
			known[g.Path] = struct{}{}
		}
	}, nil, func(_ int, f model.Field) {
		known[f.Path] = struct{}{}
	})
	return known
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
