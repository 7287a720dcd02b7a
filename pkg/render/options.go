package render

import (
	theme "github.com/goliatone/go-theme"
)

// Defaults shared by renderers when RenderOptions leaves a field empty.
const (
	DefaultNewline    = "<br/>\n"
	DefaultInputClass = "form-control"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the encoded layout.
type RenderOptions struct {
	// Attrs are base attributes applied to every control (for example
	// class="form-control"). name, id, type and value are always derived
	// from the field and cannot be overridden here.
	Attrs map[string]string
	// Newline is appended to every group title. Defaults to DefaultNewline.
	Newline string
	// Debug appends a dump of the source value after the fields.
	Debug bool
	// Errors surfaces server-side feedback keyed by composite field path
	// (see MapErrorPayload).
	Errors map[string][]string
	// FormErrors are rendered once, ahead of the fields.
	FormErrors []string
	// Hidden fields are emitted ahead of the generated controls.
	Hidden []HiddenField
	// Theme carries resolved go-theme tokens. Renderers read class overrides
	// from Tokens (for example "splitjson.group.class").
	Theme *theme.RendererConfig
}

// NewlineOrDefault returns the configured newline token.
func (o RenderOptions) NewlineOrDefault() string {
	if o.Newline == "" {
		return DefaultNewline
	}
	return o.Newline
}

// ApplyErrors copies a mapped error payload into the options.
func (o *RenderOptions) ApplyErrors(mapping ErrorMapping) {
	if len(mapping.Fields) > 0 {
		if o.Errors == nil {
			o.Errors = make(map[string][]string, len(mapping.Fields))
		}
		for path, messages := range mapping.Fields {
			o.Errors[path] = append(o.Errors[path], messages...)
		}
	}
	o.FormErrors = MergeFormErrors(o.FormErrors, mapping.Form...)
}

// ThemeToken returns the named theme token, or fallback when no theme is set
// or the token is empty.
func (o RenderOptions) ThemeToken(name, fallback string) string {
	if o.Theme == nil {
		return fallback
	}
	if value := o.Theme.Tokens[name]; value != "" {
		return value
	}
	return fallback
}
