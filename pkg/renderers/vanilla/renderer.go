package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	rendertemplate "github.com/goliatone/go-splitjson/pkg/render/template"
	gotemplate "github.com/goliatone/go-splitjson/pkg/render/template/gotemplate"
)

// Theme tokens read from RenderOptions.Theme.
const (
	TokenGroupClass    = "splitjson.group.class"
	TokenInputClass    = "splitjson.input.class"
	TokenCheckboxClass = "splitjson.checkbox.class"
	TokenErrorClass    = "splitjson.error.class"
)

// Default classes used when neither attrs nor theme tokens supply one.
const (
	DefaultGroupClass = "form-group"
	DefaultErrorClass = "invalid-feedback"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	sanitizer        *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to caller supplied newline
// tokens.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// NewlinePolicy is the default sanitizer policy: line-level markup only.
func NewlinePolicy() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("br", "hr", "p", "span", "strong", "em")
	policy.AllowAttrs("class").OnElements("span", "p")
	return policy
}

// Renderer writes an encoded document as HTML form controls, one labelled
// control per field, nested groups wrapped in form-group blocks.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
	dumper    *spew.ConfigState
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = NewlinePolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		sanitizer: cfg.sanitizer,
		dumper: &spew.ConfigState{
			Indent:                  "  ",
			SortKeys:                true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		},
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := r.newState(doc.Layout, options)
	body, err := state.node(doc.Layout.Tree, true)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"hidden":      hiddenFields(options.Hidden),
		"form_errors": stringsToAny(options.FormErrors),
		"error_class": state.errorClass,
		"body":        body,
		"debug":       options.Debug,
	}
	if options.Debug {
		data["dump"] = r.dumper.Sdump(doc.Source.Interface())
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type renderState struct {
	r          *Renderer
	layout     model.Layout
	options    render.RenderOptions
	newline    string
	groupClass string
	errorClass string
	inputClass string
}

func (r *Renderer) newState(layout model.Layout, options render.RenderOptions) *renderState {
	newline := render.DefaultNewline
	if options.Newline != "" {
		newline = r.sanitizer.Sanitize(options.Newline)
	}

	inputClass, ok := options.Attrs["class"]
	if !ok {
		inputClass = options.ThemeToken(TokenInputClass, render.DefaultInputClass)
	}

	return &renderState{
		r:          r,
		layout:     layout,
		options:    options,
		newline:    newline,
		groupClass: options.ThemeToken(TokenGroupClass, DefaultGroupClass),
		errorClass: options.ThemeToken(TokenErrorClass, DefaultErrorClass),
		inputClass: inputClass,
	}
}

// node renders one tree node. The outermost group is emitted without a
// wrapper; every title, leaf and nested group gets its own.
func (s *renderState) node(n model.Node, top bool) (string, error) {
	if !n.IsGroup() {
		if n.Field < 0 || n.Field >= len(s.layout.Fields) {
			return "", nil
		}
		control, err := s.field(s.layout.Fields[n.Field])
		if err != nil {
			return "", err
		}
		return s.wrap(control)
	}

	var b strings.Builder

	title, err := s.r.templates.RenderTemplate("templates/title.tmpl", map[string]any{
		"title":   n.Group.Title,
		"newline": s.newline,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render title %q: %w", n.Group.Path, err)
	}
	wrapped, err := s.wrap(title)
	if err != nil {
		return "", err
	}
	b.WriteString(wrapped)

	for _, child := range n.Group.Children {
		out, err := s.node(child, false)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}

	if top {
		return b.String(), nil
	}
	return s.wrap(b.String())
}

func (s *renderState) wrap(body string) (string, error) {
	out, err := s.r.templates.RenderTemplate("templates/group.tmpl", map[string]any{
		"class": s.groupClass,
		"body":  body,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render group: %w", err)
	}
	return out, nil
}

func (s *renderState) field(f model.Field) (string, error) {
	data := map[string]any{
		"field": map[string]any{
			"id":       f.Path,
			"label":    f.Key,
			"value":    f.Text(),
			"textarea": f.Kind == model.FieldKindTextArea,
			"checkbox": f.Kind == model.FieldKindCheckbox,
			"attrs":    s.attrs(f),
			"errors":   stringsToAny(s.options.Errors[f.Path]),
		},
		"error_class": s.errorClass,
	}

	out, err := s.r.templates.RenderTemplate("templates/field.tmpl", data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render field %q: %w", f.Path, err)
	}
	return out, nil
}

var reservedAttrs = map[string]struct{}{
	"id": {}, "name": {}, "type": {}, "value": {}, "step": {}, "checked": {}, "class": {},
}

// attrs returns the control attributes in output order: derived attributes
// first, then the caller's base attributes sorted by name.
func (s *renderState) attrs(f model.Field) []any {
	out := []any{attr("id", f.Path), attr("name", f.Path)}

	switch f.Kind {
	case model.FieldKindTextArea:
	case model.FieldKindNumber:
		out = append(out, attr("type", "number"), attr("value", f.Text()))
	case model.FieldKindFloat:
		out = append(out, attr("type", "number"), attr("step", "0.01"), attr("value", f.Text()))
	case model.FieldKindDate:
		out = append(out, attr("type", "date"), attr("value", f.Text()))
	case model.FieldKindDateTime:
		out = append(out, attr("type", "datetime-local"), attr("value", f.Text()))
	case model.FieldKindCheckbox:
		out = append(out, attr("type", "checkbox"), attr("value", "true"))
		if f.Checked() {
			out = append(out, attr("checked", "checked"))
		}
	default:
		out = append(out, attr("type", "text"), attr("value", f.Text()))
	}

	if class := s.classFor(f.Kind); class != "" {
		out = append(out, attr("class", class))
	}

	names := make([]string, 0, len(s.options.Attrs))
	for name := range s.options.Attrs {
		if _, reserved := reservedAttrs[strings.ToLower(name)]; reserved {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, attr(name, s.options.Attrs[name]))
	}
	return out
}

// classFor drops the generic input class from checkboxes and tags them with
// the kind's style tag instead.
func (s *renderState) classFor(kind model.FieldKind) string {
	if kind != model.FieldKindCheckbox {
		return s.inputClass
	}
	if class := s.options.ThemeToken(TokenCheckboxClass, ""); class != "" {
		return class
	}

	drop := map[string]struct{}{render.DefaultInputClass: {}}
	for _, token := range strings.Fields(s.options.ThemeToken(TokenInputClass, "")) {
		drop[token] = struct{}{}
	}

	var keep []string
	for _, token := range strings.Fields(s.inputClass) {
		if _, ok := drop[token]; ok {
			continue
		}
		keep = append(keep, token)
	}
	if tag := kind.StyleTag(); tag != "" {
		keep = append(keep, tag)
	}
	return strings.Join(keep, " ")
}

func attr(name, value string) map[string]any {
	return map[string]any{"name": name, "value": value}
}

func hiddenFields(fields []render.HiddenField) []any {
	out := make([]any, 0, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func stringsToAny(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}
