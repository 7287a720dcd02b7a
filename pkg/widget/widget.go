package widget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/renderers/vanilla"
)

// MaxBodyBytes bounds how much of a request body ValueFromRequest reads.
const MaxBodyBytes = 10 << 20

// Widget renders JSON documents as split form controls and decodes the
// submissions. A Widget is safe for concurrent use once constructed.
type Widget struct {
	codec           *codec.Codec
	registry        *render.Registry
	extra           []render.Renderer
	defaultRenderer string
	attrs           map[string]string
	newline         string
	debug           bool
	theme           *theme.RendererConfig
	transformer     Transformer
	logger          *log.Logger
}

// New constructs a Widget. Without options it uses the default codec and
// renders HTML through the vanilla renderer.
func New(options ...Option) (*Widget, error) {
	w := &Widget{
		codec:           codec.New(),
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}

	if w.registry == nil {
		w.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("widget: default renderer: %w", err)
		}
		if err := w.registry.Register(renderer); err != nil {
			return nil, fmt.Errorf("widget: register default renderer: %w", err)
		}
	}
	for _, renderer := range w.extra {
		if err := w.registry.Register(renderer); err != nil {
			return nil, fmt.Errorf("widget: register renderer: %w", err)
		}
	}
	if w.attrs == nil {
		w.attrs = map[string]string{"class": render.DefaultInputClass}
	}
	return w, nil
}

// Codec returns the codec in use.
func (w *Widget) Codec() *codec.Codec {
	return w.codec
}

// Request describes one render.
type Request struct {
	// Name is the form field name and the root of every composite path.
	Name string
	// Raw is the stored JSON text. Ignored when Value is set.
	Raw []byte
	// Value bypasses parsing.
	Value *model.Value
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string
	// RenderOptions are merged over the widget defaults.
	RenderOptions render.RenderOptions
}

// Render parses raw and renders it with the default renderer. Input that is
// empty, null or not valid JSON renders as an empty object.
func (w *Widget) Render(ctx context.Context, name string, raw []byte) ([]byte, error) {
	return w.Generate(ctx, Request{Name: name, Raw: raw})
}

// RenderValue renders an already parsed value.
func (w *Widget) RenderValue(ctx context.Context, name string, value model.Value) ([]byte, error) {
	return w.Generate(ctx, Request{Name: name, Value: &value})
}

// Generate runs parse, transform, encode and render for req.
func (w *Widget) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("widget: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, errors.New("widget: name is required")
	}

	value := w.valueFor(req)
	if w.transformer != nil {
		if err := w.transformer.Transform(ctx, &value); err != nil {
			return nil, fmt.Errorf("widget: transform value: %w", err)
		}
	}

	renderer, err := w.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	doc := render.Document{
		Name:   req.Name,
		Layout: w.codec.Encode(req.Name, value),
		Source: value,
	}
	output, err := renderer.Render(ctx, doc, w.options(req.RenderOptions))
	if err != nil {
		return nil, fmt.Errorf("widget: render output: %w", err)
	}
	return output, nil
}

// Layout returns the encoded layout of raw under name, applying the same
// empty-object fallback as Render.
func (w *Widget) Layout(name string, raw []byte) model.Layout {
	return w.codec.Encode(name, w.valueFor(Request{Name: name, Raw: raw}))
}

// MapErrors maps a validation payload onto the fields of the layout.
func (w *Widget) MapErrors(layout model.Layout, payload map[string][]string) render.ErrorMapping {
	return render.MapErrorPayload(layout, w.codec.Separator(), payload)
}

// ValueFromForm decodes the entries of form under name and returns the
// document as canonical JSON text.
func (w *Widget) ValueFromForm(name string, form model.Form) (string, error) {
	value := w.codec.Decode(name, form)
	payload, err := value.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("widget: encode value: %w", err)
	}
	return string(payload), nil
}

// ValueFromRequest reads the submission carried by r and decodes it under
// name. URL-encoded bodies and query strings keep submission order;
// multipart values are ordered by key.
func (w *Widget) ValueFromRequest(r *http.Request, name string) (string, error) {
	form, err := FormFromRequest(r)
	if err != nil {
		return "", err
	}
	return w.ValueFromForm(name, form)
}

// FormFromRequest extracts the flat submission from r in the order it was
// posted. A name sent more than once keeps its first position and its last
// value. File parts are skipped. The body is restored so later handlers can
// read it again.
func FormFromRequest(r *http.Request) (model.Form, error) {
	if r == nil {
		return model.Form{}, errors.New("widget: request is nil")
	}

	mediaType := ""
	var params map[string]string
	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, p, err := mime.ParseMediaType(ct)
		if err != nil {
			return model.Form{}, fmt.Errorf("widget: parse content type: %w", err)
		}
		mediaType, params = parsed, p
	}

	hasBody := r.Body != nil && r.Body != http.NoBody
	switch {
	case hasBody && mediaType == "multipart/form-data":
		body, err := readBody(r)
		if err != nil {
			return model.Form{}, err
		}
		return parseMultipart(body, params["boundary"])
	case hasBody && (mediaType == "application/x-www-form-urlencoded" || mediaType == ""):
		body, err := readBody(r)
		if err != nil {
			return model.Form{}, err
		}
		if len(body) > 0 {
			return render.ParseForm(string(body))
		}
	}

	if r.URL == nil {
		return model.Form{}, nil
	}
	return render.ParseForm(r.URL.RawQuery)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("widget: read body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func parseMultipart(body []byte, boundary string) (model.Form, error) {
	if boundary == "" {
		return model.Form{}, errors.New("widget: multipart boundary is missing")
	}
	var form model.Form
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return model.Form{}, fmt.Errorf("widget: read multipart part: %w", err)
		}
		name := part.FormName()
		if name == "" || part.FileName() != "" {
			_ = part.Close()
			continue
		}
		value, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return model.Form{}, fmt.Errorf("widget: read multipart value %q: %w", name, err)
		}
		form.Set(name, string(value))
	}
}

func (w *Widget) valueFor(req Request) model.Value {
	if req.Value != nil {
		if req.Value.IsNull() {
			return model.Object()
		}
		return *req.Value
	}
	if len(bytes.TrimSpace(req.Raw)) == 0 {
		return model.Object()
	}
	value, err := model.ParseJSON(req.Raw)
	if err != nil {
		w.logf("splitjson: widget %q: invalid value, rendering {}: %v", req.Name, err)
		return model.Object()
	}
	if value.IsNull() {
		return model.Object()
	}
	return value
}

func (w *Widget) options(req render.RenderOptions) render.RenderOptions {
	out := req
	attrs := make(map[string]string, len(w.attrs)+len(req.Attrs))
	for k, v := range w.attrs {
		attrs[k] = v
	}
	for k, v := range req.Attrs {
		attrs[k] = v
	}
	out.Attrs = attrs
	if out.Newline == "" {
		out.Newline = w.newline
	}
	if w.debug {
		out.Debug = true
	}
	if out.Theme == nil {
		out.Theme = w.theme
	}
	return out
}

func (w *Widget) rendererFor(name string) (render.Renderer, error) {
	if name != "" {
		renderer, err := w.registry.Get(name)
		if err != nil {
			return nil, fmt.Errorf("widget: renderer %q: %w", name, err)
		}
		return renderer, nil
	}
	if renderer, err := w.registry.Get(w.defaultRenderer); err == nil {
		return renderer, nil
	}
	renderer, err := w.registry.Resolve("")
	if err != nil {
		return nil, fmt.Errorf("widget: default renderer: %w", err)
	}
	return renderer, nil
}

func (w *Widget) logf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Printf(format, args...)
}
