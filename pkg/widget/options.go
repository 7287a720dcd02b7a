package widget

import (
	"log"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/render"
)

const defaultRendererName = "vanilla"

// Option customises the widget configuration.
type Option func(*Widget)

// WithCodec overrides the codec (separator, textarea threshold).
func WithCodec(c *codec.Codec) Option {
	return func(w *Widget) {
		if c != nil {
			w.codec = c
		}
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(w *Widget) {
		w.registry = registry
	}
}

// WithRenderer registers an additional renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(w *Widget) {
		if renderer != nil {
			w.extra = append(w.extra, renderer)
		}
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(w *Widget) {
		w.defaultRenderer = name
	}
}

// WithAttrs sets the base attributes applied to every control.
func WithAttrs(attrs map[string]string) Option {
	return func(w *Widget) {
		if len(attrs) == 0 {
			return
		}
		if w.attrs == nil {
			w.attrs = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			w.attrs[k] = v
		}
	}
}

// WithNewline sets the token appended to group titles.
func WithNewline(newline string) Option {
	return func(w *Widget) {
		w.newline = newline
	}
}

// WithDebug appends a dump of the source value to rendered output.
func WithDebug(debug bool) Option {
	return func(w *Widget) {
		w.debug = debug
	}
}

// WithTheme passes resolved theme tokens to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(w *Widget) {
		w.theme = cfg
	}
}

// WithTransformer registers a Transformer that runs on the parsed value
// before it is encoded.
func WithTransformer(t Transformer) Option {
	return func(w *Widget) {
		w.transformer = t
	}
}

// WithLogger reports recovered input problems, such as a stored value that is
// not valid JSON and renders as an empty object.
func WithLogger(logger *log.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}
