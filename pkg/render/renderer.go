package render

import (
	"context"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// Document is what a renderer receives: the widget name used as the path
// root, the encoder output, and the source value for diagnostics.
type Document struct {
	Name   string
	Layout model.Layout
	Source model.Value
}

// Renderer converts an encoded document into a byte representation (HTML,
// JSON collected from a terminal session, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc Document, options RenderOptions) ([]byte, error)
}
