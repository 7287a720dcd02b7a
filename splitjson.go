// Package splitjson renders JSON documents as flat HTML form controls whose
// names are composite paths, and rebuilds the document from the submitted
// name/value pairs.
package splitjson

import (
	"context"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

// Value is an ordered JSON document.
type Value = model.Value

// Form is an ordered list of submitted name/value pairs.
type Form = model.Form

// Layout is the encoder output.
type Layout = model.Layout

// RenderOptions describes per-request rendering overrides.
type RenderOptions = render.RenderOptions

// Widget renders documents and decodes submissions.
type Widget = widget.Widget

// Separator joins path segments unless a codec overrides it.
const Separator = codec.DefaultSeparator

// Encode flattens value into fields rooted at root using the default codec.
func Encode(root string, value Value) Layout {
	return codec.Encode(root, value)
}

// Decode rebuilds the document stored under root from form using the default
// codec. Entries outside root are ignored.
func Decode(root string, form Form) Value {
	return codec.Decode(root, form)
}

// ParseJSON parses text into an ordered Value.
func ParseJSON(data []byte) (Value, error) {
	return model.ParseJSON(data)
}

// NewWidget constructs a Widget; see the widget package for options.
func NewWidget(options ...widget.Option) (*Widget, error) {
	return widget.New(options...)
}

// RenderHTML renders raw JSON text as HTML controls named under name. Invalid
// or empty input renders as an empty object.
func RenderHTML(ctx context.Context, name string, raw []byte, options ...widget.Option) ([]byte, error) {
	w, err := widget.New(options...)
	if err != nil {
		return nil, err
	}
	return w.Render(ctx, name, raw)
}
