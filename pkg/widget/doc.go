// Package widget ties the codec to the renderers. A Widget renders a stored
// JSON document as form controls named by composite path, and turns a
// submitted flat form back into canonical JSON text.
//
//	w, err := widget.New()
//	html, err := w.Render(ctx, "profile", raw)
//	...
//	text, err := w.ValueFromRequest(r, "profile")
package widget
