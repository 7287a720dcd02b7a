package widget_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

type captureRenderer struct {
	doc     render.Document
	options render.RenderOptions
}

func (c *captureRenderer) Name() string        { return "capture" }
func (c *captureRenderer) ContentType() string { return "text/plain" }
func (c *captureRenderer) Render(_ context.Context, doc render.Document, options render.RenderOptions) ([]byte, error) {
	c.doc = doc
	c.options = options
	return []byte("captured"), nil
}

func mustWidget(t *testing.T, options ...widget.Option) *widget.Widget {
	t.Helper()
	w, err := widget.New(options...)
	if err != nil {
		t.Fatalf("new widget: %v", err)
	}
	return w
}

func TestRender_InvalidInputFallsBackToEmptyObject(t *testing.T) {
	var logs bytes.Buffer
	w := mustWidget(t, widget.WithLogger(log.New(&logs, "", 0)))
	ctx := context.Background()

	want, err := w.Render(ctx, "f", []byte("{}"))
	if err != nil {
		t.Fatalf("render {}: %v", err)
	}

	for _, raw := range []string{"", "   ", "null", "{not json", "[1,"} {
		got, err := w.Render(ctx, "f", []byte(raw))
		if err != nil {
			t.Fatalf("render %q: %v", raw, err)
		}
		if diff := cmp.Diff(string(want), string(got)); diff != "" {
			t.Fatalf("render %q mismatch (-want +got):\n%s", raw, diff)
		}
	}

	if !strings.Contains(logs.String(), `widget "f": invalid value`) {
		t.Fatalf("expected invalid input to be logged, got %q", logs.String())
	}
}

func TestRender_DefaultHTML(t *testing.T) {
	w := mustWidget(t)

	out, err := w.Render(context.Background(), "f", []byte(`{"a":"x","b":["y"]}`))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<input id="f__a" name="f__a" type="text" value="x" class="form-control" />`,
		`<input id="f__b__0" name="f__b__0" type="text" value="y" class="form-control" />`,
		`b:<br/>`,
	} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in output\n%s", want, out)
		}
	}
}

func TestGenerate_MergesWidgetDefaults(t *testing.T) {
	capture := &captureRenderer{}
	w := mustWidget(t,
		widget.WithRenderer(capture),
		widget.WithAttrs(map[string]string{"class": "form-control", "data-x": "1"}),
		widget.WithNewline("<hr/>"),
		widget.WithDebug(true),
	)

	out, err := w.Generate(context.Background(), widget.Request{
		Name:     "f",
		Raw:      []byte(`{"a":1}`),
		Renderer: "capture",
		RenderOptions: render.RenderOptions{
			Attrs: map[string]string{"data-x": "2"},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "captured" {
		t.Fatalf("unexpected output %q", out)
	}

	wantAttrs := map[string]string{"class": "form-control", "data-x": "2"}
	if diff := cmp.Diff(wantAttrs, capture.options.Attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
	if capture.options.Newline != "<hr/>" || !capture.options.Debug {
		t.Fatalf("expected widget newline and debug, got %+v", capture.options)
	}
	if capture.doc.Layout.Root != "f" || len(capture.doc.Layout.Fields) != 1 {
		t.Fatalf("unexpected layout %+v", capture.doc.Layout)
	}
	if capture.doc.Layout.Fields[0].Kind != model.FieldKindNumber {
		t.Fatalf("expected number field, got %s", capture.doc.Layout.Fields[0].Kind)
	}
}

func TestGenerate_UnknownRenderer(t *testing.T) {
	w := mustWidget(t)
	_, err := w.Generate(context.Background(), widget.Request{Name: "f", Renderer: "nope"})
	if err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestGenerate_RequiresName(t *testing.T) {
	w := mustWidget(t)
	if _, err := w.Render(context.Background(), "", []byte("{}")); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestGenerate_TransformerAddsDefaults(t *testing.T) {
	capture := &captureRenderer{}
	w := mustWidget(t,
		widget.WithRenderer(capture),
		widget.WithDefaultRenderer("capture"),
		widget.WithTransformer(widget.DefaultsTransformer{
			Defaults: model.Object(model.M("a", model.String("keep")), model.M("b", model.Bool(true))),
		}),
	)

	if _, err := w.Render(context.Background(), "f", []byte(`{"a":"x"}`)); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := model.Object(model.M("a", model.String("x")), model.M("b", model.Bool(true)))
	if diff := cmp.Diff(want, capture.doc.Source); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestValueFromForm(t *testing.T) {
	w := mustWidget(t)

	got, err := w.ValueFromForm("f", model.FormOf("f__a", "1", "f__b__0", "x", "f__b__1", "y"))
	if err != nil {
		t.Fatalf("value from form: %v", err)
	}
	if got != `{"a":"1","b":["x","y"]}` {
		t.Fatalf("unexpected value %s", got)
	}

	empty, err := w.ValueFromForm("f", model.Form{})
	if err != nil {
		t.Fatalf("value from empty form: %v", err)
	}
	if empty != "{}" {
		t.Fatalf("expected {}, got %s", empty)
	}
}

func TestValueFromRequest_URLEncodedWithCheckbox(t *testing.T) {
	w := mustWidget(t)
	body := "f__on=false&f__on=true&f__off=false&f__name=Ada&other=1"
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := w.ValueFromRequest(req, "f")
	if err != nil {
		t.Fatalf("value from request: %v", err)
	}
	if got != `{"on":"true","off":"false","name":"Ada"}` {
		t.Fatalf("unexpected value %s", got)
	}

	again, _ := io.ReadAll(req.Body)
	if string(again) != body {
		t.Fatalf("expected body to be restored, got %q", again)
	}
}

func TestValueFromRequest_Query(t *testing.T) {
	w := mustWidget(t, widget.WithCodec(codec.New(codec.WithSeparator("."))))
	req := httptest.NewRequest(http.MethodGet, "/?f.tags.0=a&f.tags.1=b", nil)

	got, err := w.ValueFromRequest(req, "f")
	if err != nil {
		t.Fatalf("value from request: %v", err)
	}
	if got != `{"tags":["a","b"]}` {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestValueFromRequest_Multipart(t *testing.T) {
	w := mustWidget(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("f__zeta", "z")
	var want []string
	for i := 0; i < 12; i++ {
		_ = mw.WriteField(fmt.Sprintf("f__alpha__%d", i), strconv.Itoa(i))
		want = append(want, strconv.Quote(strconv.Itoa(i)))
	}
	_ = mw.WriteField("f__on", "false")
	_ = mw.WriteField("f__on", "true")
	fw, _ := mw.CreateFormFile("f__upload", "notes.txt")
	_, _ = fw.Write([]byte("ignored"))
	_ = mw.Close()
	raw := body.String()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	got, err := w.ValueFromRequest(req, "f")
	if err != nil {
		t.Fatalf("value from request: %v", err)
	}
	expected := `{"zeta":"z","alpha":[` + strings.Join(want, ",") + `],"on":"true"}`
	if got != expected {
		t.Fatalf("unexpected value\nwant: %s\n got: %s", expected, got)
	}

	rest, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read restored body: %v", err)
	}
	if string(rest) != raw {
		t.Fatalf("body was not restored")
	}
}

func TestFormFromRequest_MultipartWithoutBoundary(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.Header.Set("Content-Type", "multipart/form-data")
	if _, err := widget.FormFromRequest(req); err == nil {
		t.Fatalf("expected error for missing boundary")
	}
}

func TestMapErrors(t *testing.T) {
	w := mustWidget(t)
	layout := w.Layout("f", []byte(`{"b":["x"]}`))

	mapping := w.MapErrors(layout, map[string][]string{"/b/0": {"bad"}, "general": {"oops"}})

	if diff := cmp.Diff(map[string][]string{"f__b__0": {"bad"}}, mapping.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"oops"}, mapping.Form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}
