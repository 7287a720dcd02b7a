package vanilla_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/renderers/vanilla"
	"github.com/goliatone/go-splitjson/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func document(name string, value model.Value) render.Document {
	return render.Document{Name: name, Layout: codec.Encode(name, value), Source: value}
}

func renderString(t *testing.T, doc render.Document, options render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(testsupport.Context(), doc, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_NestedGolden(t *testing.T) {
	value := testsupport.MustLoadValue(t, filepath.Join("testdata", "nested.json"))

	output := renderString(t, document("f", value), render.RenderOptions{})

	goldenPath := filepath.Join("testdata", "nested.golden.html")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(output)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_ControlPerKind(t *testing.T) {
	value := model.Object(
		model.M("title", model.String("hello")),
		model.M("body", model.String(strings.Repeat("x", 51))),
		model.M("count", model.Int(3)),
		model.M("ratio", model.Float(0.5)),
		model.M("born", model.Date(time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC))),
		model.M("active", model.Bool(true)),
		model.M("off", model.Bool(false)),
		model.M("missing", model.Null()),
	)

	output := renderString(t, document("f", value), render.RenderOptions{})

	wants := []string{
		`<input id="f__title" name="f__title" type="text" value="hello" class="form-control" />`,
		`<textarea id="f__body" name="f__body" class="form-control">` + strings.Repeat("x", 51) + `</textarea>`,
		`<input id="f__count" name="f__count" type="number" value="3" class="form-control" />`,
		`<input id="f__ratio" name="f__ratio" type="number" step="0.01" value="0.5" class="form-control" />`,
		`<input id="f__born" name="f__born" type="date" value="1990-01-02" class="form-control" />`,
		`<input type="hidden" name="f__active" value="false" /><input id="f__active" name="f__active" type="checkbox" value="true" checked="checked" class="switch" />`,
		`<input id="f__off" name="f__off" type="checkbox" value="true" class="switch" />`,
		`<input id="f__missing" name="f__missing" type="text" value="" class="form-control" />`,
		`<label for="f__count">count:</label>`,
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q\n%s", want, output)
		}
	}
}

func TestRenderer_BaseAttrsAndCheckboxClass(t *testing.T) {
	value := model.Object(
		model.M("a", model.String("x")),
		model.M("b", model.Bool(false)),
	)

	output := renderString(t, document("f", value), render.RenderOptions{
		Attrs: map[string]string{"class": "form-control input-lg", "data-role": "split", "name": "ignored"},
	})

	if !strings.Contains(output, `value="x" class="form-control input-lg" data-role="split" />`) {
		t.Fatalf("expected base attrs on text input\n%s", output)
	}
	if !strings.Contains(output, `type="checkbox" value="true" class="input-lg switch" data-role="split" />`) {
		t.Fatalf("expected checkbox class without form-control\n%s", output)
	}
	if strings.Contains(output, "ignored") {
		t.Fatalf("reserved attribute leaked into output\n%s", output)
	}
}

func TestRenderer_EscapesValues(t *testing.T) {
	value := model.Object(model.M("a", model.String(`<b>"hi"</b>`)))

	output := renderString(t, document("f", value), render.RenderOptions{})

	if strings.Contains(output, "<b>") {
		t.Fatalf("value was not escaped\n%s", output)
	}
	if !strings.Contains(output, "&lt;b&gt;") {
		t.Fatalf("expected escaped markup\n%s", output)
	}
}

func TestRenderer_NewlineIsSanitized(t *testing.T) {
	value := model.Object(model.M("a", model.String("x")))

	output := renderString(t, document("f", value), render.RenderOptions{
		Newline: `<p class="gap">&nbsp;</p><script>alert(1)</script>`,
	})

	if strings.Contains(output, "<script>") || strings.Contains(output, "alert(1)") {
		t.Fatalf("newline token was not sanitized\n%s", output)
	}
	if !strings.Contains(output, `f:<p class="gap">`) {
		t.Fatalf("expected allowed markup to survive\n%s", output)
	}
}

func TestRenderer_DebugDump(t *testing.T) {
	value := model.Object(model.M("secret", model.String("<x>")))

	output := renderString(t, document("f", value), render.RenderOptions{Debug: true})

	idx := strings.Index(output, "<hr/>Source data: <br/>")
	if idx < 0 {
		t.Fatalf("expected debug section\n%s", output)
	}
	dump := output[idx:]
	if !strings.Contains(dump, "secret") || !strings.Contains(dump, "&lt;x&gt;") {
		t.Fatalf("expected escaped dump of the source\n%s", dump)
	}
	if !strings.HasSuffix(output, "<hr/>") {
		t.Fatalf("expected debug section to close with a rule\n%s", output)
	}
}

func TestRenderer_ErrorsAndHiddenFields(t *testing.T) {
	value := model.Object(model.M("a", model.String("x")))

	output := renderString(t, document("f", value), render.RenderOptions{
		Errors:     map[string][]string{"f__a": {"Too short"}},
		FormErrors: []string{"Please retry"},
		Hidden:     []render.HiddenField{render.Hidden("_csrf", "tok")},
	})

	for _, want := range []string{
		`<input type="hidden" name="_csrf" value="tok" />`,
		`<div class="invalid-feedback"><p>Please retry</p></div>`,
		`<span class="invalid-feedback">Too short</span>`,
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q\n%s", want, output)
		}
	}
	if strings.Index(output, "_csrf") > strings.Index(output, "f__a") {
		t.Fatalf("hidden fields must precede the controls\n%s", output)
	}
}

func TestRenderer_ThemeTokens(t *testing.T) {
	value := model.Object(
		model.M("a", model.String("x")),
		model.M("b", model.Bool(true)),
	)

	output := renderString(t, document("f", value), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			Tokens: map[string]string{
				vanilla.TokenGroupClass:    "field-block",
				vanilla.TokenInputClass:    "acme-input",
				vanilla.TokenCheckboxClass: "acme-toggle",
			},
		},
	})

	if strings.Contains(output, "form-group") || strings.Contains(output, "form-control") {
		t.Fatalf("expected theme classes to replace defaults\n%s", output)
	}
	for _, want := range []string{`<div class="field-block">`, `class="acme-input"`, `class="acme-toggle"`} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q\n%s", want, output)
		}
	}
}

func TestRenderer_ScalarRootAndEmptyObject(t *testing.T) {
	scalar := renderString(t, document("f", model.String("solo")), render.RenderOptions{})
	want := `<div class="form-group"><label for="f">f:</label>` + "\n" +
		`<input id="f" name="f" type="text" value="solo" class="form-control" /></div>`
	if scalar != want {
		t.Fatalf("scalar root mismatch\nwant: %q\n got: %q", want, scalar)
	}

	empty := renderString(t, document("f", model.Object()), render.RenderOptions{})
	if empty != "<div class=\"form-group\">f:<br/>\n</div>" {
		t.Fatalf("empty object mismatch: %q", empty)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRenderer(t).Render(ctx, document("f", model.Object()), render.RenderOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(name string, data any, out ...io.Writer) (string, error) {
			if name == "templates/form.tmpl" {
				return "custom-output", nil
			}
			return "<component />", nil
		},
	}

	renderer := newRenderer(t, vanilla.WithTemplateRenderer(stub))

	out, err := renderer.Render(testsupport.Context(), document("f", model.Object(model.M("a", model.Int(1)))), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom-output" {
		t.Fatalf("unexpected output: %s", out)
	}
	if !stub.called {
		t.Fatalf("expected render template to be called")
	}
}

func TestAssetsFS_Stylesheet(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	if !strings.Contains(string(data), ".switch") {
		t.Fatalf("expected stylesheet to style switches")
	}
}

type stubTemplateRenderer struct {
	called             bool
	renderTemplateFunc func(name string, data any, out ...io.Writer) (string, error)
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	s.called = true
	if s.renderTemplateFunc != nil {
		return s.renderTemplateFunc(name, data, out...)
	}
	return "", nil
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(input any, param any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
