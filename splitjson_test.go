package splitjson_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	splitjson "github.com/goliatone/go-splitjson"
	"github.com/goliatone/go-splitjson/pkg/model"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	value, err := splitjson.ParseJSON([]byte(`{"name":"Ada","langs":["go","sql"],"meta":{"active":true}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	layout := splitjson.Encode("f", value)
	var paths []string
	form := model.NewForm()
	for _, field := range layout.Fields {
		paths = append(paths, field.Path)
		form.Set(field.Path, field.Text())
	}

	wantPaths := []string{"f__name", "f__langs__0", "f__langs__1", "f__meta__active"}
	if diff := cmp.Diff(wantPaths, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	decoded := splitjson.Decode("f", form)
	got, err := decoded.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"name":"Ada","langs":["go","sql"],"meta":{"active":"true"}}` {
		t.Fatalf("unexpected decoded document %s", got)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := splitjson.RenderHTML(context.Background(), "f", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `name="f__a"`) || !strings.Contains(string(out), `type="number"`) {
		t.Fatalf("unexpected markup:\n%s", out)
	}
}

func TestEmbeddedFiles(t *testing.T) {
	if _, err := fs.ReadFile(splitjson.AssetsFS(), "splitjson.css"); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
	if _, err := fs.ReadFile(splitjson.EmbeddedTemplates(), "templates/field.tmpl"); err != nil {
		t.Fatalf("field template: %v", err)
	}
}
