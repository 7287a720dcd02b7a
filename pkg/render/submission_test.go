package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
)

func TestParseForm_KeepsFirstPositionAndLastValue(t *testing.T) {
	form, err := render.ParseForm("f__title=Hello+world&f__done=false&f__tags__0=a%26b&f__done=true&&csrf=")
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}

	want := []model.FormEntry{
		{Key: "f__title", Value: "Hello world"},
		{Key: "f__done", Value: "true"},
		{Key: "f__tags__0", Value: "a&b"},
		{Key: "csrf", Value: ""},
	}
	if diff := cmp.Diff(want, form.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseForm_InvalidEscape(t *testing.T) {
	if _, err := render.ParseForm("f__a=%zz"); err == nil {
		t.Fatalf("expected error for invalid escape")
	}
}

func TestNormalizeSubmission_Checkboxes(t *testing.T) {
	fields := []model.Field{
		{Path: "f__name", Kind: model.FieldKindText},
		{Path: "f__on", Kind: model.FieldKindCheckbox},
		{Path: "f__off", Kind: model.FieldKindCheckbox},
		{Path: "f__hidden", Kind: model.FieldKindCheckbox},
	}
	form := model.FormOf(
		"extra", "1",
		"f__on", "on",
		"f__hidden", "false",
		"f__name", "ada",
	)

	got := render.NormalizeSubmission(form, fields)

	want := []model.FormEntry{
		{Key: "f__name", Value: "ada"},
		{Key: "f__on", Value: "true"},
		{Key: "f__off", Value: "false"},
		{Key: "f__hidden", Value: "false"},
		{Key: "extra", Value: "1"},
	}
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if form.Has("f__off") {
		t.Fatalf("input form must not be modified")
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden("_csrf", "token123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"_csrf":    "token123",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
