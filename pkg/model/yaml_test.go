package model_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/model"
)

func TestParseYAML_KindsAndOrder(t *testing.T) {
	src := []byte(`
title: Release notes
count: 3
ratio: 0.75
published: true
day: 2024-03-09
at: 2024-03-09T14:30:00Z
empty: ~
tags:
  - go
  - forms
`)

	got, err := model.ParseYAML(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := model.Object(
		model.M("title", model.String("Release notes")),
		model.M("count", model.Int(3)),
		model.M("ratio", model.Float(0.75)),
		model.M("published", model.Bool(true)),
		model.M("day", model.Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))),
		model.M("at", model.DateTime(time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC))),
		model.M("empty", model.Null()),
		model.M("tags", model.Array(model.String("go"), model.String("forms"))),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_EmptyDocument(t *testing.T) {
	got, err := model.ParseYAML(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("expected null, got %#v", got)
	}
}
