package model_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/model"
)

func TestParseJSON_PreservesMemberOrder(t *testing.T) {
	got, err := model.ParseJSON([]byte(`{"z": 1, "a": [true, null, 1.5, "s"], "m": {"y": "2", "b": -3}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := model.Object(
		model.M("z", model.Int(1)),
		model.M("a", model.Array(model.Bool(true), model.Null(), model.Float(1.5), model.String("s"))),
		model.M("m", model.Object(
			model.M("y", model.String("2")),
			model.M("b", model.Int(-3)),
		)),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_Numbers(t *testing.T) {
	cases := map[string]model.Value{
		`10`:                   model.Int(10),
		`1e3`:                  model.Float(1000),
		`2.0`:                  model.Float(2),
		`99999999999999999999`: model.Float(1e20),
	}
	for raw, want := range cases {
		got, err := model.ParseJSON([]byte(raw))
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parse %s: want %#v, got %#v", raw, want, got)
		}
	}
}

func TestParseJSON_Errors(t *testing.T) {
	for _, raw := range []string{``, `{`, `{"a":1} {}`, `[1,]`} {
		if _, err := model.ParseJSON([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestMarshalJSON_Canonical(t *testing.T) {
	doc := model.Object(
		model.M("b", model.String("<tag> & \"q\"")),
		model.M("a", model.Array(model.Int(1), model.Float(2.5), model.Bool(false), model.Null())),
	)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"b":"<tag> & \"q\"","a":[1,2.5,false,null]}`
	if string(data) != want {
		t.Fatalf("marshal mismatch\nwant: %s\n got: %s", want, data)
	}
}

func TestValue_UnmarshalJSONInsideStruct(t *testing.T) {
	var payload struct {
		Doc model.Value `json:"doc"`
	}
	if err := json.Unmarshal([]byte(`{"doc": {"k": ["v"]}}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := model.Object(model.M("k", model.Array(model.String("v"))))
	if diff := cmp.Diff(want, payload.Doc); diff != "" {
		t.Fatalf("unmarshal mismatch (-want +got):\n%s", diff)
	}
}
