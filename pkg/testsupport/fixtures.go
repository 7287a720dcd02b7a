package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// MustLoadValue reads a JSON or YAML fixture into a model.Value.
func MustLoadValue(t *testing.T, path string) model.Value {
	t.Helper()

	value, err := LoadValue(path)
	if err != nil {
		t.Fatalf("load value: %v", err)
	}
	return value
}

// LoadValue reads a fixture without requiring testing.T. The parser is picked
// by file extension.
func LoadValue(path string) (model.Value, error) {
	if path == "" {
		return model.Value{}, errors.New("testsupport: value path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Value{}, fmt.Errorf("testsupport: read value: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		value, err := model.ParseYAML(data)
		if err != nil {
			return model.Value{}, fmt.Errorf("testsupport: parse yaml: %w", err)
		}
		return value, nil
	default:
		value, err := model.ParseJSON(data)
		if err != nil {
			return model.Value{}, fmt.Errorf("testsupport: parse json: %w", err)
		}
		return value, nil
	}
}

// MustLoadForm reads a flat JSON object of string values into a model.Form,
// keeping key order.
func MustLoadForm(t *testing.T, path string) model.Form {
	t.Helper()

	value := MustLoadValue(t, path)
	if value.Kind() != model.KindObject {
		t.Fatalf("load form: %s is not an object", path)
	}

	var form model.Form
	for _, member := range value.Members() {
		form.Set(member.Key, member.Value.Text())
	}
	return form
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// string result and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
