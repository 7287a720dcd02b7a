package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/model"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/validation"
)

// Renderer implements render.Renderer for terminal-driven sessions. Each
// field of the encoded document is prompted once, in pre-order, with its
// current value as the default. The answers are serialized per the output
// format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	codec             *codec.Codec
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		codec:        codec.New(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of doc and serializes the answers.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	for _, message := range opts.FormErrors {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
	}

	state := NewState(opts.Errors)
	for _, field := range doc.Layout.Fields {
		if err := r.promptField(ctx, doc.Layout.Root, field, state); err != nil {
			return nil, err
		}
	}

	answers := state.Form()
	if r.submitTransformer != nil {
		var err error
		answers, err = r.submitTransformer(answers)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(doc.Layout.Root, answers)
}

func (r *Renderer) promptField(ctx context.Context, root string, field model.Field, state *State) error {
	for _, message := range state.ErrorsFor(field.Path) {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+message)
	}

	label := r.theme.PromptPrefix + r.displayLabel(root, field.Path)
	help := string(field.Kind)

	switch field.Kind {
	case model.FieldKindCheckbox:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: field.Checked(),
			Help:    help,
		})
		if err != nil {
			return err
		}
		state.Set(field.Path, strconv.FormatBool(resp))
		return nil
	case model.FieldKindTextArea:
		resp, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: field.Text(),
			Help:    help,
		})
		if err != nil {
			return err
		}
		state.Set(field.Path, resp)
		return nil
	}

	validate := validatorFor(field.Kind)
	for {
		resp, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   field.Text(),
			Help:      help,
			Validator: validate,
		})
		if err != nil {
			return err
		}
		resp = strings.TrimSpace(resp)
		if validate != nil {
			if err := validate(resp); err != nil {
				_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.Path, err))
				continue
			}
		}
		state.Set(field.Path, resp)
		return nil
	}
}

// displayLabel shows the path below the root with dots, e.g. "tags.0".
func (r *Renderer) displayLabel(root, path string) string {
	segments, ok := r.codec.Segments(root, path)
	if !ok || len(segments) == 0 {
		return path
	}
	return strings.Join(segments, ".")
}

// validatorFor returns the check applied to typed single-line answers. An
// empty answer is always accepted and submitted as an empty string.
func validatorFor(kind model.FieldKind) func(string) error {
	if !validation.HasCheck(kind) {
		return nil
	}
	return func(s string) error {
		return validation.CheckValue(kind, s)
	}
}

func (r *Renderer) serialize(root string, answers model.Form) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(answers)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(answers)), nil
	default:
		payload, err := r.codec.Decode(root, answers).MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return payload, nil
	}
}

// encodeForm writes answers in prompt order; url.Values would sort them.
func encodeForm(answers model.Form) string {
	var b strings.Builder
	for i, entry := range answers.Entries() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(entry.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(entry.Value))
	}
	return b.String()
}

func prettyPrint(answers model.Form) string {
	var b strings.Builder
	for _, entry := range answers.Entries() {
		fmt.Fprintf(&b, "%s = %s\n", entry.Key, entry.Value)
	}
	return b.String()
}
