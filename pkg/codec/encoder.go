package codec

import (
	"strconv"
	"unicode/utf8"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// Encode walks value depth first from root and returns its leaves in
// pre-order together with the grouping tree. Object members and Array items
// keep their order. Encode is total: every Value kind maps to a field kind.
func (c *Codec) Encode(root string, value model.Value) model.Layout {
	enc := encoder{codec: c}
	tree := enc.walk(root, value)
	return model.Layout{
		Root:   root,
		Fields: enc.fields,
		Tree:   tree,
	}
}

type encoder struct {
	codec  *Codec
	fields []model.Field
}

func (e *encoder) walk(path string, value model.Value) model.Node {
	switch value.Kind() {
	case model.KindArray:
		group := &model.Group{Title: e.codec.LastSegment(path), Path: path}
		for i, item := range value.Items() {
			group.Children = append(group.Children, e.walk(e.codec.Join(path, strconv.Itoa(i)), item))
		}
		return model.Node{Group: group}
	case model.KindObject:
		group := &model.Group{Title: e.codec.LastSegment(path), Path: path}
		for _, m := range value.Members() {
			group.Children = append(group.Children, e.walk(e.codec.Join(path, m.Key), m.Value))
		}
		return model.Node{Group: group}
	default:
		return e.leaf(path, value)
	}
}

func (e *encoder) leaf(path string, value model.Value) model.Node {
	field := model.Field{
		Path:  path,
		Key:   e.codec.LastSegment(path),
		Value: value,
		Kind:  e.kindOf(value),
	}
	if value.IsNull() {
		field.Value = model.String("")
	}
	e.fields = append(e.fields, field)
	return model.Node{Field: len(e.fields) - 1}
}

func (e *encoder) kindOf(value model.Value) model.FieldKind {
	switch value.Kind() {
	case model.KindString:
		if utf8.RuneCountInString(value.AsString()) > e.codec.textAreaThreshold {
			return model.FieldKindTextArea
		}
		return model.FieldKindText
	case model.KindBool:
		return model.FieldKindCheckbox
	case model.KindInt:
		return model.FieldKindNumber
	case model.KindFloat:
		return model.FieldKindFloat
	case model.KindDate:
		return model.FieldKindDate
	case model.KindDateTime:
		return model.FieldKindDateTime
	case model.KindNull:
		return model.FieldKindText
	default:
		// containers never reach a leaf
		return model.FieldKindText
	}
}
