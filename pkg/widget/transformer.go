package widget

import (
	"context"

	"github.com/goliatone/go-splitjson/pkg/model"
)

// Transformer mutates a parsed value before it is encoded. Implementations
// can hide members, add defaults or reorder keys.
type Transformer interface {
	Transform(ctx context.Context, value *model.Value) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, value *model.Value) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, value *model.Value) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, value)
}

// DefaultsTransformer adds members of Defaults that an object value lacks.
// Non-object values are left alone.
type DefaultsTransformer struct {
	Defaults model.Value
}

// Transform appends missing members in Defaults order.
func (d DefaultsTransformer) Transform(_ context.Context, value *model.Value) error {
	if value == nil || value.Kind() != model.KindObject || d.Defaults.Kind() != model.KindObject {
		return nil
	}
	for _, member := range d.Defaults.Members() {
		if _, ok := value.Get(member.Key); ok {
			continue
		}
		value.Set(member.Key, member.Value)
	}
	return nil
}
