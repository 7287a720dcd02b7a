// Package model defines the data shared by the split-JSON encoder, decoder and
// the rendering collaborators. Value is a tagged union over JSON-like documents
// whose objects keep member insertion order, Form is the ordered flat mapping
// of composite paths to submitted text, and Layout bundles the encoder output:
// the field descriptors (path, scalar value, FieldKind) plus a grouping tree
// that mirrors Array/Object nesting for visual wrappers. Values parse from JSON
// or YAML with order preserved and marshal back to canonical JSON, which is the
// representation persisted by the store package.
package model
