// Package codec converts between nested model.Value documents and flat form
// fields whose names encode the tree path.
//
// A composite path joins a root name and zero or more segments with a
// separator (default "__"). Segments made only of ASCII digits index into an
// Array; any other segment is an Object key. Encode walks a document depth
// first and returns the leaves in pre-order together with a grouping tree.
// Decode rebuilds the document from the submitted flat mapping, inferring for
// every path segment whether the container is an Array or an Object.
//
// Known limitations of the encoding:
//
//   - Submitted values are plain text, so decoded leaves are always strings.
//   - An Object key made of digits (for example {"0": "x"}) is
//     indistinguishable from an Array index and decodes as a list element.
//   - Object keys containing the separator split into extra segments.
//
// Decode performs repeated prefix scans over the remaining entries and is
// quadratic in the number of fields in the worst case.
package codec
