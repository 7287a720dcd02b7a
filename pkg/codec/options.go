package codec

import "github.com/goliatone/go-splitjson/pkg/model"

const (
	// DefaultSeparator joins path segments.
	DefaultSeparator = "__"
	// DefaultTextAreaThreshold is the longest string, in characters, that
	// still renders as a single-line text field.
	DefaultTextAreaThreshold = 50
)

// Option configures a Codec.
type Option func(*Codec)

// WithSeparator overrides the path separator. Empty values are ignored.
func WithSeparator(sep string) Option {
	return func(c *Codec) {
		if sep != "" {
			c.sep = sep
		}
	}
}

// WithTextAreaThreshold overrides the string length above which a leaf is
// encoded as a TextArea. Negative values are ignored.
func WithTextAreaThreshold(n int) Option {
	return func(c *Codec) {
		if n >= 0 {
			c.textAreaThreshold = n
		}
	}
}

// Codec holds the path convention shared by Encode and Decode. A Codec is
// immutable after construction and safe for concurrent use.
type Codec struct {
	sep               string
	textAreaThreshold int
}

// New constructs a Codec applying options over the defaults.
func New(options ...Option) *Codec {
	c := &Codec{
		sep:               DefaultSeparator,
		textAreaThreshold: DefaultTextAreaThreshold,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Separator returns the configured path separator.
func (c *Codec) Separator() string {
	return c.sep
}

var defaultCodec = New()

// Encode flattens value using the default Codec.
func Encode(root string, value model.Value) model.Layout {
	return defaultCodec.Encode(root, value)
}

// Decode rebuilds a document from form using the default Codec.
func Decode(root string, form model.Form) model.Value {
	return defaultCodec.Decode(root, form)
}
