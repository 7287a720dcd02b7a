package splitjson

import (
	"io/fs"

	"github.com/goliatone/go-splitjson/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them and pass the result back through vanilla.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
