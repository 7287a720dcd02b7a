package splitjson

import (
	"io/fs"

	"github.com/goliatone/go-splitjson/pkg/renderers/vanilla"
)

// AssetsFS exposes the stylesheet used by the HTML markup so applications can
// serve it next to their forms.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(splitjson.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
