package monitoring

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed pages
var pages embed.FS

// pageServer serves the monitor page. The page is compiled into the binary
// unless WithPageDir names a directory to read it from.
func (m *Monitor) pageServer() http.Handler {
	if m.pageDir != "" {
		return http.FileServer(http.Dir(m.pageDir))
	}

	sub, err := fs.Sub(pages, "pages")
	dieOnErr(err)

	return http.FileServerFS(sub)
}
