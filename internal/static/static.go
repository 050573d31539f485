package static

import (
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

// StaticConfig configures static file serving behavior
type StaticConfig struct {
	// APIPrefix excludes paths starting with this prefix. Empty serves
	// every path.
	APIPrefix string
}

// StaticResponse is the framework-neutral result of resolving a path.
type StaticResponse struct {
	NotFound     bool
	StatusCode   int
	ContentType  string
	CacheControl string
	Body         []byte
}

var notFound = StaticResponse{NotFound: true, StatusCode: http.StatusNotFound}

// ServeStaticFile resolves urlPath against assets. Router adapters turn the
// response into their own reply.
func ServeStaticFile(assets fs.FS, config StaticConfig, urlPath string) StaticResponse {
	if config.APIPrefix != "" && strings.HasPrefix(urlPath, config.APIPrefix) {
		return notFound
	}

	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "index.html"
	}

	body, err := fs.ReadFile(assets, name)
	if err != nil {
		return notFound
	}

	return StaticResponse{
		StatusCode:   http.StatusOK,
		ContentType:  getContentType(name),
		CacheControl: getCacheControl(name),
		Body:         body,
	}
}

// Handler serves assets with net/http.
func Handler(assets fs.FS, config StaticConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := ServeStaticFile(assets, config, r.URL.Path)
		if response.NotFound {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", response.ContentType)
		w.Header().Set("Cache-Control", response.CacheControl)
		w.WriteHeader(response.StatusCode)
		w.Write(response.Body)
	}
}

var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
}

func getContentType(name string) string {
	if contentType, ok := contentTypes[filepath.Ext(name)]; ok {
		return contentType
	}
	return "application/octet-stream"
}

// Asset names carry no content hash, so pages, scripts and styles must be
// revalidated soon after an upgrade. Images and fonts get a day.
func getCacheControl(name string) string {
	switch filepath.Ext(name) {
	case ".png", ".jpg", ".jpeg", ".svg", ".ico", ".woff", ".woff2", ".ttf":
		return "public, max-age=86400"
	}
	return "public, max-age=300"
}
