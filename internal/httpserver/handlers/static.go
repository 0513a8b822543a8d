package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/utils"
)

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".csv":  "text/csv; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ContentType returns the response type for a file name.
func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Static serves files from the site root. "/" maps to index.html; paths
// resolving outside the root get 403.
func Static(d deps.Deps) http.HandlerFunc {
	root, err := filepath.Abs(d.RootDir)
	if err != nil {
		root = filepath.Clean(d.RootDir)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		target := filepath.Join(root, "."+filepath.FromSlash(urlPath))
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			d.Logger.Debug("static path escapes root", logger.String("path", r.URL.Path))
			writeText(w, http.StatusForbidden, "Forbidden")
			return
		}

		f, err := os.Open(target)
		if err != nil {
			writeText(w, http.StatusNotFound, "Not found")
			return
		}
		defer utils.Close(f)

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			writeText(w, http.StatusNotFound, "Not found")
			return
		}

		w.Header().Set("Content-Type", ContentType(target))
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	}
}
