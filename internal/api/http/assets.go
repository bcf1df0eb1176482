// internal/api/http/assets.go
package http

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-quiz/internal/storage"
)

// MountAssets serves the blobs stored under dir, and nothing else, at
// GET /*. Uploaded PDFs live outside dir and stay private.
func MountAssets(r chi.Router, bs storage.BlobStore, dir string) {
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := path.Clean("/" + dir + "/" + chi.URLParam(r, "*"))[1:]
		if !strings.HasPrefix(key, dir+"/") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(path.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
