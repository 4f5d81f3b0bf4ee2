// Package site serves the dashboard page and its embedded assets.
package site

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// Register attaches the dashboard page at / and its assets at /static/.
func Register(_ context.Context, mux *http.ServeMux, b Bootstrap) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.Handle("/", NewRootHandler(b))
}

// RootHandler serves the page shell on exactly "/".
type RootHandler struct {
	page http.Handler
}

// NewRootHandler renders the shell once per request from b.
func NewRootHandler(b Bootstrap) *RootHandler {
	return &RootHandler{page: templ.Handler(Shell(b))}
}

// ServeHTTP handles GET / requests.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.page.ServeHTTP(w, r)
}
