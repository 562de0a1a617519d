// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the embedded landing page to the router.
// Call last: the root prefix catches anything the API routes did not.
func Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.FileServer(FS())
	r.PathPrefix("/").Handler(files)
}
