package http

import (
	"context"
	"net/http"
)

// redirectNavigator answers the current request with a 303 so the browser
// loads the target view with GET.
type redirectNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n *redirectNavigator) Navigate(_ context.Context, path string) {
	http.Redirect(n.w, n.r, path, http.StatusSeeOther)
}
