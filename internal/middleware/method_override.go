package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField is the form field carrying the intended verb.
const MethodOverrideField = "_method"

// MethodOverride rewrites a POST carrying a _method form field into
// the native PATCH or DELETE before routing, so browser forms can
// drive the full HTTP surface. It wraps the router rather than running
// as a gin middleware because the rewrite must happen before the
// method-based route match.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				switch strings.ToUpper(r.PostForm.Get(MethodOverrideField)) {
				case http.MethodPatch:
					r.Method = http.MethodPatch
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
