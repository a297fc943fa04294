package rbac

import "net/http"

// Require rejects requests whose role lacks perm with 403.
func (c *Checker) Require(perm string) func(http.Handler) http.Handler {
	return c.RequireAny(perm)
}

// RequireAny rejects requests whose role has none of perms.
func (c *Checker) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !c.Any(role, perms...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
