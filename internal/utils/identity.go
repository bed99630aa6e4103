package utils

// Identity is the authenticated principal attached to a request.  The same
// triple travels inside JWT claims and inside server-side session payloads,
// so both credential channels resolve to one shape.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"` // guest | user | admin
}
