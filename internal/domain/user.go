package domain

// Role type to distinguish API callers
type Role string

const (
	RoleAdmin  Role = "admin"  // may trigger conversions, cache maintenance and program edits
	RoleViewer Role = "viewer" // read-only access
)

// Principal is the authenticated caller derived from a token.
type Principal struct {
	Subject string `json:"sub"`
	Role    Role   `json:"role"`
}

// IsAdmin is a small helper for handlers.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
