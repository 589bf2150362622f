package user

import "strings"

const RoleAdmin = "admin"

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	role = strings.TrimSpace(role)
	if role == "" {
		return false
	}
	for _, item := range p.Roles {
		if strings.EqualFold(strings.TrimSpace(item), role) {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
