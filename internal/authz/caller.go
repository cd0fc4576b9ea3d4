package authz

// Caller is the authenticated identity a request runs as. It is passed explicitly to
// every operation instead of being read from ambient request state.
type Caller struct {
	UserID           uint
	Username         string
	Role             Role
	OrganizationID   *uint
	OrganizationName *string
}

// InOrganization reports whether orgID names the caller's organization.
// A caller without an organization belongs to none.
func (c *Caller) InOrganization(orgID *uint) bool {
	if c.OrganizationID == nil || orgID == nil {
		return false
	}
	return *c.OrganizationID == *orgID
}

// TokenClaims are the derived claims embedded in issued tokens and mirrored in the
// register and token responses.
type TokenClaims struct {
	Role         Role
	Organization *string
}

// ClaimsFor derives the token claims for a user with the given role and organization name.
func ClaimsFor(role Role, organizationName *string) TokenClaims {
	var org *string
	if organizationName != nil {
		name := *organizationName
		org = &name
	}
	return TokenClaims{Role: role, Organization: org}
}

// Claims returns the token claims for c.
func (c *Caller) Claims() TokenClaims {
	return ClaimsFor(c.Role, c.OrganizationName)
}
