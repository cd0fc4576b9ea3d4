package authz

import "fmt"

// Operation names a request the core can decide on.
type Operation int

const (
	OpRegister Operation = iota
	OpIssueToken
	OpRefreshToken
	OpCreateOrgUser
	OpListOrgUsers
	OpUpdateOrgUser
	OpDeleteOrgUser
	OpListNotes
	OpCreateNote
	OpDeleteNote
)

func (op Operation) String() string {
	switch op {
	case OpRegister:
		return "register"
	case OpIssueToken:
		return "issue_token"
	case OpRefreshToken:
		return "refresh_token"
	case OpCreateOrgUser:
		return "create_org_user"
	case OpListOrgUsers:
		return "list_org_users"
	case OpUpdateOrgUser:
		return "update_org_user"
	case OpDeleteOrgUser:
		return "delete_org_user"
	case OpListNotes:
		return "list_notes"
	case OpCreateNote:
		return "create_note"
	case OpDeleteNote:
		return "delete_note"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Target is the user an organization-management operation acts on.
type Target struct {
	UserID         uint
	Username       string
	OrganizationID *uint
}

// Authorize decides whether caller may attempt op at all. It covers the checks that
// need no stored record: authentication and role. caller is nil for anonymous requests.
func Authorize(caller *Caller, op Operation) error {
	switch op {
	case OpRegister, OpIssueToken, OpRefreshToken:
		return nil
	case OpListNotes, OpCreateNote, OpDeleteNote:
		if caller == nil {
			return Unauthorized(op.String(), "Authentication credentials were not provided.")
		}
		return nil
	case OpCreateOrgUser, OpListOrgUsers, OpUpdateOrgUser, OpDeleteOrgUser:
		if caller == nil {
			return Unauthorized(op.String(), "Authentication credentials were not provided.")
		}
		if !caller.Role.IsAdmin() {
			return Forbidden(op.String(), adminOnlyMessage(op))
		}
		return nil
	default:
		return Internal(op.String(), fmt.Errorf("no policy for %s", op))
	}
}

// AuthorizeTarget decides an admin-only, same-organization, not-self operation against
// target, which is nil when no user matched the requested username. Checks run in a
// fixed order and the first failure is returned: role, existence, organization, self.
func AuthorizeTarget(caller *Caller, op Operation, target *Target) error {
	if err := Authorize(caller, op); err != nil {
		return err
	}

	switch op {
	case OpUpdateOrgUser, OpDeleteOrgUser:
	default:
		return Internal(op.String(), fmt.Errorf("%s has no target policy", op))
	}

	if target == nil {
		return NotFound(op.String(), "User not found.")
	}

	if !caller.InOrganization(target.OrganizationID) {
		switch op {
		case OpDeleteOrgUser:
			return Forbidden(op.String(), "You can only delete users in your organization.")
		default:
			return Forbidden(op.String(), "You can only update users in your organization.")
		}
	}

	if target.UserID == caller.UserID {
		switch op {
		case OpDeleteOrgUser:
			return Invalid(op.String(), "You cannot delete yourself.")
		default:
			return Forbidden(op.String(), "You cannot update your own data here.")
		}
	}

	return nil
}

func adminOnlyMessage(op Operation) string {
	switch op {
	case OpCreateOrgUser:
		return "Only admins can create users."
	case OpListOrgUsers:
		return "Only admins can list organization users."
	case OpUpdateOrgUser:
		return "Only admins can update users."
	case OpDeleteOrgUser:
		return "Only admins can delete users."
	default:
		return "Only admins can perform this action."
	}
}

// NoteScope returns the author id whose notes caller may see and delete.
func NoteScope(caller *Caller) uint {
	return caller.UserID
}

// OrgUserScope returns the organization whose users caller may list. ok is false
// when the caller has no organization, in which case the visible set is empty.
func OrgUserScope(caller *Caller) (orgID uint, ok bool) {
	if caller.OrganizationID == nil {
		return 0, false
	}
	return *caller.OrganizationID, true
}

// MemberRole resolves the role for a user an admin creates. Admins cannot mint
// other admins; an empty request gets DefaultMemberRole.
func MemberRole(requested string) (Role, error) {
	if requested == "" {
		return DefaultMemberRole, nil
	}

	role, err := ParseRole(requested)
	if err != nil {
		return "", Invalid(OpCreateOrgUser.String(), fmt.Sprintf("%q is not a valid role.", requested))
	}
	if role.IsAdmin() {
		return "", Invalid(OpCreateOrgUser.String(), "Organization users cannot be created as admins.")
	}
	return role, nil
}
