package models

import "github.com/orgnotes/orgnotes/internal/authz"

type User struct {
	BaseModel

	Username       string     `gorm:"size:150;uniqueIndex;not null"`
	Email          string     `gorm:"size:254"`
	PasswordHash   string     `gorm:"not null"`
	Role           authz.Role `gorm:"type:varchar(20);not null"`
	OrganizationID *uint      `gorm:"index"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// OrganizationName returns the name of the user's organization, or nil when the user
// has none or it was not loaded.
func (u *User) OrganizationName() *string {
	if u.Organization == nil {
		return nil
	}
	name := u.Organization.Name
	return &name
}

// Caller builds the identity the authorization core decides on.
func (u *User) Caller() *authz.Caller {
	return &authz.Caller{
		UserID:           u.ID,
		Username:         u.Username,
		Role:             u.Role,
		OrganizationID:   u.OrganizationID,
		OrganizationName: u.OrganizationName(),
	}
}
