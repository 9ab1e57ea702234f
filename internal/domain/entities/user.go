package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role is a role an owner holds in the wider platform
type Role string

const (
	RoleRider    Role = "rider"
	RoleAgent    Role = "agent"
	RoleBusiness Role = "business"
	RoleClient   Role = "client"
	RoleAdmin    Role = "admin"
)

// Owner is a platform user that may own a wallet
type Owner struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasRole reports whether the owner holds role
func (o *Owner) HasRole(role Role) bool {
	for _, r := range o.Roles {
		if r == role {
			return true
		}
	}
	return false
}
