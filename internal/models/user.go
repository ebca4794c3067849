package models

import (
	"time"
)

// Role is the capacity a user acts in.
type Role string

const (
	RoleDonor     Role = "DONOR"
	RoleCollector Role = "COLLECTOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleCollector, RoleAdmin:
		return true
	}
	return false
}

// User represents a user in the system. Points is only ever changed through
// the ledger repository.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Role      Role      `bson:"role" json:"role"`
	Points    int64     `bson:"points" json:"points"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	UserID string
	Role   Role
}
