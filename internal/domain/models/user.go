// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the profile document backing an authenticated account.
//
// NOTE:
//   - A credential alone is not enough to sign in: the profile document
//     must exist and be active. New registrations get an empty role and
//     Active=false until an administrator promotes them.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	// Role is one of the authz role constants, or "" for a freshly
	// registered account awaiting promotion.
	Role      string `bson:"role" json:"role"`
	Active    bool   `bson:"active" json:"active"`
	TwoFactor bool   `bson:"two_factor" json:"two_factor"`

	// StateScope limits state_admin and field_officer users to one state.
	StateScope string `bson:"state_scope,omitempty" json:"state_scope,omitempty"`

	Preferences Preferences `bson:"preferences" json:"preferences"`

	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

// Preferences holds per-user UI preferences that must survive reloads.
type Preferences struct {
	Theme string `bson:"theme,omitempty" json:"theme,omitempty"` // "light" | "dark"
}
