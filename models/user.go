package models

import (
	"strings"
	"time"
)

// User roles
const (
	RoleRegistrar = "Registrar"
	RoleJudge     = "Judge"
	RoleLawyer    = "Lawyer"
	RolePolice    = "Police"
	RoleUser      = "User"
)

// Roles lists every role a user may hold
var Roles = []string{RoleRegistrar, RoleJudge, RoleLawyer, RolePolice, RoleUser}

// StaffRoles may read case records directly. Users reach case detail only through an
// approved access request.
var StaffRoles = []string{RoleRegistrar, RoleJudge, RoleLawyer, RolePolice}

// CanonicalRole returns the canonical spelling of role, or "" when it is unknown
func CanonicalRole(role string) string {
	for _, r := range Roles {
		if strings.EqualFold(r, role) {
			return r
		}
	}
	return ""
}

// User holds the structure for the users collection in mongo
type User struct {
	ID           string    `json:"id" bson:"id"`
	FullName     string    `json:"fullName" bson:"fullName"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	Bio          string    `json:"bio" bson:"bio"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// NewUser holds the fields accepted on signup and registrar user creation
type NewUser struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// Credentials holds a login attempt. Identifier may be an email or a user id.
type Credentials struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" validate:"required"`
}

// Key returns whichever login key was supplied
func (c Credentials) Key() string {
	if c.Identifier != "" {
		return c.Identifier
	}
	return c.Email
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Valid reports whether the actor carries an identity
func (a Actor) Valid() bool {
	return a.ID != "" && a.Role != ""
}

// Is reports whether the actor holds role
func (a Actor) Is(role string) bool {
	return strings.EqualFold(a.Role, role)
}
