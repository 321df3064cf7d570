package models

import (
	"encoding/json"
	"fmt"
)

// Role is the access role carried by a session
type Role string

const (
	RoleClient       Role = "CLIENT"
	RoleGestionnaire Role = "GESTIONNAIRE"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleGestionnaire, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether r may mutate claims and cancel contracts
func (r Role) IsStaff() bool {
	return r == RoleGestionnaire || r == RoleAdmin
}

// UnmarshalJSON rejects unknown roles
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Role(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown role: %q", raw)
	}
	*r = v
	return nil
}

// User is an account known to the auth service
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Nom      string `json:"nom,omitempty"`
	Prenom   string `json:"prenom,omitempty"`
	Email    string `json:"email"`
	Role     Role   `json:"role,omitempty"`
}

// LoginRequest is the credential payload forwarded to the auth service
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// LoginResponse is the normalized auth response. UserID may be absent in
// the raw upstream body and recovered from the token claims.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Telephone string `json:"telephone,omitempty"`
	Adresse   string `json:"adresse,omitempty"`
	Role      Role   `json:"role,omitempty"`
}
