// Package session holds the per-request session context and the access
// scope resolver derived from it.
package session

import (
	"github.com/pfa-assurance/assurance-connector/internal/models"
)

// Session is the authenticated caller for one request: bearer token, user
// id and role. It is built once by the middleware and immutable afterwards.
type Session struct {
	Token  string
	UserID int64
	Role   models.Role
}

// Visibility is the breadth of data a session may list
type Visibility string

const (
	VisibilityOwn Visibility = "OWN"
	VisibilityAll Visibility = "ALL"
)

// Scope describes which listing a session is entitled to. For OWN scope
// OwnerID carries the client id the listing must be narrowed to.
type Scope struct {
	Visibility Visibility
	OwnerID    int64
}

// Scope resolves the access scope for this session. Clients see only
// their own records; staff see everything. The scope selects the upstream
// endpoint rather than filtering client-side.
func (s Session) Scope() Scope {
	if s.Role == models.RoleClient {
		return Scope{Visibility: VisibilityOwn, OwnerID: s.UserID}
	}
	return Scope{Visibility: VisibilityAll}
}

// CanManageSinistres reports whether the session may change claim status
// or delete claims
func (s Session) CanManageSinistres() bool {
	return s.Role.IsStaff()
}

// CanCancelContracts reports whether the session may cancel contracts
func (s Session) CanCancelContracts() bool {
	return s.Role.IsStaff()
}

// CanListUsers reports whether the session may list accounts
func (s Session) CanListUsers() bool {
	return s.Role.IsStaff()
}
