package domain

// AuthDecision is a pre-checked authorization result handed to the catalog by
// the boundary layer. The catalog never inspects roles itself.
type AuthDecision struct {
	Allowed bool
	Reason  string
}

// Allow returns a granting decision.
func Allow() AuthDecision {
	return AuthDecision{Allowed: true}
}

// Deny returns a denying decision with a human-readable reason.
func Deny(reason string) AuthDecision {
	return AuthDecision{Allowed: false, Reason: reason}
}

// Scope selects the subset of the catalog an operation runs over: a single
// owner's images, or the entire catalog when OwnerID is zero.
type Scope struct {
	OwnerID int64
}

// EntireCatalog reports whether the scope covers the whole catalog.
func (s Scope) EntireCatalog() bool {
	return s.OwnerID == 0
}

// OwnedBy scopes to a single owner's images.
func OwnedBy(ownerID int64) Scope {
	return Scope{OwnerID: ownerID}
}

// AllImages scopes to the entire catalog.
func AllImages() Scope {
	return Scope{}
}
