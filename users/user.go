// Package users manages user accounts and role capabilities. Roles live only
// at this boundary; the catalog consumes pre-checked authorization decisions.
package users

import "time"

const (
	RoleViewer    = "viewer"
	RoleTagger    = "tagger"
	RoleUploader  = "uploader"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is an account able to authenticate against the server.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// ValidRole reports whether the role string is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleViewer, RoleTagger, RoleUploader, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanUpload reports whether the role may upload new images.
func CanUpload(role string) bool {
	return role == RoleUploader || role == RoleModerator || role == RoleAdmin
}

// CanTag reports whether the role may add or remove tags.
func CanTag(role string) bool {
	return role == RoleTagger || CanUpload(role)
}

// CanDelete reports whether the role may delete images or manually index
// blobs.
func CanDelete(role string) bool {
	return role == RoleModerator || role == RoleAdmin
}

// CanEditDescription reports whether the role may edit descriptions.
func CanEditDescription(role string) bool {
	return role == RoleAdmin
}

// CanSync reports whether the role may run a filesystem sync.
func CanSync(role string) bool {
	return role == RoleAdmin
}

// CanManageUsers reports whether the role may create accounts.
func CanManageUsers(role string) bool {
	return role == RoleAdmin
}
