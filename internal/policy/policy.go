// Package policy holds the owner-or-admin authorization rule shared by
// reviews, comments and images.
package policy

import (
	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/pkg/auth"
	"github.com/google/uuid"
)

// CanModify reports whether the requester may mutate or delete a resource
// owned by ownerID.
func CanModify(claims *auth.Claims, ownerID uuid.UUID) bool {
	if claims == nil {
		return false
	}
	return claims.UserID == ownerID || claims.Role == entity.RoleAdmin
}
