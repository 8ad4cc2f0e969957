package policy

import (
	"testing"

	"bookhaven.id/bookreview/pkg/auth"
	"github.com/google/uuid"
)

func TestCanModify(t *testing.T) {
	ownerID := uuid.New()

	owner := &auth.Claims{UserID: ownerID, Role: "user"}
	if !CanModify(owner, ownerID) {
		t.Fatalf("expected owner to be allowed")
	}

	stranger := &auth.Claims{UserID: uuid.New(), Role: "user"}
	if CanModify(stranger, ownerID) {
		t.Fatalf("expected non-owner to be denied")
	}

	admin := &auth.Claims{UserID: uuid.New(), Role: "admin"}
	if !CanModify(admin, ownerID) {
		t.Fatalf("expected admin override to be allowed")
	}

	if CanModify(nil, ownerID) {
		t.Fatalf("expected nil claims to be denied")
	}
}
