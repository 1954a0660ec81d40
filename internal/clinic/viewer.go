package clinic

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a viewer attempts an admin-only operation.
var ErrForbidden = errors.New("forbidden: admin role required")

// Viewer is the capability of a signed-in user, resolved once per session.
//
// The interface is sealed: AdminViewer and TherapistViewer are the only
// implementations, so every role decision is made by a type switch or by the
// methods below rather than by comparing role strings at call sites.
type Viewer interface {
	User() User
	// CanManage reports whether the viewer may assign therapists and import data.
	CanManage() bool
	// Sees reports whether a record owned by therapistID is visible.
	Sees(therapistID *string) bool

	sealed()
}

// AdminViewer sees every record and may manage assignments and imports.
type AdminViewer struct {
	Account User
}

func (v AdminViewer) User() User { return v.Account }

func (v AdminViewer) CanManage() bool { return true }

func (v AdminViewer) Sees(*string) bool { return true }

func (AdminViewer) sealed() {}

// TherapistViewer sees only records assigned to their own therapist id.
type TherapistViewer struct {
	Account     User
	TherapistID string
}

func (v TherapistViewer) User() User { return v.Account }

func (v TherapistViewer) CanManage() bool { return false }

func (v TherapistViewer) Sees(therapistID *string) bool {
	return therapistID != nil && *therapistID == v.TherapistID
}

func (TherapistViewer) sealed() {}

// ViewerFor resolves the capability of a user from its role.
func ViewerFor(u User) (Viewer, error) {
	switch u.Role {
	case RoleAdmin:
		return AdminViewer{Account: u}, nil
	case RoleTherapist:
		if u.TherapistID == "" {
			return nil, fmt.Errorf("user %s: therapist role without therapist id", u.ID)
		}
		return TherapistViewer{Account: u, TherapistID: u.TherapistID}, nil
	default:
		return nil, fmt.Errorf("user %s: unknown role %q", u.ID, u.Role)
	}
}

// RequireManage returns ErrForbidden unless the viewer may manage data.
func RequireManage(v Viewer) error {
	if v == nil || !v.CanManage() {
		return ErrForbidden
	}
	return nil
}
