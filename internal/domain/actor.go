package domain

// Role represents the role forwarded by the identity provider
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated caller of an operation
// A therapist's user ID is the therapist ID used across the practice.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for practice administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsTherapist returns true if the actor is the given therapist
func (a Actor) IsTherapist(therapistID int64) bool {
	return a.Role == RoleTherapist && a.UserID == therapistID
}

// CanManageTherapist returns true if the actor may change the therapist's calendar
func (a Actor) CanManageTherapist(therapistID int64) bool {
	return a.IsAdmin() || a.IsTherapist(therapistID)
}

// CanAccessBooking returns true if the actor is the booking's client, its therapist or an admin
func (a Actor) CanAccessBooking(b *Booking) bool {
	if a.IsAdmin() || a.IsTherapist(b.TherapistID) {
		return true
	}
	return a.Role == RoleClient && a.UserID == b.ClientID
}
