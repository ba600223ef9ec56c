package profile

import "time"

// Role is the closed set of portal roles. Backend rows may carry arbitrary
// strings; ParseRole maps anything unrecognized to the lowest-privilege
// role so raw role strings never reach authorization logic.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

func ParseRole(raw string) Role {
	switch raw {
	case "admin":
		return RoleAdmin
	case "patient":
		return RolePatient
	default:
		return RolePatient
	}
}

// Profile is the identity record behind a verified phone number.
// It contains facts only, no decisions.
type Profile struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"` // canonical "+"-prefixed form
	Role      Role      `json:"profile_type"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
