/*
Package model contains the RESQ domain entities shared by persistence, the REST layer
and realtime event payloads.

Entities are plain structs with JSON tags matching the public API.
*/
package model

import "time"

// Role is the kind of account a user holds.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// VolunteerStatus is the durable availability flag a volunteer sets for themselves.
// It is independent from live presence in the realtime registry.
type VolunteerStatus string

const (
	VolunteerOnline  VolunteerStatus = "online"
	VolunteerOffline VolunteerStatus = "offline"
	VolunteerBusy    VolunteerStatus = "busy"
)

// Valid reports whether s is a known volunteer status.
func (s VolunteerStatus) Valid() bool {
	switch s {
	case VolunteerOnline, VolunteerOffline, VolunteerBusy:
		return true
	}
	return false
}

// User is an account of any role.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	VolunteerID  string `json:"volunteer_id,omitempty"`
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"is_active"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`

	VolunteerStatus VolunteerStatus `json:"volunteer_status,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasLocation reports whether the user has reported coordinates.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// UserLocation is the payload announced to administrators when a user moves.
type UserLocation struct {
	UserID    int64     `json:"user_id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VolunteerStatusChange is the payload announced when a volunteer changes availability.
type VolunteerStatusChange struct {
	UserID      int64           `json:"user_id"`
	FullName    string          `json:"full_name"`
	VolunteerID string          `json:"volunteer_id,omitempty"`
	Status      VolunteerStatus `json:"volunteer_status"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
