package model

import "time"

// TaskStatus is shared by tasks and the SOS requests / incidents they serve.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusAssigned   TaskStatus = "assigned"
	StatusAccepted   TaskStatus = "accepted"
	StatusResponding TaskStatus = "responding"
	StatusOnSite     TaskStatus = "on_site"
	StatusCompleted  TaskStatus = "completed"
	StatusRejected   TaskStatus = "rejected"
	StatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusAccepted, StatusResponding,
		StatusOnSite, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IncidentType classifies an incident report.
type IncidentType string

const (
	IncidentSOS             IncidentType = "sos"
	IncidentFire            IncidentType = "fire"
	IncidentMedical         IncidentType = "medical"
	IncidentAccident        IncidentType = "accident"
	IncidentNaturalDisaster IncidentType = "natural_disaster"
	IncidentCrime           IncidentType = "crime"
	IncidentOther           IncidentType = "other"
)

// Valid reports whether t is a known incident type.
func (t IncidentType) Valid() bool {
	switch t {
	case IncidentSOS, IncidentFire, IncidentMedical, IncidentAccident,
		IncidentNaturalDisaster, IncidentCrime, IncidentOther:
		return true
	}
	return false
}

// SOSRequest is a one-tap emergency raised by a citizen at a location.
type SOSRequest struct {
	ID        int64      `json:"id"`
	CitizenID int64      `json:"citizen_id"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Address   string     `json:"address,omitempty"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IncidentReport is a described incident raised by a citizen.
type IncidentReport struct {
	ID           int64        `json:"id"`
	CitizenID    int64        `json:"citizen_id"`
	IncidentType IncidentType `json:"incident_type"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	Address      string       `json:"address,omitempty"`
	ImageKey     string       `json:"image_key,omitempty"`
	Status       TaskStatus   `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Task assigns a volunteer to an SOS request or an incident.
// SOSRequest and IncidentReport are populated when the task is loaded with its target.
type Task struct {
	ID               int64      `json:"id"`
	VolunteerID      *int64     `json:"volunteer_id"`
	SOSRequestID     *int64     `json:"sos_request_id"`
	IncidentReportID *int64     `json:"incident_report_id"`
	Status           TaskStatus `json:"status"`
	AssignedAt       time.Time  `json:"assigned_at"`
	AcceptedAt       *time.Time `json:"accepted_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	Notes            string     `json:"notes,omitempty"`

	SOSRequest     *SOSRequest     `json:"sos_request,omitempty"`
	IncidentReport *IncidentReport `json:"incident_report,omitempty"`
}

// Participants returns the users concerned by the task: the assigned volunteer and the
// citizens owning the linked SOS request or incident. Missing parties are reported as 0.
func (t *Task) Participants() []int64 {
	ids := []int64{deref(t.VolunteerID)}
	if t.SOSRequest != nil {
		ids = append(ids, t.SOSRequest.CitizenID)
	}
	if t.IncidentReport != nil {
		ids = append(ids, t.IncidentReport.CitizenID)
	}
	return ids
}

// IsParticipant reports whether userID is the volunteer or an owning citizen of the task.
func (t *Task) IsParticipant(userID int64) bool {
	for _, id := range t.Participants() {
		if id != 0 && id == userID {
			return true
		}
	}
	return false
}

// NearbyWork is an unassigned SOS request or incident close to a volunteer.
type NearbyWork struct {
	SOSRequest     *SOSRequest     `json:"sos_request,omitempty"`
	IncidentReport *IncidentReport `json:"incident_report,omitempty"`
	DistanceKm     float64         `json:"distance_km"`
}

// DashboardStats are role-scoped counters for the dashboard.
type DashboardStats struct {
	TotalSOS         int64 `json:"total_sos"`
	TotalIncidents   int64 `json:"total_incidents"`
	PendingTasks     int64 `json:"pending_tasks"`
	ActiveVolunteers int64 `json:"active_volunteers"`
	TotalUsers       int64 `json:"total_users"`
	ResolvedTasks    int64 `json:"resolved_tasks"`
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
