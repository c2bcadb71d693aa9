package realtime

import (
	"encoding/json"
	"fmt"
	"slices"

	"resq/internal/app/model"
)

// EventKind is the wire name of an event.
type EventKind string

// Outbound domain events.
const (
	KindSOSCreated             EventKind = "sos_created"
	KindIncidentCreated        EventKind = "incident_created"
	KindTaskAssigned           EventKind = "task_assigned"
	KindTaskUpdated            EventKind = "task_updated"
	KindBroadcastMessage       EventKind = "broadcast_message"
	KindUserLocationUpdated    EventKind = "user_location_updated"
	KindVolunteerStatusChanged EventKind = "volunteer_status_changed"
	KindNewMessage             EventKind = "new_message"
)

// Connection acknowledgements and errors sent to a single connection.
const (
	KindConnectionEstablished EventKind = "connection_established"
	KindAuthenticated         EventKind = "authenticated"
	KindJoinedRoom            EventKind = "joined_room"
	KindLeftRoom              EventKind = "left_room"
	KindError                 EventKind = "error"
)

// Inbound socket events.
const (
	KindAuthenticate EventKind = "authenticate"
	KindJoinRoom     EventKind = "join_room"
	KindLeaveRoom    EventKind = "leave_room"
	KindSendMessage  EventKind = "send_message"
)

type audienceKind int

const (
	audienceNone audienceKind = iota
	audienceUser
	audienceUsers
	audienceRoom
	audienceAll
)

// Audience describes who an event is for. Build it with ToUser, ToUsers, ToRoom or ToAll.
// The zero Audience reaches nobody.
type Audience struct {
	kind    audienceKind
	userIDs []int64
	room    string
}

// ToUser targets every connection of one user.
func ToUser(userID int64) Audience {
	return Audience{kind: audienceUser, userIDs: []int64{userID}}
}

// ToUsers targets every connection of each listed user.
// Ids <= 0 stand for an absent party and are skipped; duplicates are delivered once.
func ToUsers(userIDs ...int64) Audience {
	ids := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if id > 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return Audience{kind: audienceUsers, userIDs: ids}
}

// ToRoom targets the members of a room.
func ToRoom(room string) Audience {
	return Audience{kind: audienceRoom, room: room}
}

// ToAll targets every registered connection regardless of rooms.
func ToAll() Audience {
	return Audience{kind: audienceAll}
}

// String renders the audience for logs.
func (a Audience) String() string {
	switch a.kind {
	case audienceUser:
		return fmt.Sprintf("user:%d", a.userIDs[0])
	case audienceUsers:
		return fmt.Sprintf("users:%v", a.userIDs)
	case audienceRoom:
		return "room:" + a.room
	case audienceAll:
		return "all"
	}
	return "none"
}

// Event is one of the fixed set of domain events the router delivers.
type Event interface {
	Kind() EventKind
	Audience() Audience
	Data() any
}

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Event EventKind       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode serialises kind and data into an envelope frame.
func Encode(kind EventKind, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return json.Marshal(Envelope{Event: kind, Data: raw})
}

// SOSCreated announces a new SOS request to everyone.
type SOSCreated struct {
	SOS *model.SOSRequest
}

func (e SOSCreated) Kind() EventKind    { return KindSOSCreated }
func (e SOSCreated) Audience() Audience { return ToAll() }
func (e SOSCreated) Data() any          { return e.SOS }

// IncidentCreated announces a new incident report to everyone.
type IncidentCreated struct {
	Incident *model.IncidentReport
}

func (e IncidentCreated) Kind() EventKind    { return KindIncidentCreated }
func (e IncidentCreated) Audience() Audience { return ToAll() }
func (e IncidentCreated) Data() any          { return e.Incident }

// TaskAssigned notifies the assigned volunteer.
type TaskAssigned struct {
	Task        *model.Task
	VolunteerID int64
}

func (e TaskAssigned) Kind() EventKind    { return KindTaskAssigned }
func (e TaskAssigned) Audience() Audience { return ToUser(e.VolunteerID) }
func (e TaskAssigned) Data() any          { return e.Task }

// TaskUpdated notifies the task's volunteer and the citizens owning its target.
type TaskUpdated struct {
	Task    *model.Task
	UserIDs []int64
}

func (e TaskUpdated) Kind() EventKind    { return KindTaskUpdated }
func (e TaskUpdated) Audience() Audience { return ToUsers(e.UserIDs...) }
func (e TaskUpdated) Data() any          { return e.Task }

// BroadcastMessage fans an administrator broadcast out to everyone.
type BroadcastMessage struct {
	Message *model.Message
}

func (e BroadcastMessage) Kind() EventKind    { return KindBroadcastMessage }
func (e BroadcastMessage) Audience() Audience { return ToAll() }
func (e BroadcastMessage) Data() any          { return e.Message }

// UserLocationUpdated is delivered to the admin room only.
type UserLocationUpdated struct {
	Location model.UserLocation
}

func (e UserLocationUpdated) Kind() EventKind    { return KindUserLocationUpdated }
func (e UserLocationUpdated) Audience() Audience { return ToRoom(AdminRoom) }
func (e UserLocationUpdated) Data() any          { return e.Location }

// VolunteerStatusChanged announces a volunteer availability change to everyone.
type VolunteerStatusChanged struct {
	Change model.VolunteerStatusChange
}

func (e VolunteerStatusChanged) Kind() EventKind    { return KindVolunteerStatusChanged }
func (e VolunteerStatusChanged) Audience() Audience { return ToAll() }
func (e VolunteerStatusChanged) Data() any          { return e.Change }

// RelayPayload is what recipients of a socket-relayed message receive.
// Message is passed through untouched.
type RelayPayload struct {
	SenderID    int64           `json:"sender_id,omitempty"`
	RecipientID int64           `json:"recipient_id,omitempty"`
	Room        string          `json:"room,omitempty"`
	Message     json.RawMessage `json:"message"`
}

// RelayMessage is a transient message relayed between connections without persistence.
// A recipient user takes precedence over a room.
type RelayMessage struct {
	Payload RelayPayload
}

func (e RelayMessage) Kind() EventKind { return KindNewMessage }

func (e RelayMessage) Audience() Audience {
	if e.Payload.RecipientID > 0 {
		return ToUser(e.Payload.RecipientID)
	}
	if e.Payload.Room != "" {
		return ToRoom(e.Payload.Room)
	}
	return Audience{}
}

func (e RelayMessage) Data() any { return e.Payload }
