package realtime

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"resq/internal/app/model"
	"resq/internal/pkg/logx"
)

// Notifier is the narrow interface the request-handling layer uses to announce state changes.
// Calls are fire-and-forget.
type Notifier interface {
	NotifySOSCreated(sos *model.SOSRequest)
	NotifyIncidentCreated(incident *model.IncidentReport)
	NotifyTaskAssigned(task *model.Task, volunteerID int64)
	NotifyTaskUpdated(task *model.Task, userIDs []int64)
	NotifyBroadcast(message *model.Message)
	NotifyUserLocationUpdated(location model.UserLocation)
	NotifyVolunteerStatusChanged(change model.VolunteerStatusChange)
}

// DispatchStats are cumulative router counters.
type DispatchStats struct {
	Dispatched int64 `json:"dispatched"`
	Delivered  int64 `json:"delivered"`
	Failed     int64 `json:"failed"`
	Dropped    int64 `json:"dropped"`
}

// Router resolves event audiences to live connections and delivers the encoded event.
type Router struct {
	registry *Registry
	rooms    *Rooms

	dispatched atomic.Int64
	delivered  atomic.Int64
	failed     atomic.Int64
	dropped    atomic.Int64

	logger zerolog.Logger
}

var _ Notifier = (*Router)(nil)

// NewRouter returns a router reading from registry and rooms.
func NewRouter(registry *Registry, rooms *Rooms) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		logger:   logx.Component("realtime.router"),
	}
}

// Dispatch delivers ev to every connection in its audience and returns how many accepted it.
// The payload is encoded once; every recipient gets the same bytes. Failures are logged per
// connection and never stop delivery to the others.
func (r *Router) Dispatch(ev Event) int {
	r.dispatched.Add(1)

	audience := ev.Audience()
	recipients := r.resolve(audience)
	if len(recipients) == 0 {
		r.dropped.Add(1)
		r.logger.Debug().
			Str("event", string(ev.Kind())).
			Stringer("audience", audience).
			Msg("No live recipients, event dropped")
		return 0
	}

	frame, err := Encode(ev.Kind(), ev.Data())
	if err != nil {
		r.failed.Add(int64(len(recipients)))
		r.logger.Error().Err(err).Str("event", string(ev.Kind())).Msg("Failed to encode event")
		return 0
	}

	sent := 0
	for _, conn := range recipients {
		if err := deliver(conn, frame); err != nil {
			r.failed.Add(1)
			r.logger.Warn().Err(err).
				Str("event", string(ev.Kind())).
				Str("conn_id", conn.ID()).
				Msg("Delivery to connection failed")
			continue
		}
		sent++
	}
	r.delivered.Add(int64(sent))

	r.logger.Debug().
		Str("event", string(ev.Kind())).
		Stringer("audience", audience).
		Int("recipients", len(recipients)).
		Int("delivered", sent).
		Msg("Event dispatched")

	return sent
}

// resolve copies the audience's connections out of the indexes; no lock is held afterwards.
func (r *Router) resolve(a Audience) []Conn {
	switch a.kind {
	case audienceUser:
		return r.registry.ConnectionsFor(a.userIDs[0])

	case audienceUsers:
		var out []Conn
		seen := make(map[string]struct{})
		for _, id := range a.userIDs {
			for _, c := range r.registry.ConnectionsFor(id) {
				if _, dup := seen[c.ID()]; dup {
					continue
				}
				seen[c.ID()] = struct{}{}
				out = append(out, c)
			}
		}
		return out

	case audienceRoom:
		return r.rooms.MembersOf(a.room)

	case audienceAll:
		return r.registry.All()
	}

	return nil
}

// deliver pushes frame to conn, turning a panicking transport into an error.
func deliver(conn Conn, frame []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("send panicked: %v", rec)
		}
	}()
	return conn.Send(frame)
}

// Stats returns a snapshot of the router counters.
func (r *Router) Stats() DispatchStats {
	return DispatchStats{
		Dispatched: r.dispatched.Load(),
		Delivered:  r.delivered.Load(),
		Failed:     r.failed.Load(),
		Dropped:    r.dropped.Load(),
	}
}

// NotifySOSCreated implements Notifier.
func (r *Router) NotifySOSCreated(sos *model.SOSRequest) {
	r.Dispatch(SOSCreated{SOS: sos})
}

// NotifyIncidentCreated implements Notifier.
func (r *Router) NotifyIncidentCreated(incident *model.IncidentReport) {
	r.Dispatch(IncidentCreated{Incident: incident})
}

// NotifyTaskAssigned implements Notifier.
func (r *Router) NotifyTaskAssigned(task *model.Task, volunteerID int64) {
	r.Dispatch(TaskAssigned{Task: task, VolunteerID: volunteerID})
}

// NotifyTaskUpdated implements Notifier.
func (r *Router) NotifyTaskUpdated(task *model.Task, userIDs []int64) {
	r.Dispatch(TaskUpdated{Task: task, UserIDs: userIDs})
}

// NotifyBroadcast implements Notifier.
func (r *Router) NotifyBroadcast(message *model.Message) {
	r.Dispatch(BroadcastMessage{Message: message})
}

// NotifyUserLocationUpdated implements Notifier.
func (r *Router) NotifyUserLocationUpdated(location model.UserLocation) {
	r.Dispatch(UserLocationUpdated{Location: location})
}

// NotifyVolunteerStatusChanged implements Notifier.
func (r *Router) NotifyVolunteerStatusChanged(change model.VolunteerStatusChange) {
	r.Dispatch(VolunteerStatusChanged{Change: change})
}
