package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"resq/internal/app/model"
)

// MemoryStore is an in-memory Store. It enforces the same uniqueness and existence rules as
// the PostgreSQL schema so callers observe identical errors.
type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time

	nextUserID     int64
	nextSOSID      int64
	nextIncidentID int64
	nextTaskID     int64
	nextMessageID  int64
	nextCommentID  int64

	users     map[int64]*model.User
	sos       map[int64]*model.SOSRequest
	incidents map[int64]*model.IncidentReport
	tasks     map[int64]*model.Task
	messages  map[int64]*model.Message
	comments  map[int64]*model.Comment
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates a MemoryStore using time.Now().UTC().
func NewMemory() *MemoryStore {
	return NewMemoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryWithClock creates a MemoryStore with a custom clock.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		now:            now,
		nextUserID:     1,
		nextSOSID:      1,
		nextIncidentID: 1,
		nextTaskID:     1,
		nextMessageID:  1,
		nextCommentID:  1,
		users:          make(map[int64]*model.User),
		sos:            make(map[int64]*model.SOSRequest),
		incidents:      make(map[int64]*model.IncidentReport),
		tasks:          make(map[int64]*model.Task),
		messages:       make(map[int64]*model.Message),
		comments:       make(map[int64]*model.Comment),
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() {}

// sortedValues returns copies of the map values ordered by less.
func sortedValues[T any](m map[int64]*T, keep func(*T) bool, less func(a, b *T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, *v)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return less(&a, &b) })
	return out
}

func byID[T any](id func(*T) int64) func(a, b *T) int {
	return func(a, b *T) int { return int(id(a) - id(b)) }
}

func newestFirst[T any](at func(*T) time.Time, id func(*T) int64) func(a, b *T) int {
	return func(a, b *T) int {
		if c := at(b).Compare(at(a)); c != 0 {
			return c
		}
		return int(id(b) - id(a))
	}
}

// --- users ---

func (s *MemoryStore) CreateUser(_ context.Context, arg CreateUserParams) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if (arg.Email != "" && u.Email == arg.Email) ||
			(arg.Phone != "" && u.Phone == arg.Phone) ||
			(arg.VolunteerID != "" && u.VolunteerID == arg.VolunteerID) {
			return nil, fmt.Errorf("create user: %w", ErrDuplicate)
		}
	}

	now := s.now()
	u := &model.User{
		ID:           s.nextUserID,
		Email:        arg.Email,
		Phone:        arg.Phone,
		VolunteerID:  arg.VolunteerID,
		PasswordHash: arg.PasswordHash,
		FullName:     arg.FullName,
		Role:         arg.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if arg.Role == model.RoleVolunteer {
		u.VolunteerStatus = model.VolunteerOffline
	}
	s.nextUserID++
	s.users[u.ID] = u

	out := *u
	return &out, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryStore) FindUserByLogin(_ context.Context, field LoginField, value string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if value == "" {
		return nil, ErrNotFound
	}

	for _, u := range s.users {
		var got string
		switch field {
		case LoginEmail:
			got = u.Email
		case LoginPhone:
			got = u.Phone
		case LoginVolunteerID:
			got = u.VolunteerID
		default:
			return nil, fmt.Errorf("unknown login field %q", field)
		}
		if got == value {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// updateUser applies fn to the stored user and returns a copy.
func (s *MemoryStore) updateUser(id int64, fn func(u *model.User) error) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = s.now()

	out := *u
	return &out, nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, id int64, arg UpdateProfileParams) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) error {
		if arg.Phone != nil && *arg.Phone != "" && *arg.Phone != u.Phone {
			for _, other := range s.users {
				if other.ID != id && other.Phone == *arg.Phone {
					return fmt.Errorf("update user: %w", ErrDuplicate)
				}
			}
			u.Phone = *arg.Phone
		}
		if arg.FullName != nil {
			u.FullName = *arg.FullName
		}
		if arg.Address != nil {
			u.Address = *arg.Address
		}
		return nil
	})
}

func (s *MemoryStore) UpdateUserLocation(_ context.Context, id int64, arg LocationParams) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) error {
		lat, lon := arg.Latitude, arg.Longitude
		u.Latitude = &lat
		u.Longitude = &lon
		u.Address = arg.Address
		return nil
	})
}

func (s *MemoryStore) UpdateVolunteerStatus(_ context.Context, id int64, status model.VolunteerStatus) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) error {
		u.VolunteerStatus = status
		return nil
	})
}

func (s *MemoryStore) ListUsers(_ context.Context, filter UserFilter) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.users, func(u *model.User) bool {
		return (filter.Role == "" || u.Role == filter.Role) &&
			(filter.VolunteerStatus == "" || u.VolunteerStatus == filter.VolunteerStatus)
	}, byID(func(u *model.User) int64 { return u.ID })), nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)

	for _, t := range s.tasks {
		if t.VolunteerID != nil && *t.VolunteerID == id {
			t.VolunteerID = nil
		}
	}
	for sid, r := range s.sos {
		if r.CitizenID == id {
			s.deleteSOSLocked(sid)
		}
	}
	for iid, r := range s.incidents {
		if r.CitizenID == id {
			s.deleteIncidentLocked(iid)
		}
	}
	for mid, m := range s.messages {
		if m.SenderID == id || (m.RecipientID != nil && *m.RecipientID == id) {
			delete(s.messages, mid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// --- sos requests ---

func (s *MemoryStore) CreateSOS(_ context.Context, arg CreateSOSParams) (*model.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.CitizenID]; !ok {
		return nil, fmt.Errorf("create sos: citizen %d: %w", arg.CitizenID, ErrNotFound)
	}

	now := s.now()
	r := &model.SOSRequest{
		ID:        s.nextSOSID,
		CitizenID: arg.CitizenID,
		Latitude:  arg.Latitude,
		Longitude: arg.Longitude,
		Address:   arg.Address,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextSOSID++
	s.sos[r.ID] = r

	out := *r
	return &out, nil
}

func (s *MemoryStore) GetSOS(_ context.Context, id int64) (*model.SOSRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.sos[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryStore) ListSOS(_ context.Context, filter ReportFilter) ([]model.SOSRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.sos, func(r *model.SOSRequest) bool {
		return (filter.CitizenID == 0 || r.CitizenID == filter.CitizenID) &&
			(filter.Status == "" || r.Status == filter.Status)
	}, newestFirst(
		func(r *model.SOSRequest) time.Time { return r.CreatedAt },
		func(r *model.SOSRequest) int64 { return r.ID },
	)), nil
}

func (s *MemoryStore) UpdateSOSStatus(_ context.Context, id int64, status model.TaskStatus) (*model.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sos[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = s.now()

	out := *r
	return &out, nil
}

func (s *MemoryStore) DeleteSOS(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sos[id]; !ok {
		return ErrNotFound
	}
	s.deleteSOSLocked(id)
	return nil
}

func (s *MemoryStore) deleteSOSLocked(id int64) {
	delete(s.sos, id)
	for tid, t := range s.tasks {
		if t.SOSRequestID != nil && *t.SOSRequestID == id {
			s.deleteTaskLocked(tid)
		}
	}
}

// --- incident reports ---

func (s *MemoryStore) CreateIncident(_ context.Context, arg CreateIncidentParams) (*model.IncidentReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[arg.CitizenID]; !ok {
		return nil, fmt.Errorf("create incident: citizen %d: %w", arg.CitizenID, ErrNotFound)
	}

	now := s.now()
	r := &model.IncidentReport{
		ID:           s.nextIncidentID,
		CitizenID:    arg.CitizenID,
		IncidentType: arg.IncidentType,
		Title:        arg.Title,
		Description:  arg.Description,
		Latitude:     arg.Latitude,
		Longitude:    arg.Longitude,
		Address:      arg.Address,
		ImageKey:     arg.ImageKey,
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextIncidentID++
	s.incidents[r.ID] = r

	out := *r
	return &out, nil
}

func (s *MemoryStore) GetIncident(_ context.Context, id int64) (*model.IncidentReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *MemoryStore) ListIncidents(_ context.Context, filter ReportFilter) ([]model.IncidentReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.incidents, func(r *model.IncidentReport) bool {
		return (filter.CitizenID == 0 || r.CitizenID == filter.CitizenID) &&
			(filter.Status == "" || r.Status == filter.Status)
	}, newestFirst(
		func(r *model.IncidentReport) time.Time { return r.CreatedAt },
		func(r *model.IncidentReport) int64 { return r.ID },
	)), nil
}

func (s *MemoryStore) UpdateIncident(_ context.Context, id int64, arg UpdateIncidentParams) (*model.IncidentReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	if arg.Title != nil {
		r.Title = *arg.Title
	}
	if arg.Description != nil {
		r.Description = *arg.Description
	}
	if arg.Status != nil {
		r.Status = *arg.Status
	}
	if arg.ImageKey != nil {
		r.ImageKey = *arg.ImageKey
	}
	r.UpdatedAt = s.now()

	out := *r
	return &out, nil
}

func (s *MemoryStore) DeleteIncident(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incidents[id]; !ok {
		return ErrNotFound
	}
	s.deleteIncidentLocked(id)
	return nil
}

func (s *MemoryStore) deleteIncidentLocked(id int64) {
	delete(s.incidents, id)
	for tid, t := range s.tasks {
		if t.IncidentReportID != nil && *t.IncidentReportID == id {
			s.deleteTaskLocked(tid)
		}
	}
}

// --- tasks ---

// loadedTaskLocked returns a copy of t with copies of its targets attached.
func (s *MemoryStore) loadedTaskLocked(t *model.Task) *model.Task {
	out := *t
	if t.SOSRequestID != nil {
		if r, ok := s.sos[*t.SOSRequestID]; ok {
			cp := *r
			out.SOSRequest = &cp
		}
	}
	if t.IncidentReportID != nil {
		if r, ok := s.incidents[*t.IncidentReportID]; ok {
			cp := *r
			out.IncidentReport = &cp
		}
	}
	return &out
}

func (s *MemoryStore) CreateTask(_ context.Context, arg CreateTaskParams) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	var sos *model.SOSRequest
	if arg.SOSRequestID != nil {
		r, ok := s.sos[*arg.SOSRequestID]
		if !ok {
			return nil, fmt.Errorf("assign sos request: %w", ErrNotFound)
		}
		sos = r
	}
	var incident *model.IncidentReport
	if arg.IncidentReportID != nil {
		r, ok := s.incidents[*arg.IncidentReportID]
		if !ok {
			return nil, fmt.Errorf("assign incident: %w", ErrNotFound)
		}
		incident = r
	}

	if sos != nil {
		sos.Status = model.StatusAssigned
		sos.UpdatedAt = now
	}
	if incident != nil {
		incident.Status = model.StatusAssigned
		incident.UpdatedAt = now
	}

	volunteer := arg.VolunteerID
	t := &model.Task{
		ID:               s.nextTaskID,
		VolunteerID:      &volunteer,
		SOSRequestID:     arg.SOSRequestID,
		IncidentReportID: arg.IncidentReportID,
		Status:           model.StatusAssigned,
		AssignedAt:       now,
		Notes:            arg.Notes,
	}
	s.nextTaskID++
	s.tasks[t.ID] = t

	return s.loadedTaskLocked(t), nil
}

func (s *MemoryStore) GetTask(_ context.Context, id int64) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.loadedTaskLocked(t), nil
}

func (s *MemoryStore) ListTasks(_ context.Context, filter TaskFilter) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.tasks, func(t *model.Task) bool {
		if filter.VolunteerID != 0 && (t.VolunteerID == nil || *t.VolunteerID != filter.VolunteerID) {
			return false
		}
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.CitizenID != 0 {
			owned := false
			if t.SOSRequestID != nil {
				if r, ok := s.sos[*t.SOSRequestID]; ok && r.CitizenID == filter.CitizenID {
					owned = true
				}
			}
			if t.IncidentReportID != nil {
				if r, ok := s.incidents[*t.IncidentReportID]; ok && r.CitizenID == filter.CitizenID {
					owned = true
				}
			}
			return owned
		}
		return true
	}, newestFirst(
		func(t *model.Task) time.Time { return t.AssignedAt },
		func(t *model.Task) int64 { return t.ID },
	)), nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, id int64, arg UpdateTaskParams) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}

	if arg.Notes != nil && *arg.Notes != "" {
		t.Notes = *arg.Notes
	}
	if arg.Status != nil {
		now := s.now()
		applyTaskStatus(t, *arg.Status, now)

		if t.SOSRequestID != nil {
			if r, ok := s.sos[*t.SOSRequestID]; ok {
				r.Status = t.Status
				r.UpdatedAt = now
			}
		}
		if t.IncidentReportID != nil {
			if r, ok := s.incidents[*t.IncidentReportID]; ok {
				r.Status = t.Status
				r.UpdatedAt = now
			}
		}
	}

	return s.loadedTaskLocked(t), nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	s.deleteTaskLocked(id)
	return nil
}

func (s *MemoryStore) deleteTaskLocked(id int64) {
	delete(s.tasks, id)
	for mid, m := range s.messages {
		if m.TaskID != nil && *m.TaskID == id {
			delete(s.messages, mid)
		}
	}
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
}

// --- messages ---

func (s *MemoryStore) CreateMessage(_ context.Context, arg CreateMessageParams) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if arg.RecipientID != nil {
		if _, ok := s.users[*arg.RecipientID]; !ok {
			return nil, fmt.Errorf("create message: recipient: %w", ErrNotFound)
		}
	}
	if arg.TaskID != nil {
		if _, ok := s.tasks[*arg.TaskID]; !ok {
			return nil, fmt.Errorf("create message: task: %w", ErrNotFound)
		}
	}

	m := &model.Message{
		ID:          s.nextMessageID,
		SenderID:    arg.SenderID,
		RecipientID: arg.RecipientID,
		TaskID:      arg.TaskID,
		Content:     arg.Content,
		IsBroadcast: arg.IsBroadcast,
		CreatedAt:   s.now(),
	}
	s.nextMessageID++
	s.messages[m.ID] = m

	out := *m
	return &out, nil
}

func (s *MemoryStore) GetMessage(_ context.Context, id int64) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *m
	return &out, nil
}

func isTo(m *model.Message, userID int64) bool {
	return m.RecipientID != nil && *m.RecipientID == userID
}

func oldestFirst(a, b *model.Message) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return int(a.ID - b.ID)
}

func (s *MemoryStore) ListMessages(_ context.Context, filter MessageFilter) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Message
	switch {
	case filter.TaskID > 0:
		out = sortedValues(s.messages, func(m *model.Message) bool {
			return m.TaskID != nil && *m.TaskID == filter.TaskID
		}, oldestFirst)

	case filter.ContactID > 0:
		out = sortedValues(s.messages, func(m *model.Message) bool {
			return (m.SenderID == filter.UserID && isTo(m, filter.ContactID)) ||
				(m.SenderID == filter.ContactID && isTo(m, filter.UserID))
		}, oldestFirst)

	default:
		out = sortedValues(s.messages, func(m *model.Message) bool {
			return m.SenderID == filter.UserID || isTo(m, filter.UserID)
		}, func(a, b *model.Message) int { return oldestFirst(b, a) })
	}

	if limit := listLimit(filter.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListBroadcasts(_ context.Context, limit int) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := sortedValues(s.messages, func(m *model.Message) bool { return m.IsBroadcast },
		func(a, b *model.Message) int { return oldestFirst(b, a) })
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) MarkMessageRead(_ context.Context, id int64) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.IsRead = true

	out := *m
	return &out, nil
}

func (s *MemoryStore) CountUnread(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.messages {
		if isTo(m, userID) && !m.IsRead {
			n++
		}
	}
	return n, nil
}

// --- comments ---

func (s *MemoryStore) CreateComment(_ context.Context, arg CreateCommentParams) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[arg.TaskID]; !ok {
		return nil, fmt.Errorf("create comment: task: %w", ErrNotFound)
	}

	c := &model.Comment{
		ID:        s.nextCommentID,
		TaskID:    arg.TaskID,
		AuthorID:  arg.AuthorID,
		Content:   arg.Content,
		CreatedAt: s.now(),
	}
	s.nextCommentID++
	s.comments[c.ID] = c

	out := *c
	return &out, nil
}

func (s *MemoryStore) GetComment(_ context.Context, id int64) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *MemoryStore) ListComments(_ context.Context, taskID int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.comments, func(c *model.Comment) bool { return c.TaskID == taskID },
		byID(func(c *model.Comment) int64 { return c.ID })), nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// --- dashboard ---

func (s *MemoryStore) DashboardStats(_ context.Context, scope StatsScope) (*model.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st model.DashboardStats

	switch scope.Role {
	case model.RoleAdmin:
		st.TotalSOS = int64(len(s.sos))
		st.TotalIncidents = int64(len(s.incidents))
		for _, t := range s.tasks {
			switch t.Status {
			case model.StatusPending, model.StatusAssigned:
				st.PendingTasks++
			case model.StatusCompleted:
				st.ResolvedTasks++
			}
		}
		for _, u := range s.users {
			if u.Role == model.RoleVolunteer && u.VolunteerStatus == model.VolunteerOnline {
				st.ActiveVolunteers++
			}
			if u.Role == model.RoleCitizen {
				st.TotalUsers++
			}
		}

	case model.RoleVolunteer:
		for _, r := range s.sos {
			if r.Status != model.StatusCompleted {
				st.TotalSOS++
			}
		}
		for _, r := range s.incidents {
			if r.Status != model.StatusCompleted {
				st.TotalIncidents++
			}
		}
		for _, t := range s.tasks {
			if t.VolunteerID == nil || *t.VolunteerID != scope.UserID {
				continue
			}
			switch t.Status {
			case model.StatusAssigned, model.StatusAccepted, model.StatusResponding:
				st.PendingTasks++
			case model.StatusCompleted:
				st.ResolvedTasks++
			}
		}

	default:
		for _, r := range s.sos {
			if r.CitizenID == scope.UserID {
				st.TotalSOS++
			}
		}
		for _, r := range s.incidents {
			if r.CitizenID == scope.UserID {
				st.TotalIncidents++
			}
		}
	}

	return &st, nil
}
