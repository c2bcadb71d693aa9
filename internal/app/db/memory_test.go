package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq/internal/app/model"
)

func fixedClock() func() time.Time {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func seedUsers(t *testing.T, s *MemoryStore) (citizen, volunteer, admin *model.User) {
	t.Helper()
	ctx := context.Background()

	var err error
	citizen, err = s.CreateUser(ctx, CreateUserParams{Email: "c@resq.test", FullName: "Citizen", Role: model.RoleCitizen})
	require.NoError(t, err)
	volunteer, err = s.CreateUser(ctx, CreateUserParams{VolunteerID: "VOL123456", FullName: "Volunteer", Role: model.RoleVolunteer})
	require.NoError(t, err)
	admin, err = s.CreateUser(ctx, CreateUserParams{Email: "a@resq.test", FullName: "Admin", Role: model.RoleAdmin})
	require.NoError(t, err)
	return citizen, volunteer, admin
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWithClock(fixedClock())
	citizen, volunteer, _ := seedUsers(t, s)

	assert.Equal(t, model.VolunteerOffline, volunteer.VolunteerStatus)
	assert.Empty(t, citizen.VolunteerStatus)

	_, err := s.CreateUser(ctx, CreateUserParams{Email: "c@resq.test", Role: model.RoleCitizen})
	assert.True(t, IsUniqueViolation(err))

	found, err := s.FindUserByLogin(ctx, LoginVolunteerID, "VOL123456")
	require.NoError(t, err)
	assert.Equal(t, volunteer.ID, found.ID)

	_, err = s.FindUserByLogin(ctx, LoginPhone, "")
	assert.True(t, IsNotFound(err))

	moved, err := s.UpdateUserLocation(ctx, citizen.ID, LocationParams{Latitude: 27.7, Longitude: 85.3, Address: "Kathmandu"})
	require.NoError(t, err)
	assert.True(t, moved.HasLocation())

	_, err = s.UpdateVolunteerStatus(ctx, volunteer.ID, model.VolunteerOnline)
	require.NoError(t, err)
	online, err := s.ListUsers(ctx, UserFilter{Role: model.RoleVolunteer, VolunteerStatus: model.VolunteerOnline})
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, volunteer.ID, online[0].ID)

	name := "Renamed"
	updated, err := s.UpdateUserProfile(ctx, citizen.ID, UpdateProfileParams{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.Equal(t, "c@resq.test", updated.Email)

	_, err = s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWithClock(fixedClock())
	citizen, volunteer, _ := seedUsers(t, s)

	sos, err := s.CreateSOS(ctx, CreateSOSParams{CitizenID: citizen.ID, Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, sos.Status)

	task, err := s.CreateTask(ctx, CreateTaskParams{VolunteerID: volunteer.ID, SOSRequestID: &sos.ID, Notes: "bring water"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, task.Status)
	require.NotNil(t, task.SOSRequest)
	assert.Equal(t, model.StatusAssigned, task.SOSRequest.Status)
	assert.Equal(t, []int64{volunteer.ID, citizen.ID}, task.Participants())

	accepted := model.StatusAccepted
	task, err = s.UpdateTask(ctx, task.ID, UpdateTaskParams{Status: &accepted})
	require.NoError(t, err)
	assert.NotNil(t, task.AcceptedAt)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, "bring water", task.Notes)

	completed := model.StatusCompleted
	notes := "done"
	task, err = s.UpdateTask(ctx, task.ID, UpdateTaskParams{Status: &completed, Notes: &notes})
	require.NoError(t, err)
	assert.NotNil(t, task.CompletedAt)
	assert.Equal(t, "done", task.Notes)

	stored, err := s.GetSOS(ctx, sos.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status, "status mirrors onto the SOS request")

	mine, err := s.ListTasks(ctx, TaskFilter{CitizenID: citizen.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := s.ListTasks(ctx, TaskFilter{VolunteerID: volunteer.ID + 100})
	require.NoError(t, err)
	assert.Empty(t, others)

	missing := int64(404)
	_, err = s.CreateTask(ctx, CreateTaskParams{VolunteerID: volunteer.ID, IncidentReportID: &missing})
	assert.True(t, IsNotFound(err))
}

func TestMemoryMessages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWithClock(fixedClock())
	citizen, volunteer, admin := seedUsers(t, s)

	_, err := s.CreateMessage(ctx, CreateMessageParams{SenderID: citizen.ID, RecipientID: &volunteer.ID, Content: "help"})
	require.NoError(t, err)
	reply, err := s.CreateMessage(ctx, CreateMessageParams{SenderID: volunteer.ID, RecipientID: &citizen.ID, Content: "coming"})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, CreateMessageParams{SenderID: admin.ID, Content: "storm warning", IsBroadcast: true})
	require.NoError(t, err)

	convo, err := s.ListMessages(ctx, MessageFilter{UserID: citizen.ID, ContactID: volunteer.ID})
	require.NoError(t, err)
	require.Len(t, convo, 2)
	assert.Equal(t, "help", convo[0].Content)

	unread, err := s.CountUnread(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	_, err = s.MarkMessageRead(ctx, reply.ID)
	require.NoError(t, err)
	unread, err = s.CountUnread(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	broadcasts, err := s.ListBroadcasts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, "storm warning", broadcasts[0].Content)
}

func TestMemoryDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWithClock(fixedClock())
	citizen, volunteer, _ := seedUsers(t, s)

	sos, err := s.CreateSOS(ctx, CreateSOSParams{CitizenID: citizen.ID})
	require.NoError(t, err)
	_, err = s.CreateIncident(ctx, CreateIncidentParams{CitizenID: citizen.ID, IncidentType: model.IncidentFire, Title: "fire"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, CreateTaskParams{VolunteerID: volunteer.ID, SOSRequestID: &sos.ID})
	require.NoError(t, err)

	adminStats, err := s.DashboardStats(ctx, StatsScope{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{TotalSOS: 1, TotalIncidents: 1, PendingTasks: 1, TotalUsers: 1}, adminStats)

	volunteerStats, err := s.DashboardStats(ctx, StatsScope{Role: model.RoleVolunteer, UserID: volunteer.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), volunteerStats.PendingTasks)

	citizenStats, err := s.DashboardStats(ctx, StatsScope{Role: model.RoleCitizen, UserID: citizen.ID})
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{TotalSOS: 1, TotalIncidents: 1}, citizenStats)
}

func TestMemoryDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWithClock(fixedClock())
	citizen, volunteer, _ := seedUsers(t, s)

	sos, err := s.CreateSOS(ctx, CreateSOSParams{CitizenID: citizen.ID})
	require.NoError(t, err)
	task, err := s.CreateTask(ctx, CreateTaskParams{VolunteerID: volunteer.ID, SOSRequestID: &sos.ID})
	require.NoError(t, err)
	comment, err := s.CreateComment(ctx, CreateCommentParams{TaskID: task.ID, AuthorID: volunteer.ID, Content: "en route"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, citizen.ID))

	_, err = s.GetSOS(ctx, sos.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteUser(ctx, citizen.ID), ErrNotFound)
}
