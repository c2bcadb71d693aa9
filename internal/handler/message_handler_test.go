package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/app/realtime"
	"resq/internal/pkg/errs"
)

func TestDirectMessagesAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	sender, senderToken := env.newUser(t, model.RoleVolunteer, "v@resq.test")
	recipient, recipientToken := env.newUser(t, model.RoleCitizen, "c@resq.test")

	_, res := env.call(t, http.MethodPost, "/api/messages/", senderToken, SendMessageInput{Content: "hello"})
	assert.Equal(t, errs.ErrInvalidParams, res.Code)

	_, res = env.call(t, http.MethodPost, "/api/messages/", senderToken, SendMessageInput{RecipientID: ptr(int64(404)), Content: "hello"})
	assert.Equal(t, errs.ErrRecipientNotFound, res.Code)

	status, res := env.call(t, http.MethodPost, "/api/messages/", senderToken, SendMessageInput{
		RecipientID: &recipient.ID,
		Content:     "  on my way  ",
	})
	require.Equal(t, http.StatusOK, status, res.Message)

	var sent model.Message
	res.decode(t, &sent)
	assert.Equal(t, "on my way", sent.Content)
	assert.Equal(t, sender.ID, sent.SenderID)
	assert.Empty(t, env.notifier.kinds(), "direct messages are not pushed")

	_, res = env.call(t, http.MethodGet, "/api/messages/unread/count", recipientToken, nil)
	var count map[string]int64
	res.decode(t, &count)
	assert.Equal(t, int64(1), count["unread_count"])

	status, _ = env.call(t, http.MethodPut, path("/api/messages/%d/read", sent.ID), senderToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodPut, path("/api/messages/%d/read", sent.ID), recipientToken, nil)
	require.Equal(t, http.StatusOK, status)

	_, res = env.call(t, http.MethodGet, "/api/messages/unread/count", recipientToken, nil)
	res.decode(t, &count)
	assert.Equal(t, int64(0), count["unread_count"])

	_, res = env.call(t, http.MethodGet, path("/api/messages/?contact_id=%d", sender.ID), recipientToken, nil)
	var thread []model.Message
	res.decode(t, &thread)
	require.Len(t, thread, 1)
	assert.True(t, thread[0].IsRead)
}

func TestBroadcastsAreAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, citizenToken := env.newUser(t, model.RoleCitizen, "c@resq.test")
	_, adminToken := env.newUser(t, model.RoleAdmin, "a@resq.test")

	status, _ := env.call(t, http.MethodPost, "/api/messages/", citizenToken, SendMessageInput{IsBroadcast: true, Content: "all"})
	assert.Equal(t, http.StatusForbidden, status)

	status, res := env.call(t, http.MethodPost, "/api/messages/", adminToken, SendMessageInput{IsBroadcast: true, Content: "Evacuate zone B"})
	require.Equal(t, http.StatusOK, status, res.Message)

	var sent model.Message
	res.decode(t, &sent)
	assert.True(t, sent.IsBroadcast)
	assert.Nil(t, sent.RecipientID)

	call := env.notifier.last(t)
	assert.Equal(t, realtime.KindBroadcastMessage, call.kind)
	assert.Equal(t, sent.ID, call.payload.(*model.Message).ID)

	_, res = env.call(t, http.MethodGet, "/api/messages/broadcasts", citizenToken, nil)
	var broadcasts []model.Message
	res.decode(t, &broadcasts)
	require.Len(t, broadcasts, 1)

	status, _ = env.call(t, http.MethodPut, path("/api/messages/%d/read", sent.ID), citizenToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTaskThreadAndComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	citizen, citizenToken := env.newUser(t, model.RoleCitizen, "c@resq.test")
	volunteer, volunteerToken := env.newUser(t, model.RoleVolunteer, "v@resq.test")
	_, outsiderToken := env.newUser(t, model.RoleVolunteer, "v2@resq.test")
	_, adminToken := env.newUser(t, model.RoleAdmin, "a@resq.test")

	sos, err := env.store.CreateSOS(ctx, db.CreateSOSParams{CitizenID: citizen.ID, Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	task, err := env.store.CreateTask(ctx, db.CreateTaskParams{VolunteerID: volunteer.ID, SOSRequestID: &sos.ID})
	require.NoError(t, err)

	status, _ := env.call(t, http.MethodPost, "/api/messages/", outsiderToken, SendMessageInput{TaskID: &task.ID, Content: "hi"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodPost, "/api/messages/", citizenToken, SendMessageInput{TaskID: &task.ID, Content: "Second floor"})
	require.Equal(t, http.StatusOK, status)

	_, res := env.call(t, http.MethodGet, path("/api/messages/?task_id=%d", task.ID), volunteerToken, nil)
	var thread []model.Message
	res.decode(t, &thread)
	require.Len(t, thread, 1)
	assert.Equal(t, "Second floor", thread[0].Content)

	status, _ = env.call(t, http.MethodGet, path("/api/messages/?task_id=%d", task.ID), outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodPost, "/api/comments/", outsiderToken, CreateCommentInput{TaskID: task.ID, Content: "x"})
	assert.Equal(t, http.StatusForbidden, status)

	status, res = env.call(t, http.MethodPost, "/api/comments/", volunteerToken, CreateCommentInput{TaskID: task.ID, Content: "Arrived"})
	require.Equal(t, http.StatusOK, status, res.Message)
	var comment model.Comment
	res.decode(t, &comment)
	assert.Equal(t, volunteer.ID, comment.AuthorID)

	_, res = env.call(t, http.MethodGet, path("/api/comments/task/%d", task.ID), citizenToken, nil)
	var comments []model.Comment
	res.decode(t, &comments)
	assert.Len(t, comments, 1)

	status, _ = env.call(t, http.MethodDelete, path("/api/comments/%d", comment.ID), citizenToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(t, http.MethodDelete, path("/api/comments/%d", comment.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	_, res = env.call(t, http.MethodDelete, path("/api/comments/%d", comment.ID), adminToken, nil)
	assert.Equal(t, errs.ErrCommentNotFound, res.Code)
}

func TestDashboardStatsAreScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	citizen, citizenToken := env.newUser(t, model.RoleCitizen, "c@resq.test")
	other, _ := env.newUser(t, model.RoleCitizen, "c2@resq.test")
	_, adminToken := env.newUser(t, model.RoleAdmin, "a@resq.test")

	for _, owner := range []int64{citizen.ID, other.ID, other.ID} {
		_, err := env.store.CreateSOS(ctx, db.CreateSOSParams{CitizenID: owner, Latitude: 1, Longitude: 1})
		require.NoError(t, err)
	}

	_, res := env.call(t, http.MethodGet, "/api/dashboard/stats", citizenToken, nil)
	var mine model.DashboardStats
	res.decode(t, &mine)
	assert.Equal(t, int64(1), mine.TotalSOS)

	_, res = env.call(t, http.MethodGet, "/api/dashboard/stats", adminToken, nil)
	var all model.DashboardStats
	res.decode(t, &all)
	assert.Equal(t, int64(3), all.TotalSOS)
	assert.Equal(t, int64(2), all.TotalUsers, "citizens only")
}
