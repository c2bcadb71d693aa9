package handler

import (
	"net/http"
	"strconv"
	"strings"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

const maxMessageLength = 4000

type SendMessageInput struct {
	RecipientID *int64 `json:"recipient_id"`
	TaskID      *int64 `json:"task_id"`
	Content     string `json:"content"`
	IsBroadcast bool   `json:"is_broadcast"`
}

// HandleSendMessage persists a direct, task or broadcast message. Only admins may broadcast;
// a stored broadcast is pushed to every connection.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Content = strings.TrimSpace(input.Content)
		if input.Content == "" || len(input.Content) > maxMessageLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.IsBroadcast {
			if user.Role != model.RoleAdmin {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}
			input.RecipientID = nil
		} else if input.RecipientID == nil && input.TaskID == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.RecipientID != nil {
			if _, err := deps.Store.GetUser(r.Context(), *input.RecipientID); err != nil {
				resp.RespondError(w, r, storeError(err, errs.ErrRecipientNotFound))
				return
			}
		}

		if input.TaskID != nil {
			task, err := deps.Store.GetTask(r.Context(), *input.TaskID)
			if err != nil {
				resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
				return
			}
			if !canViewTask(user, task) {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}
		}

		message, err := deps.Store.CreateMessage(r.Context(), db.CreateMessageParams{
			SenderID:    user.ID,
			RecipientID: input.RecipientID,
			TaskID:      input.TaskID,
			Content:     input.Content,
			IsBroadcast: input.IsBroadcast,
		})
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrRecipientNotFound))
			return
		}

		if message.IsBroadcast {
			logx.Info("Broadcast message sent", "message_id", message.ID, "sender_id", user.ID)
			deps.Notifier.NotifyBroadcast(message)
		}

		resp.RespondSuccess(w, r, message)
	}
}

// HandleListMessages returns a task thread (task_id), a conversation with one contact
// (contact_id) or the caller's inbox.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		taskID, customErr := req.QueryID(r, "task_id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		contactID, customErr := req.QueryID(r, "contact_id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if taskID > 0 {
			task, err := deps.Store.GetTask(r.Context(), taskID)
			if err != nil {
				resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
				return
			}
			if !canViewTask(user, task) {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}
		}

		messages, err := deps.Store.ListMessages(r.Context(), db.MessageFilter{
			UserID:    user.ID,
			TaskID:    taskID,
			ContactID: contactID,
			Limit:     queryLimit(r),
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(messages))
	}
}

func HandleListBroadcasts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := deps.Store.ListBroadcasts(r.Context(), queryLimit(r))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(messages))
	}
}

// HandleMarkMessageRead marks a message read. Only its recipient may, or anyone for broadcasts.
func HandleMarkMessageRead(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		message, err := deps.Store.GetMessage(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrMessageNotFound))
			return
		}

		isRecipient := message.RecipientID != nil && *message.RecipientID == user.ID
		if !isRecipient && !message.IsBroadcast {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		message, err = deps.Store.MarkMessageRead(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrMessageNotFound))
			return
		}
		resp.RespondSuccess(w, r, message)
	}
}

func HandleUnreadCount(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		count, err := deps.Store.CountUnread(r.Context(), user.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, map[string]int64{"unread_count": count})
	}
}

// queryLimit parses the optional limit parameter; invalid values fall back to the store default.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
