package handler

import (
	"net/http"
	"strings"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

type CreateCommentInput struct {
	TaskID  int64  `json:"task_id"`
	Content string `json:"content"`
}

// HandleCreateComment adds a note to a task. Admins and task participants only.
func HandleCreateComment(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input CreateCommentInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Content = strings.TrimSpace(input.Content)
		if input.Content == "" || len(input.Content) > maxMessageLength {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		task, err := deps.Store.GetTask(r.Context(), input.TaskID)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
			return
		}
		if !canViewTask(user, task) {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		comment, err := deps.Store.CreateComment(r.Context(), db.CreateCommentParams{
			TaskID:   task.ID,
			AuthorID: user.ID,
			Content:  input.Content,
		})
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
			return
		}
		resp.RespondSuccess(w, r, comment)
	}
}

func HandleListTaskComments(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		task, customErr := loadTask(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if !canViewTask(user, task) {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		comments, err := deps.Store.ListComments(r.Context(), task.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(comments))
	}
}

// HandleDeleteComment removes a comment. Only its author or an admin may.
func HandleDeleteComment(deps *AppDeps) http.HandlerFunc {
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

		comment, err := deps.Store.GetComment(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrCommentNotFound))
			return
		}
		if comment.AuthorID != user.ID && user.Role != model.RoleAdmin {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		if err := deps.Store.DeleteComment(r.Context(), id); err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrCommentNotFound))
			return
		}
		resp.RespondSuccess(w, r, messageResponse("Comment deleted successfully"))
	}
}
