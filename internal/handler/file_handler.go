package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"resq/internal/app/model"
	"resq/internal/app/storage"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

// PresignUploadInput defines the JSON input structure for generating an image upload URL.
type PresignUploadInput struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// HandlePresignImageUpload returns a short-lived URL the caller PUTs an incident image to,
// together with the key to reference when creating the incident. Citizens only.
func HandlePresignImageUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageDisabled))
			return
		}

		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateImageSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := storage.ValidateImageType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := storage.ImageKey(user.ID, input.FileName)
		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, storage.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presigned_url": url,
			"image_key":     key,
			"file_name":     input.FileName,
		})
	}
}

// HandleImageDownload redirects to a short-lived download URL for an incident image.
// Citizens may only fetch images they uploaded.
func HandleImageDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageDisabled))
			return
		}

		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		key := r.URL.Query().Get("k")
		if !storage.IsImageKey(key) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if user.Role == model.RoleCitizen && !storage.OwnsImageKey(user.ID, key) {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		url, err := deps.Storage.PresignDownload(r.Context(), key, storage.PresignedURLDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}

// checkUploadedImage verifies that key belongs to ownerID and that an image was uploaded there.
func checkUploadedImage(ctx context.Context, deps *AppDeps, ownerID int64, key string) *errs.CustomError {
	if deps.Storage == nil {
		return errs.NewError(errs.ErrStorageDisabled)
	}
	if !storage.OwnsImageKey(ownerID, key) {
		return errs.NewError(errs.ErrForbidden)
	}

	info, err := deps.Storage.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return errs.NewError(errs.ErrInvalidParams)
		}
		return errs.NewError(errs.ErrFileStorageFailed)
	}

	if _, ok := storage.AllowedMIMETypes[info.ContentType]; !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}
	if info.Size > storage.MaxImageSize {
		return errs.NewError(errs.ErrFileSizeTooLarge, storage.MaxImageSizeMB)
	}
	return nil
}

// deleteImageAsync removes an image object that is no longer referenced.
func deleteImageAsync(deps *AppDeps, key string) {
	if deps.Storage == nil || key == "" {
		return
	}

	go func(k string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := deps.Storage.Delete(ctx, k); err != nil {
			logx.Warn("Failed to delete incident image", "key", k, "error", err.Error())
		}
	}(key)
}
