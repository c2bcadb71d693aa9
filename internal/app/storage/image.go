package storage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"resq/internal/pkg/errs"
	"resq/internal/pkg/randx"
)

const (
	// MaxImageSizeMB is the maximum allowed incident image size in megabytes.
	MaxImageSizeMB = 5

	// MaxImageSize is the maximum allowed incident image size in bytes.
	MaxImageSize = MaxImageSizeMB * 1024 * 1024

	// PresignedURLDuration is how long upload and download URLs stay valid.
	PresignedURLDuration = 5 * time.Minute

	// ImageKeyPrefix is the key namespace for incident images.
	ImageKeyPrefix = "incidents"
)

// AllowedMIMETypes defines the set of permitted MIME types for incident images.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateImageSize checks if the provided file size is within acceptable limits.
func ValidateImageSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > MaxImageSize {
		return errs.NewError(errs.ErrFileSizeTooLarge, MaxImageSizeMB)
	}

	return nil
}

// ValidateImageType checks that the MIME type is an allowed image type and matches the
// file extension.
func ValidateImageType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expectedMIME, ok := ExtToMIME[ext]
	if !ok || expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}

// ImageKey builds the object key for a new image uploaded by ownerID.
func ImageKey(ownerID int64, fileName string) string {
	return randx.ObjectKey(ownerPrefix(ownerID), filepath.Ext(fileName))
}

// OwnsImageKey reports whether key lies in ownerID's image namespace.
func OwnsImageKey(ownerID int64, key string) bool {
	rest, ok := strings.CutPrefix(key, ownerPrefix(ownerID)+"/")
	return ok && rest != "" && !strings.Contains(rest, "/") && !strings.Contains(rest, "..")
}

// IsImageKey reports whether key is any incident image key.
func IsImageKey(key string) bool {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != ImageKeyPrefix || parts[2] == "" {
		return false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	return err == nil && id > 0 && OwnsImageKey(id, key)
}

func ownerPrefix(ownerID int64) string {
	return fmt.Sprintf("%s/%d", ImageKeyPrefix, ownerID)
}
