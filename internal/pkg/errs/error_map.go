package errs

import "net/http"

// errorMap holds the client message and HTTP status for every known code.
// A zero Status is reported as 200 with the code carried in the envelope.
var errorMap = map[int]CustomError{
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Malformed request body.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	ErrSOSNotFound:       {Code: ErrSOSNotFound, Message: "SOS request not found.", Status: http.StatusNotFound},
	ErrIncidentNotFound:  {Code: ErrIncidentNotFound, Message: "Incident report not found.", Status: http.StatusNotFound},
	ErrTaskNotFound:      {Code: ErrTaskNotFound, Message: "Task not found.", Status: http.StatusNotFound},
	ErrVolunteerNotFound: {Code: ErrVolunteerNotFound, Message: "Volunteer not found.", Status: http.StatusNotFound},
	ErrTaskTargetMissing: {Code: ErrTaskTargetMissing, Message: "Must specify either sos_request_id or incident_report_id.", Status: http.StatusBadRequest},
	ErrInvalidStatus:     {Code: ErrInvalidStatus, Message: "Invalid status.", Status: http.StatusBadRequest},
	ErrLocationRequired:  {Code: ErrLocationRequired, Message: "Update your location first.", Status: http.StatusBadRequest},
	ErrMessageNotFound:   {Code: ErrMessageNotFound, Message: "Message not found.", Status: http.StatusNotFound},
	ErrRecipientNotFound: {Code: ErrRecipientNotFound, Message: "Recipient not found.", Status: http.StatusNotFound},
	ErrCommentNotFound:   {Code: ErrCommentNotFound, Message: "Comment not found.", Status: http.StatusNotFound},
	ErrFileSizeTooLarge:  {Code: ErrFileSizeTooLarge, Message: "File is too large (max %d MB).", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:   {Code: ErrFileTypeInvalid, Message: "Unsupported file type.", Status: http.StatusBadRequest},
	ErrStorageDisabled:   {Code: ErrStorageDisabled, Message: "Image uploads are not enabled on this server.", Status: http.StatusServiceUnavailable},

	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Could not validate credentials.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "Not enough permissions.", Status: http.StatusForbidden},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect credentials.", Status: http.StatusUnauthorized},
	ErrInactiveUser:       {Code: ErrInactiveUser, Message: "Inactive user.", Status: http.StatusForbidden},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "User not found.", Status: http.StatusNotFound},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "%s already registered.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between 6 and 72 characters.", Status: http.StatusBadRequest},
	ErrInvalidRole:        {Code: ErrInvalidRole, Message: "Invalid role.", Status: http.StatusBadRequest},
	ErrAdminProtected:     {Code: ErrAdminProtected, Message: "Cannot modify other admin users.", Status: http.StatusForbidden},
	ErrInvalidToken:       {Code: ErrInvalidToken, Message: "Invalid or expired token.", Status: http.StatusUnauthorized},

	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File storage request failed. Please try again.", Status: http.StatusBadGateway},
}
