/*
Package errs provides the application error type and business error codes.

Codes are grouped by range and are returned to clients in the response envelope so
they can react to a specific failure without parsing messages.
*/
package errs

// 1xxx: General request handling errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates a malformed JSON body.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates trailing data after the JSON document.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the caller exceeded its request budget.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Emergency domain errors
const (
	ErrSOSNotFound       = 2101
	ErrIncidentNotFound  = 2102
	ErrTaskNotFound      = 2103
	ErrVolunteerNotFound = 2104

	// ErrTaskTargetMissing indicates a task created without an SOS or incident reference.
	ErrTaskTargetMissing = 2105

	ErrInvalidStatus = 2106

	// ErrLocationRequired indicates the caller has no stored location for a proximity query.
	ErrLocationRequired = 2107

	ErrMessageNotFound   = 2201
	ErrRecipientNotFound = 2202
	ErrCommentNotFound   = 2203

	// ErrFileSizeTooLarge indicates an incident image larger than the allowed size.
	ErrFileSizeTooLarge = 2301
	ErrFileTypeInvalid  = 2302
	ErrStorageDisabled  = 2303
)

// 3xxx: User, session and security errors
const (
	ErrUnauthorized       = 3001
	ErrForbidden          = 3002
	ErrInvalidCredentials = 3003
	ErrInactiveUser       = 3004
	ErrUserNotFound       = 3005

	// ErrUserAlreadyExists indicates a duplicate email, phone or volunteer id.
	ErrUserAlreadyExists = 3006

	ErrInvalidPassword = 3007
	ErrInvalidRole     = 3008

	// ErrAdminProtected indicates an operation that may not target another administrator.
	ErrAdminProtected = 3009

	ErrInvalidToken = 3010
)

// 5xxx: Internal system errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates the object storage backend rejected a request.
	ErrFileStorageFailed = 5001
)
