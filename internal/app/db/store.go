package db

import (
	"context"
	"errors"
	"time"

	"resq/internal/app/model"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned by stores that detect unique violations themselves.
	ErrDuplicate = errors.New("duplicate key")
)

// Store is the persistence interface used by the REST layer. PGStore backs it with
// PostgreSQL; MemoryStore keeps everything in process memory.
type Store interface {
	UserStore
	SOSStore
	IncidentStore
	TaskStore
	MessageStore
	CommentStore

	DashboardStats(ctx context.Context, scope StatsScope) (*model.DashboardStats, error)
	Ping(ctx context.Context) error
	Close()
}

// LoginField names the column a login identifier is matched against.
type LoginField string

const (
	LoginEmail       LoginField = "email"
	LoginPhone       LoginField = "phone"
	LoginVolunteerID LoginField = "volunteer_id"
)

type UserStore interface {
	CreateUser(ctx context.Context, arg CreateUserParams) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	FindUserByLogin(ctx context.Context, field LoginField, value string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int64, arg UpdateProfileParams) (*model.User, error)
	UpdateUserLocation(ctx context.Context, id int64, arg LocationParams) (*model.User, error)
	UpdateVolunteerStatus(ctx context.Context, id int64, status model.VolunteerStatus) (*model.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type SOSStore interface {
	CreateSOS(ctx context.Context, arg CreateSOSParams) (*model.SOSRequest, error)
	GetSOS(ctx context.Context, id int64) (*model.SOSRequest, error)
	ListSOS(ctx context.Context, filter ReportFilter) ([]model.SOSRequest, error)
	UpdateSOSStatus(ctx context.Context, id int64, status model.TaskStatus) (*model.SOSRequest, error)
	DeleteSOS(ctx context.Context, id int64) error
}

type IncidentStore interface {
	CreateIncident(ctx context.Context, arg CreateIncidentParams) (*model.IncidentReport, error)
	GetIncident(ctx context.Context, id int64) (*model.IncidentReport, error)
	ListIncidents(ctx context.Context, filter ReportFilter) ([]model.IncidentReport, error)
	UpdateIncident(ctx context.Context, id int64, arg UpdateIncidentParams) (*model.IncidentReport, error)
	DeleteIncident(ctx context.Context, id int64) error
}

type TaskStore interface {
	// CreateTask inserts an assigned task and marks its SOS request or incident assigned.
	CreateTask(ctx context.Context, arg CreateTaskParams) (*model.Task, error)
	// GetTask returns the task with its SOS request / incident loaded.
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	// UpdateTask applies arg, stamps accepted/completed times and mirrors a status change
	// onto the linked SOS request or incident.
	UpdateTask(ctx context.Context, id int64, arg UpdateTaskParams) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	ListMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	ListBroadcasts(ctx context.Context, limit int) ([]model.Message, error)
	MarkMessageRead(ctx context.Context, id int64) (*model.Message, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, arg CreateCommentParams) (*model.Comment, error)
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	ListComments(ctx context.Context, taskID int64) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type CreateUserParams struct {
	Email        string
	Phone        string
	VolunteerID  string
	PasswordHash string
	FullName     string
	Role         model.Role
}

// UpdateProfileParams holds optional profile fields; nil means unchanged.
type UpdateProfileParams struct {
	FullName *string
	Phone    *string
	Address  *string
}

type LocationParams struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type UserFilter struct {
	Role            model.Role
	VolunteerStatus model.VolunteerStatus
}

type CreateSOSParams struct {
	CitizenID int64
	Latitude  float64
	Longitude float64
	Address   string
}

type CreateIncidentParams struct {
	CitizenID    int64
	IncidentType model.IncidentType
	Title        string
	Description  string
	Latitude     float64
	Longitude    float64
	Address      string
	ImageKey     string
}

// UpdateIncidentParams holds optional incident fields; nil means unchanged.
type UpdateIncidentParams struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	ImageKey    *string
}

// ReportFilter narrows SOS and incident listings. Zero fields do not filter.
type ReportFilter struct {
	CitizenID int64
	Status    model.TaskStatus
}

type CreateTaskParams struct {
	VolunteerID      int64
	SOSRequestID     *int64
	IncidentReportID *int64
	Notes            string
}

// UpdateTaskParams holds optional task fields; nil means unchanged.
type UpdateTaskParams struct {
	Status *model.TaskStatus
	Notes  *string
}

// TaskFilter narrows task listings. CitizenID matches tasks whose target the citizen owns.
type TaskFilter struct {
	VolunteerID int64
	CitizenID   int64
	Status      model.TaskStatus
}

type CreateMessageParams struct {
	SenderID    int64
	RecipientID *int64
	TaskID      *int64
	Content     string
	IsBroadcast bool
}

// MessageFilter selects a message listing: a task thread, a conversation between UserID and
// ContactID, or UserID's inbox (everything sent or received) when neither is set.
type MessageFilter struct {
	UserID    int64
	TaskID    int64
	ContactID int64
	Limit     int
}

type CreateCommentParams struct {
	TaskID   int64
	AuthorID int64
	Content  string
}

// StatsScope selects whose numbers the dashboard shows.
type StatsScope struct {
	Role   model.Role
	UserID int64
}

// DefaultListLimit bounds listings that do not specify a limit.
const DefaultListLimit = 100

func listLimit(n int) int {
	if n <= 0 || n > DefaultListLimit {
		return DefaultListLimit
	}
	return n
}

// applyTaskStatus updates the status and the timestamps tied to it.
func applyTaskStatus(t *model.Task, status model.TaskStatus, now time.Time) {
	t.Status = status
	switch status {
	case model.StatusAccepted:
		t.AcceptedAt = &now
	case model.StatusCompleted:
		t.CompletedAt = &now
	}
}
