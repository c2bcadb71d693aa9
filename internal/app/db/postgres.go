package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"resq/internal/app/model"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PGStore)(nil)

// NewPGStore wraps an open pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Ping checks the database connection.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// notFound maps pgx.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// expectRow turns a command that touched no row into ErrNotFound.
func expectRow(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- users ---

const userColumns = `id, email, phone, volunteer_id, password_hash, full_name, role, is_active,
	latitude, longitude, address, volunteer_status, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u                       model.User
		email, phone, volunteer *string
		role, volunteerStatus   string
	)

	err := row.Scan(&u.ID, &email, &phone, &volunteer, &u.PasswordHash, &u.FullName, &role, &u.IsActive,
		&u.Latitude, &u.Longitude, &u.Address, &volunteerStatus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	u.Email = deref(email)
	u.Phone = deref(phone)
	u.VolunteerID = deref(volunteer)
	u.Role = model.Role(role)
	u.VolunteerStatus = model.VolunteerStatus(volunteerStatus)

	return &u, nil
}

func collectUsers(rows pgx.Rows, err error) ([]model.User, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return model.User{}, err
		}
		return *u, nil
	})
}

func (s *PGStore) CreateUser(ctx context.Context, arg CreateUserParams) (*model.User, error) {
	status := ""
	if arg.Role == model.RoleVolunteer {
		status = string(model.VolunteerOffline)
	}

	return scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (email, phone, volunteer_id, password_hash, full_name, role, volunteer_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		nullable(arg.Email), nullable(arg.Phone), nullable(arg.VolunteerID),
		arg.PasswordHash, arg.FullName, string(arg.Role), status,
	))
}

func (s *PGStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PGStore) FindUserByLogin(ctx context.Context, field LoginField, value string) (*model.User, error) {
	var column string
	switch field {
	case LoginEmail:
		column = "email"
	case LoginPhone:
		column = "phone"
	case LoginVolunteerID:
		column = "volunteer_id"
	default:
		return nil, fmt.Errorf("unknown login field %q", field)
	}

	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
}

func (s *PGStore) UpdateUserProfile(ctx context.Context, id int64, arg UpdateProfileParams) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET
			full_name  = COALESCE($2, full_name),
			phone      = COALESCE(NULLIF($3::text, ''), phone),
			address    = COALESCE($4, address),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, arg.FullName, arg.Phone, arg.Address,
	))
}

func (s *PGStore) UpdateUserLocation(ctx context.Context, id int64, arg LocationParams) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET latitude = $2, longitude = $3, address = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, arg.Latitude, arg.Longitude, arg.Address,
	))
}

func (s *PGStore) UpdateVolunteerStatus(ctx context.Context, id int64, status model.VolunteerStatus) (*model.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		UPDATE users SET volunteer_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, string(status),
	))
}

func (s *PGStore) ListUsers(ctx context.Context, filter UserFilter) ([]model.User, error) {
	return collectUsers(s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE ($1::text = '' OR role = $1)
		  AND ($2::text = '' OR volunteer_status = $2)
		ORDER BY id`,
		string(filter.Role), string(filter.VolunteerStatus),
	))
}

func (s *PGStore) DeleteUser(ctx context.Context, id int64) error {
	return expectRow(s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

// --- sos requests ---

const sosColumns = `id, citizen_id, latitude, longitude, address, status, created_at, updated_at`

func scanSOS(row pgx.Row) (*model.SOSRequest, error) {
	var (
		r      model.SOSRequest
		status string
	)
	if err := row.Scan(&r.ID, &r.CitizenID, &r.Latitude, &r.Longitude, &r.Address, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	r.Status = model.TaskStatus(status)
	return &r, nil
}

func (s *PGStore) CreateSOS(ctx context.Context, arg CreateSOSParams) (*model.SOSRequest, error) {
	return scanSOS(s.pool.QueryRow(ctx, `
		INSERT INTO sos_requests (citizen_id, latitude, longitude, address, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+sosColumns,
		arg.CitizenID, arg.Latitude, arg.Longitude, arg.Address, string(model.StatusPending),
	))
}

func (s *PGStore) GetSOS(ctx context.Context, id int64) (*model.SOSRequest, error) {
	return getSOS(ctx, s.pool, id)
}

func getSOS(ctx context.Context, q querier, id int64) (*model.SOSRequest, error) {
	return scanSOS(q.QueryRow(ctx, `SELECT `+sosColumns+` FROM sos_requests WHERE id = $1`, id))
}

func (s *PGStore) ListSOS(ctx context.Context, filter ReportFilter) ([]model.SOSRequest, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sosColumns+` FROM sos_requests
		WHERE ($1::bigint = 0 OR citizen_id = $1)
		  AND ($2::text = '' OR status = $2)
		ORDER BY created_at DESC`,
		filter.CitizenID, string(filter.Status),
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SOSRequest, error) {
		r, err := scanSOS(row)
		if err != nil {
			return model.SOSRequest{}, err
		}
		return *r, nil
	})
}

func (s *PGStore) UpdateSOSStatus(ctx context.Context, id int64, status model.TaskStatus) (*model.SOSRequest, error) {
	return scanSOS(s.pool.QueryRow(ctx, `
		UPDATE sos_requests SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+sosColumns,
		id, string(status),
	))
}

func (s *PGStore) DeleteSOS(ctx context.Context, id int64) error {
	return expectRow(s.pool.Exec(ctx, `DELETE FROM sos_requests WHERE id = $1`, id))
}

// --- incident reports ---

const incidentColumns = `id, citizen_id, incident_type, title, description, latitude, longitude,
	address, image_key, status, created_at, updated_at`

func scanIncident(row pgx.Row) (*model.IncidentReport, error) {
	var (
		r            model.IncidentReport
		kind, status string
	)
	err := row.Scan(&r.ID, &r.CitizenID, &kind, &r.Title, &r.Description, &r.Latitude, &r.Longitude,
		&r.Address, &r.ImageKey, &status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	r.IncidentType = model.IncidentType(kind)
	r.Status = model.TaskStatus(status)
	return &r, nil
}

func (s *PGStore) CreateIncident(ctx context.Context, arg CreateIncidentParams) (*model.IncidentReport, error) {
	return scanIncident(s.pool.QueryRow(ctx, `
		INSERT INTO incident_reports
			(citizen_id, incident_type, title, description, latitude, longitude, address, image_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+incidentColumns,
		arg.CitizenID, string(arg.IncidentType), arg.Title, arg.Description,
		arg.Latitude, arg.Longitude, arg.Address, arg.ImageKey, string(model.StatusPending),
	))
}

func (s *PGStore) GetIncident(ctx context.Context, id int64) (*model.IncidentReport, error) {
	return getIncident(ctx, s.pool, id)
}

func getIncident(ctx context.Context, q querier, id int64) (*model.IncidentReport, error) {
	return scanIncident(q.QueryRow(ctx, `SELECT `+incidentColumns+` FROM incident_reports WHERE id = $1`, id))
}

func (s *PGStore) ListIncidents(ctx context.Context, filter ReportFilter) ([]model.IncidentReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+incidentColumns+` FROM incident_reports
		WHERE ($1::bigint = 0 OR citizen_id = $1)
		  AND ($2::text = '' OR status = $2)
		ORDER BY created_at DESC`,
		filter.CitizenID, string(filter.Status),
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.IncidentReport, error) {
		r, err := scanIncident(row)
		if err != nil {
			return model.IncidentReport{}, err
		}
		return *r, nil
	})
}

func (s *PGStore) UpdateIncident(ctx context.Context, id int64, arg UpdateIncidentParams) (*model.IncidentReport, error) {
	var status *string
	if arg.Status != nil {
		v := string(*arg.Status)
		status = &v
	}

	return scanIncident(s.pool.QueryRow(ctx, `
		UPDATE incident_reports SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			status      = COALESCE($4, status),
			image_key   = COALESCE($5, image_key),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING `+incidentColumns,
		id, arg.Title, arg.Description, status, arg.ImageKey,
	))
}

func (s *PGStore) DeleteIncident(ctx context.Context, id int64) error {
	return expectRow(s.pool.Exec(ctx, `DELETE FROM incident_reports WHERE id = $1`, id))
}

// --- tasks ---

const taskColumns = `t.id, t.volunteer_id, t.sos_request_id, t.incident_report_id, t.status,
	t.assigned_at, t.accepted_at, t.completed_at, t.notes`

func scanTask(row pgx.Row) (*model.Task, error) {
	var (
		t      model.Task
		status string
	)
	err := row.Scan(&t.ID, &t.VolunteerID, &t.SOSRequestID, &t.IncidentReportID, &status,
		&t.AssignedAt, &t.AcceptedAt, &t.CompletedAt, &t.Notes)
	if err != nil {
		return nil, notFound(err)
	}
	t.Status = model.TaskStatus(status)
	return &t, nil
}

// loadTargets attaches the task's SOS request and incident.
func loadTargets(ctx context.Context, q querier, t *model.Task) error {
	if t.SOSRequestID != nil {
		sos, err := getSOS(ctx, q, *t.SOSRequestID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		t.SOSRequest = sos
	}
	if t.IncidentReportID != nil {
		incident, err := getIncident(ctx, q, *t.IncidentReportID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		t.IncidentReport = incident
	}
	return nil
}

func (s *PGStore) CreateTask(ctx context.Context, arg CreateTaskParams) (*model.Task, error) {
	var id int64

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		assigned := string(model.StatusAssigned)

		if arg.SOSRequestID != nil {
			if err := expectRow(tx.Exec(ctx,
				`UPDATE sos_requests SET status = $2, updated_at = NOW() WHERE id = $1`,
				*arg.SOSRequestID, assigned)); err != nil {
				return fmt.Errorf("assign sos request: %w", err)
			}
		}
		if arg.IncidentReportID != nil {
			if err := expectRow(tx.Exec(ctx,
				`UPDATE incident_reports SET status = $2, updated_at = NOW() WHERE id = $1`,
				*arg.IncidentReportID, assigned)); err != nil {
				return fmt.Errorf("assign incident: %w", err)
			}
		}

		return tx.QueryRow(ctx, `
			INSERT INTO tasks (volunteer_id, sos_request_id, incident_report_id, status, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			arg.VolunteerID, arg.SOSRequestID, arg.IncidentReportID, assigned, arg.Notes,
		).Scan(&id)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, id)
}

func (s *PGStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return getTask(ctx, s.pool, id, false)
}

func getTask(ctx context.Context, q querier, id int64, forUpdate bool) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks t WHERE t.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	t, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := loadTargets(ctx, q, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PGStore) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks t
		LEFT JOIN sos_requests s ON s.id = t.sos_request_id
		LEFT JOIN incident_reports i ON i.id = t.incident_report_id
		WHERE ($1::bigint = 0 OR t.volunteer_id = $1)
		  AND ($2::bigint = 0 OR s.citizen_id = $2 OR i.citizen_id = $2)
		  AND ($3::text = '' OR t.status = $3)
		ORDER BY t.assigned_at DESC`,
		filter.VolunteerID, filter.CitizenID, string(filter.Status),
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Task, error) {
		t, err := scanTask(row)
		if err != nil {
			return model.Task{}, err
		}
		return *t, nil
	})
}

func (s *PGStore) UpdateTask(ctx context.Context, id int64, arg UpdateTaskParams) (*model.Task, error) {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		t, err := getTask(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if arg.Notes != nil && *arg.Notes != "" {
			t.Notes = *arg.Notes
		}
		if arg.Status != nil {
			applyTaskStatus(t, *arg.Status, time.Now().UTC())

			status := string(t.Status)
			if t.SOSRequestID != nil {
				if _, err := tx.Exec(ctx,
					`UPDATE sos_requests SET status = $2, updated_at = NOW() WHERE id = $1`,
					*t.SOSRequestID, status); err != nil {
					return err
				}
			}
			if t.IncidentReportID != nil {
				if _, err := tx.Exec(ctx,
					`UPDATE incident_reports SET status = $2, updated_at = NOW() WHERE id = $1`,
					*t.IncidentReportID, status); err != nil {
					return err
				}
			}
		}

		_, err = tx.Exec(ctx, `
			UPDATE tasks SET status = $2, notes = $3, accepted_at = $4, completed_at = $5
			WHERE id = $1`,
			id, string(t.Status), t.Notes, t.AcceptedAt, t.CompletedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetTask(ctx, id)
}

func (s *PGStore) DeleteTask(ctx context.Context, id int64) error {
	return expectRow(s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id))
}

// --- messages ---

const messageColumns = `id, sender_id, recipient_id, task_id, content, is_broadcast, is_read, created_at`

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.TaskID, &m.Content, &m.IsBroadcast, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func collectMessages(rows pgx.Rows, err error) ([]model.Message, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Message, error) {
		m, err := scanMessage(row)
		if err != nil {
			return model.Message{}, err
		}
		return *m, nil
	})
}

func (s *PGStore) CreateMessage(ctx context.Context, arg CreateMessageParams) (*model.Message, error) {
	return scanMessage(s.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, recipient_id, task_id, content, is_broadcast)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+messageColumns,
		arg.SenderID, arg.RecipientID, arg.TaskID, arg.Content, arg.IsBroadcast,
	))
}

func (s *PGStore) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	return scanMessage(s.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

func (s *PGStore) ListMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error) {
	limit := listLimit(filter.Limit)

	switch {
	case filter.TaskID > 0:
		return collectMessages(s.pool.Query(ctx, `
			SELECT `+messageColumns+` FROM messages
			WHERE task_id = $1
			ORDER BY created_at LIMIT $2`,
			filter.TaskID, limit))

	case filter.ContactID > 0:
		return collectMessages(s.pool.Query(ctx, `
			SELECT `+messageColumns+` FROM messages
			WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
			ORDER BY created_at LIMIT $3`,
			filter.UserID, filter.ContactID, limit))
	}

	return collectMessages(s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		filter.UserID, limit))
}

func (s *PGStore) ListBroadcasts(ctx context.Context, limit int) ([]model.Message, error) {
	return collectMessages(s.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE is_broadcast
		ORDER BY created_at DESC LIMIT $1`,
		listLimit(limit)))
}

func (s *PGStore) MarkMessageRead(ctx context.Context, id int64) (*model.Message, error) {
	return scanMessage(s.pool.QueryRow(ctx,
		`UPDATE messages SET is_read = TRUE WHERE id = $1 RETURNING `+messageColumns, id))
}

func (s *PGStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}

// --- comments ---

const commentColumns = `id, task_id, author_id, content, created_at`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *PGStore) CreateComment(ctx context.Context, arg CreateCommentParams) (*model.Comment, error) {
	return scanComment(s.pool.QueryRow(ctx, `
		INSERT INTO comments (task_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		arg.TaskID, arg.AuthorID, arg.Content,
	))
}

func (s *PGStore) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	return scanComment(s.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (s *PGStore) ListComments(ctx context.Context, taskID int64) ([]model.Comment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE task_id = $1 ORDER BY created_at`, taskID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Comment, error) {
		c, err := scanComment(row)
		if err != nil {
			return model.Comment{}, err
		}
		return *c, nil
	})
}

func (s *PGStore) DeleteComment(ctx context.Context, id int64) error {
	return expectRow(s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id))
}

// --- dashboard ---

// DashboardStats counts what each role is shown: administrators see global numbers,
// volunteers their workload, citizens their own reports.
func (s *PGStore) DashboardStats(ctx context.Context, scope StatsScope) (*model.DashboardStats, error) {
	var st model.DashboardStats

	switch scope.Role {
	case model.RoleAdmin:
		err := s.pool.QueryRow(ctx, `
			SELECT
				(SELECT COUNT(*) FROM sos_requests),
				(SELECT COUNT(*) FROM incident_reports),
				(SELECT COUNT(*) FROM tasks WHERE status IN ('pending', 'assigned')),
				(SELECT COUNT(*) FROM users WHERE role = 'volunteer' AND volunteer_status = 'online'),
				(SELECT COUNT(*) FROM users WHERE role = 'citizen'),
				(SELECT COUNT(*) FROM tasks WHERE status = 'completed')`,
		).Scan(&st.TotalSOS, &st.TotalIncidents, &st.PendingTasks, &st.ActiveVolunteers, &st.TotalUsers, &st.ResolvedTasks)
		if err != nil {
			return nil, err
		}

	case model.RoleVolunteer:
		err := s.pool.QueryRow(ctx, `
			SELECT
				(SELECT COUNT(*) FROM sos_requests WHERE status <> 'completed'),
				(SELECT COUNT(*) FROM incident_reports WHERE status <> 'completed'),
				(SELECT COUNT(*) FROM tasks WHERE volunteer_id = $1 AND status IN ('assigned', 'accepted', 'responding')),
				(SELECT COUNT(*) FROM tasks WHERE volunteer_id = $1 AND status = 'completed')`,
			scope.UserID,
		).Scan(&st.TotalSOS, &st.TotalIncidents, &st.PendingTasks, &st.ResolvedTasks)
		if err != nil {
			return nil, err
		}

	default:
		err := s.pool.QueryRow(ctx, `
			SELECT
				(SELECT COUNT(*) FROM sos_requests WHERE citizen_id = $1),
				(SELECT COUNT(*) FROM incident_reports WHERE citizen_id = $1)`,
			scope.UserID,
		).Scan(&st.TotalSOS, &st.TotalIncidents)
		if err != nil {
			return nil, err
		}
	}

	return &st, nil
}
