package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/app/realtime"
	"resq/internal/app/storage"
	"resq/internal/configs"
	"resq/internal/pkg/auth/jwt"
)

const (
	testSecret   = "handler-test-secret"
	testPassword = "password1"
)

type notifyCall struct {
	kind    realtime.EventKind
	userIDs []int64
	payload any
}

// recordingNotifier captures emitted events instead of delivering them.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) record(kind realtime.EventKind, payload any, userIDs ...int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{kind: kind, userIDs: userIDs, payload: payload})
}

func (n *recordingNotifier) NotifySOSCreated(sos *model.SOSRequest) {
	n.record(realtime.KindSOSCreated, sos)
}

func (n *recordingNotifier) NotifyIncidentCreated(incident *model.IncidentReport) {
	n.record(realtime.KindIncidentCreated, incident)
}

func (n *recordingNotifier) NotifyTaskAssigned(task *model.Task, volunteerID int64) {
	n.record(realtime.KindTaskAssigned, task, volunteerID)
}

func (n *recordingNotifier) NotifyTaskUpdated(task *model.Task, userIDs []int64) {
	n.record(realtime.KindTaskUpdated, task, userIDs...)
}

func (n *recordingNotifier) NotifyBroadcast(message *model.Message) {
	n.record(realtime.KindBroadcastMessage, message)
}

func (n *recordingNotifier) NotifyUserLocationUpdated(location model.UserLocation) {
	n.record(realtime.KindUserLocationUpdated, location)
}

func (n *recordingNotifier) NotifyVolunteerStatusChanged(change model.VolunteerStatusChange) {
	n.record(realtime.KindVolunteerStatusChanged, change)
}

func (n *recordingNotifier) kinds() []realtime.EventKind {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]realtime.EventKind, 0, len(n.calls))
	for _, c := range n.calls {
		out = append(out, c.kind)
	}
	return out
}

func (n *recordingNotifier) last(t *testing.T) notifyCall {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()

	require.NotEmpty(t, n.calls, "no event emitted")
	return n.calls[len(n.calls)-1]
}

// fakeStorage is an in-memory StorageService.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectInfo
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]storage.ObjectInfo{}}
}

func (s *fakeStorage) PresignUpload(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, error) {
	return "https://s3.test/upload/" + key, nil
}

func (s *fakeStorage) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) Stat(_ context.Context, key string) (*storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &info, nil
}

func (s *fakeStorage) put(key, contentType string, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storage.ObjectInfo{ContentType: contentType, Size: size}
}

func (s *fakeStorage) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type testEnv struct {
	deps     *AppDeps
	store    *db.MemoryStore
	notifier *recordingNotifier
	storage  *fakeStorage
	handler  http.Handler
}

type envOption func(*AppDeps)

func withStorage(s *fakeStorage) envOption {
	return func(d *AppDeps) { d.Storage = s }
}

// withHubNotifier routes events through the live hub instead of recording them.
func withHubNotifier() envOption {
	return func(d *AppDeps) { d.Notifier = d.Hub.Router() }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store := db.NewMemory()
	notifier := &recordingNotifier{}
	hub := realtime.NewHub(realtime.HubOptions{})
	t.Cleanup(hub.Shutdown)

	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:  "development",
			JWTSecret:    testSecret,
			AccessTTL:    10 * time.Minute,
			RefreshTTL:   time.Hour,
			WSSendBuffer: 16,
		},
		Store:    store,
		Hub:      hub,
		Notifier: notifier,
	}
	for _, opt := range opts {
		opt(deps)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env := &testEnv{
		deps:     deps,
		store:    store,
		notifier: notifier,
		handler:  Router(ctx, deps),
	}
	if fs, ok := deps.Storage.(*fakeStorage); ok {
		env.storage = fs
	}
	return env
}

// newUser stores an account and returns it with a valid access token.
func (e *testEnv) newUser(t *testing.T, role model.Role, email string) (*model.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	params := db.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test " + string(role),
		Role:         role,
	}
	user, err := e.store.CreateUser(context.Background(), params)
	require.NoError(t, err)

	pair, err := jwt.IssuePair(user.ID, string(user.Role), testSecret, time.Minute*10, time.Hour)
	require.NoError(t, err)
	return user, pair.AccessToken
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a apiResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(a.Data, dst), string(a.Data))
}

// call performs a request against the router and decodes the response envelope.
func (e *testEnv) call(t *testing.T, method, path, token string, body any) (int, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	r := httptest.NewRequest(method, path, reader)
	r.RemoteAddr = "192.0.2.10:5000"
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)

	var out apiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
