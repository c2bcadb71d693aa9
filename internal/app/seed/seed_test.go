package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/randx"
)

const seedYAML = `
users:
  - email: ada@resq.test
    full_name: Ada Citizen
    role: citizen
    password: secret123
  - phone: "+15550100"
    full_name: Vic Volunteer
    role: volunteer
    password: secret123
  - volunteer_id: VOLABC123
    full_name: Val Volunteer
    role: volunteer
    password: secret123
`

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemory()

	created, err := EnsureAdmin(ctx, store, "admin@resq.test", "admin-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, store, "admin@resq.test", "admin-pass")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := store.FindUserByLogin(ctx, db.LoginEmail, "admin@resq.test")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin-pass")))
}

func TestEnsureAdminWithoutEmailDoesNothing(t *testing.T) {
	store := db.NewMemory()

	created, err := EnsureAdmin(context.Background(), store, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	users, err := store.ListUsers(context.Background(), db.UserFilter{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestImportCreatesAndSkips(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemory()

	res, err := Import(ctx, store, []byte(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3}, res)

	res, err = Import(ctx, store, []byte(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, res)

	vic, err := store.FindUserByLogin(ctx, db.LoginPhone, "+15550100")
	require.NoError(t, err)
	assert.True(t, randx.IsVolunteerID(vic.VolunteerID))
	assert.Equal(t, model.VolunteerOffline, vic.VolunteerStatus)

	val, err := store.FindUserByLogin(ctx, db.LoginVolunteerID, "VOLABC123")
	require.NoError(t, err)
	assert.Equal(t, "Val Volunteer", val.FullName)
}

func TestImportRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"no identifier": "users:\n  - full_name: X\n    role: citizen\n    password: secret123\n",
		"bad role":      "users:\n  - email: x@resq.test\n    full_name: X\n    role: chief\n    password: secret123\n",
		"short pass":    "users:\n  - email: x@resq.test\n    full_name: X\n    role: citizen\n    password: abc\n",
		"not yaml":      "users: [",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Import(context.Background(), db.NewMemory(), []byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	res, err := LoadFile(context.Background(), db.NewMemory(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	_, err = LoadFile(context.Background(), db.NewMemory(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
