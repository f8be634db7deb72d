package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"fleet-client/internal/adapters/kv"
	"fleet-client/internal/domain"
	"fleet-client/internal/platform/db"
	"fleet-client/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenKV fails every call.
type brokenKV struct{}

var errDiskFull = errors.New("disk full")

func (brokenKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDiskFull }
func (brokenKV) Set(context.Context, string, []byte) error         { return errDiskFull }
func (brokenKV) Delete(context.Context, string) error              { return errDiskFull }
func (brokenKV) Clear(context.Context) error                       { return errDiskFull }
func (brokenKV) Keys(context.Context) ([]string, error)            { return nil, errDiskFull }

func openSqlite(t *testing.T, path string) *kv.SqliteKVStore {
	t.Helper()

	conn, err := db.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, kv.InitSchema(context.Background(), conn, kv.DialectSQLite))
	return kv.NewSqliteKVStore(conn, nil)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(kv.NewMemoryKVStore(), nil)

	settings := domain.AppSettings{Theme: domain.ThemeDark, Language: "hi", NotificationsEnabled: false}
	require.True(t, c.SaveAppSettings(ctx, settings))

	got, ok := c.GetAppSettings(ctx)
	require.True(t, ok)
	assert.Equal(t, settings, got)

	user := domain.User{ID: "U1", Name: "Asha", Email: "asha@example.com", Role: "dispatcher"}
	require.True(t, c.SaveUserData(ctx, user))
	gotUser, ok := c.GetUserData(ctx)
	require.True(t, ok)
	assert.Equal(t, user, gotUser)
}

func TestRemoveThenAbsent(t *testing.T) {
	ctx := context.Background()
	c := New(kv.NewMemoryKVStore(), nil)

	require.True(t, c.SaveUserToken(ctx, "abc123"))
	require.True(t, c.RemoveUserToken(ctx))

	_, ok := c.GetUserToken(ctx)
	assert.False(t, ok)
}

func TestUndecodableValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryKVStore()
	require.NoError(t, mem.Set(ctx, KeyAppSettings, []byte("{not json")))

	c := New(mem, nil)
	_, ok := c.GetAppSettings(ctx)
	assert.False(t, ok)
}

func TestTokenSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	first := New(openSqlite(t, path), nil)
	require.True(t, first.SetItem(ctx, "user_token", "abc123"))

	second := New(openSqlite(t, path), nil)
	var token string
	require.True(t, second.GetItem(ctx, "user_token", &token))
	assert.Equal(t, "abc123", token)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := New(openSqlite(t, filepath.Join(t.TempDir(), "cache.db")), nil)

	require.True(t, c.SaveUserToken(ctx, "abc123"))
	require.True(t, c.SaveAppSettings(ctx, domain.DefaultAppSettings()))
	assert.Equal(t, []string{KeyAppSettings, KeyUserToken}, c.Keys(ctx))

	require.True(t, c.Clear(ctx))
	assert.Empty(t, c.Keys(ctx))
}

func TestOfflineData(t *testing.T) {
	ctx := context.Background()
	c := New(kv.NewMemoryKVStore(), nil)

	d := store.Dataset{Vehicles: []domain.Vehicle{{ID: "VEH-1", Status: domain.VehicleIdle, FuelLevel: 42}}}
	require.True(t, c.SaveOfflineData(ctx, d))

	got, ok := c.GetOfflineData(ctx)
	require.True(t, ok)
	require.Len(t, got.Vehicles, 1)
	assert.Equal(t, 42.0, got.Vehicles[0].FuelLevel)
}

func TestStorageFailuresBecomeFalse(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	c := New(brokenKV{}, logger)

	assert.False(t, c.SaveUserToken(ctx, "abc123"))
	_, ok := c.GetUserToken(ctx)
	assert.False(t, ok)
	assert.False(t, c.RemoveUserToken(ctx))
	assert.False(t, c.Clear(ctx))
	assert.Nil(t, c.Keys(ctx))

	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), `"key":"user_token"`)
}

func TestUnencodableValue(t *testing.T) {
	c := New(kv.NewMemoryKVStore(), nil)
	assert.False(t, c.SetItem(context.Background(), "bad", make(chan int)))
}
