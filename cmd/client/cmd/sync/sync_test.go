package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"starbook/internal/app/client"
	"starbook/internal/app/client/config"
	"starbook/internal/domain/action"
)

func newSyncTestApp(t *testing.T, serverAddress string) *client.App {
	t.Helper()
	cfg := &config.Config{
		Env:           "local",
		ServerAddress: serverAddress,
		DataPath:      filepath.Join(t.TempDir(), "client.db"),
		SyncInterval:  30,
		ProbeInterval: 15,
		SettleDelay:   1,
		SweepInterval: 3600,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := client.New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

func runCommand(t *testing.T, app *client.App, args ...string) error {
	t.Helper()
	forceSync = false
	runOnce = false
	syncStatus = false
	clearErrors = false

	SyncCmd.SetArgs(args)
	ctx := context.WithValue(context.Background(), "app", app)
	return SyncCmd.ExecuteContext(ctx)
}

func TestSyncCmd_ReportsReplayFailures(t *testing.T) {
	// Arrange: the server is reachable but rejects every replay, so
	// the pass records per-action errors the command has to print.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"bookings are closed"}`))
	}))
	defer srv.Close()

	app := newSyncTestApp(t, strings.TrimPrefix(srv.URL, "http://"))
	_, err := app.Sync().Enqueue(action.KindBooking, []byte(`{"clientName":"John Doe"}`))
	require.NoError(t, err)

	// Act
	err = runCommand(t, app)

	// Assert
	require.NoError(t, err)
	errs := app.Sync().Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, action.KindBooking, errs[0].Kind)
	assert.Contains(t, errs[0].Error, "bookings are closed")
}

func TestSyncCmd_StatusAfterFailedPass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"bookings are closed"}`))
	}))
	defer srv.Close()

	app := newSyncTestApp(t, strings.TrimPrefix(srv.URL, "http://"))
	_, err := app.Sync().Enqueue(action.KindBooking, []byte(`{"clientName":"John Doe"}`))
	require.NoError(t, err)
	_, err = app.Sync().PerformSync(context.Background(), false)
	require.NoError(t, err)
	require.NotEmpty(t, app.Sync().Errors())

	// The status view renders the recorded errors.
	err = runCommand(t, app, "--status")

	assert.NoError(t, err)
}

func TestSyncCmd_ClearErrors(t *testing.T) {
	app := newSyncTestApp(t, "127.0.0.1:1")

	err := runCommand(t, app, "--clear-errors")

	require.NoError(t, err)
	assert.Empty(t, app.Sync().Errors())
}
