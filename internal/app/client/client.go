package client

import (
	"context"
	"errors"
	"net/url"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"starbook/internal/app/client/config"
	"starbook/internal/domain/action"
)

// App wires the resilience layer together: local store, connectivity
// monitor, proxy transport, API client, and the offline action queue.
type App struct {
	config     *config.Config
	log        *slog.Logger
	storage    Storage
	monitor    *Monitor
	proxy      *ProxyTransport
	httpClient *APIClient
	syncSvc    *SyncService

	wg     gosync.WaitGroup
	cancel context.CancelFunc
}

// SubmitResult reports how a write ended: delivered to the server, or
// captured into the offline queue.
type SubmitResult struct {
	Delivered bool
	Queued    bool
	Action    *action.Action
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	var storage Storage
	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("failed to open SQLite store, falling back to memory", "error", err)
		storage = NewMemoryStorage()
	} else {
		storage = sqliteStorage
	}

	app := &App{
		config:  cfg,
		log:     log,
		storage: storage,
	}

	app.monitor = NewMonitor(
		func(ctx context.Context) error { return app.httpClient.HealthCheck(ctx) },
		time.Duration(cfg.ProbeInterval)*time.Second,
		time.Duration(cfg.SettleDelay)*time.Second,
		log,
	)

	app.proxy = NewProxyTransport(nil, storage, app.monitor, log)
	app.httpClient = newAPIClient(cfg, app.proxy, log)
	app.syncSvc = NewSyncService(storage, app.httpClient, app.monitor,
		time.Duration(cfg.SyncInterval)*time.Second, log)

	return app, nil
}

// Run starts the background loops: connectivity probing, auto sync,
// and the periodic cache sweep. It blocks until ctx is canceled.
func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	app.cancel = cancel

	app.wg.Add(3)
	go func() {
		defer app.wg.Done()
		app.monitor.Run(ctx)
	}()
	go func() {
		defer app.wg.Done()
		app.syncSvc.StartAutoSync(ctx)
	}()
	go func() {
		defer app.wg.Done()
		app.sweepLoop(ctx)
	}()

	<-ctx.Done()
	app.wg.Wait()
}

// Shutdown stops the background loops and closes the store.
func (app *App) Shutdown() {
	if app.cancel != nil {
		app.cancel()
	}
	app.wg.Wait()
	if err := app.storage.Close(); err != nil {
		app.log.Warn("failed to close local store", "error", err)
	}
}

func (app *App) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(app.config.SweepInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.proxy.SweepDynamic()
			if purged, err := app.storage.PurgeSynced(time.Now().Add(-30 * 24 * time.Hour)); err == nil && purged > 0 {
				app.log.Debug("purged archived actions", "count", purged)
			}
		}
	}
}

// SubmitBooking sends a booking to the backend; if the network is
// unreachable the payload is captured into the offline queue and the
// original failure is still reported to the caller.
func (app *App) SubmitBooking(ctx context.Context, payload []byte) (*SubmitResult, error) {
	return app.submit(ctx, action.KindBooking, payload)
}

// SubmitContactForm sends a contact-form submission, queueing it on
// network failure like SubmitBooking.
func (app *App) SubmitContactForm(ctx context.Context, payload []byte) (*SubmitResult, error) {
	return app.submit(ctx, action.KindContactForm, payload)
}

func (app *App) submit(ctx context.Context, kind action.Kind, payload []byte) (*SubmitResult, error) {
	err := app.httpClient.SubmitAction(ctx, &action.Action{Kind: kind, Payload: payload})
	if err == nil {
		return &SubmitResult{Delivered: true}, nil
	}

	// Only transport-level failures mean "offline"; a server rejection
	// reached the server and must not be replayed.
	if !isNetworkError(err) {
		return nil, err
	}

	queued, qerr := app.syncSvc.Enqueue(kind, payload)
	if qerr != nil {
		// Store unavailable: the submission is lost, surface the
		// original write failure as-is.
		return nil, err
	}

	return &SubmitResult{Queued: true, Action: queued}, err
}

func isNetworkError(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Sync exposes the offline action queue.
func (app *App) Sync() *SyncService {
	return app.syncSvc
}

// Monitor exposes the connectivity monitor.
func (app *App) Monitor() *Monitor {
	return app.monitor
}

// Storage exposes the local store.
func (app *App) Storage() Storage {
	return app.storage
}

// Client exposes the API client whose transport is the proxy.
func (app *App) Client() *APIClient {
	return app.httpClient
}

// Proxy exposes the intercepting transport.
func (app *App) Proxy() *ProxyTransport {
	return app.proxy
}
