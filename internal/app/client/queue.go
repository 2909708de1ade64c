package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"starbook/internal/domain/action"
)

// submitter issues the network call a queued action represents.
type submitter interface {
	SubmitAction(ctx context.Context, a *action.Action) error
}

// SyncService durably captures writes that could not reach the network
// and replays them once connectivity returns. Delivery is at least
// once; a successfully acknowledged item is never resubmitted, but the
// server is responsible for its own deduplication.
type SyncService struct {
	storage  Storage
	client   submitter
	monitor  *Monitor
	log      *slog.Logger
	interval time.Duration

	mu         sync.RWMutex
	isSyncing  bool
	lastSync   time.Time
	syncErrors []action.SyncError
	progress   action.SyncProgress
}

func NewSyncService(storage Storage, client submitter, monitor *Monitor, interval time.Duration, log *slog.Logger) *SyncService {
	s := &SyncService{
		storage:  storage,
		client:   client,
		monitor:  monitor,
		interval: interval,
		log:      log.With(slog.String("component", "sync")),
	}

	if last, err := storage.LastSync(); err == nil {
		s.lastSync = last
	}

	return s
}

// Enqueue persists a mutating operation that failed due to lack of
// connectivity. When the store itself is unavailable the action is
// dropped: the failure is logged and returned so the UI can show a
// failed submission, but nothing retries the enqueue.
func (s *SyncService) Enqueue(kind action.Kind, payload []byte) (*action.Action, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", action.ErrUnknownKind, kind)
	}

	a := &action.Action{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now(),
		Synced:    false,
	}

	if err := s.storage.SaveAction(a); err != nil {
		s.log.Error("failed to enqueue offline action, dropping",
			"kind", kind,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", action.ErrStoreUnavailable, err)
	}

	s.log.Info("queued offline action", "action_id", a.ID, "kind", kind)
	return a, nil
}

// PendingCount returns the number of unsynced items across all kinds.
func (s *SyncService) PendingCount() int {
	count, err := s.storage.PendingCount()
	if err != nil {
		s.log.Warn("failed to count pending actions", "error", err)
		return 0
	}
	return count
}

// PerformSync runs one replay pass. At most one pass runs at a time; a
// second trigger mid-pass gets ErrSyncInProgress and the next periodic
// tick picks up whatever remains. Connectivity is required unless force
// is set (explicit user retry).
func (s *SyncService) PerformSync(ctx context.Context, force bool) (*action.SyncResult, error) {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		return nil, action.ErrSyncInProgress
	}
	if !force && !s.monitor.Online() {
		s.mu.Unlock()
		return nil, action.ErrOffline
	}
	s.isSyncing = true
	s.syncErrors = nil
	s.progress = action.SyncProgress{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	result := &action.SyncResult{
		StartTime: time.Now(),
		Errors:    []action.SyncError{},
	}

	batches := make(map[action.Kind][]*action.Action)
	for _, kind := range action.Kinds() {
		pending, err := s.storage.PendingActions(kind)
		if err != nil {
			s.log.Error("failed to load pending actions", "kind", kind, "error", err)
			continue
		}
		if len(pending) > 0 {
			batches[kind] = pending
			result.Progress.Total += len(pending)
		}
	}

	s.setProgress(result.Progress)

	if result.Progress.Total == 0 {
		s.finishPass(result)
		return result, nil
	}

	s.log.Info("starting replay pass", "total", result.Progress.Total, "forced", force)

	// Kinds drain concurrently; items within a kind drain sequentially
	// in insertion order so a user's earlier action is never reordered
	// behind a later one to the same endpoint.
	var wg sync.WaitGroup
	var resultMu sync.Mutex

	for kind, pending := range batches {
		wg.Add(1)
		go func(kind action.Kind, pending []*action.Action) {
			defer wg.Done()

			for _, a := range pending {
				err := s.client.SubmitAction(ctx, a)
				if err != nil {
					// One bad item must not block the rest of the
					// queue; it stays pending for the next pass.
					if serr := s.storage.SetActionError(a.ID, err.Error()); serr != nil {
						s.log.Warn("failed to record action error", "action_id", a.ID, "error", serr)
					}

					resultMu.Lock()
					result.Progress.Failed++
					result.Errors = append(result.Errors, action.SyncError{
						ActionID:  a.ID,
						Kind:      kind,
						Error:     err.Error(),
						Timestamp: time.Now(),
					})
					s.setProgress(result.Progress)
					resultMu.Unlock()

					s.log.Warn("replay failed, item stays pending",
						"action_id", a.ID,
						"kind", kind,
						"error", err,
					)
					continue
				}

				if err := s.storage.MarkSynced(a.ID); err != nil {
					s.log.Warn("failed to mark action synced", "action_id", a.ID, "error", err)
				}

				resultMu.Lock()
				result.Progress.Completed++
				s.setProgress(result.Progress)
				resultMu.Unlock()

				s.log.Debug("replayed action", "action_id", a.ID, "kind", kind)
			}
		}(kind, pending)
	}

	wg.Wait()

	s.finishPass(result)

	if result.Success {
		s.log.Info("replay pass complete",
			"completed", result.Progress.Completed,
			"duration", result.Duration,
		)
	} else {
		s.log.Warn("replay pass finished with failures",
			"completed", result.Progress.Completed,
			"failed", result.Progress.Failed,
		)
	}

	return result, nil
}

// RetrySync is the manual, user-initiated retry: it runs even against
// stale connectivity state.
func (s *SyncService) RetrySync(ctx context.Context) (*action.SyncResult, error) {
	return s.PerformSync(ctx, true)
}

// Stats returns the queue state for UI display.
func (s *SyncService) Stats() action.SyncStats {
	counts, err := s.storage.PendingCountByKind()
	if err != nil {
		s.log.Warn("failed to count pending actions", "error", err)
		counts = map[action.Kind]int{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, n := range counts {
		total += n
	}

	return action.SyncStats{
		PendingBookings:     counts[action.KindBooking],
		PendingContactForms: counts[action.KindContactForm],
		TotalPending:        total,
		LastSync:            s.lastSync,
		SyncInProgress:      s.isSyncing,
	}
}

// Errors returns the error list accumulated by the most recent pass.
func (s *SyncService) Errors() []action.SyncError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]action.SyncError, len(s.syncErrors))
	copy(out, s.syncErrors)
	return out
}

// ClearSyncErrors discards the accumulated error list.
func (s *SyncService) ClearSyncErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncErrors = nil
}

// Progress returns the counters of the current (or last) pass.
func (s *SyncService) Progress() action.SyncProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// LastSyncTime returns when the last replay pass completed.
func (s *SyncService) LastSyncTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// IsSyncing reports whether a replay pass is currently running.
func (s *SyncService) IsSyncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSyncing
}

// StartAutoSync drives replay passes until ctx is canceled: one pass
// per connectivity restoration (after a settle delay), plus a periodic
// pass while online with pending work.
func (s *SyncService) StartAutoSync(ctx context.Context) {
	s.log.Info("auto sync started", "interval", s.interval)

	edgeTicker := time.NewTicker(time.Second)
	defer edgeTicker.Stop()
	syncTicker := time.NewTicker(s.interval)
	defer syncTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("auto sync stopped")
			return
		case <-edgeTicker.C:
			if s.monitor.ConsumeRestored() {
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.monitor.SettleDelay()):
				}
				if _, err := s.PerformSync(ctx, false); err != nil && err != action.ErrSyncInProgress {
					s.log.Debug("restoration sync skipped", "error", err)
				}
			}
		case <-syncTicker.C:
			if !s.monitor.Online() || s.PendingCount() == 0 {
				continue
			}
			if _, err := s.PerformSync(ctx, false); err != nil && err != action.ErrSyncInProgress {
				s.log.Debug("periodic sync skipped", "error", err)
			}
		}
	}
}

func (s *SyncService) setProgress(p action.SyncProgress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

func (s *SyncService) finishPass(result *action.SyncResult) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Success = result.Progress.Failed == 0

	s.mu.Lock()
	s.lastSync = result.EndTime
	s.syncErrors = append(s.syncErrors, result.Errors...)
	s.progress = result.Progress
	s.mu.Unlock()

	if err := s.storage.SetLastSync(result.EndTime); err != nil {
		s.log.Warn("failed to persist last sync time", "error", err)
	}
}
