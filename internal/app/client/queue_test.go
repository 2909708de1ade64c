package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starbook/internal/domain/action"
)

// fakeSubmitter records replayed actions and fails the ones listed in
// failIDs or matching failKind.
type fakeSubmitter struct {
	mu       sync.Mutex
	seen     []*action.Action
	failIDs  map[string]bool
	failKind action.Kind
	block    chan struct{}
}

func (f *fakeSubmitter) SubmitAction(_ context.Context, a *action.Action) error {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failIDs[a.ID] || (f.failKind != "" && a.Kind == f.failKind) {
		return errors.New("server error: simulated failure")
	}

	cp := *a
	f.seen = append(f.seen, &cp)
	return nil
}

func (f *fakeSubmitter) delivered() []*action.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*action.Action, len(f.seen))
	copy(out, f.seen)
	return out
}

func newTestSync(sub submitter) (*SyncService, *MemoryStorage, *Monitor) {
	storage := NewMemoryStorage()
	monitor := NewMonitor(nil, time.Second, 0, testLogger())
	return NewSyncService(storage, sub, monitor, 30*time.Second, testLogger()), storage, monitor
}

func TestSyncService_EnqueueRejectsUnknownKind(t *testing.T) {
	s, _, _ := newTestSync(&fakeSubmitter{})

	_, err := s.Enqueue(action.Kind("newsletter"), []byte(`{}`))
	assert.ErrorIs(t, err, action.ErrUnknownKind)
	assert.Zero(t, s.PendingCount())
}

func TestSyncService_DrainsQueue(t *testing.T) {
	sub := &fakeSubmitter{}
	s, _, _ := newTestSync(sub)

	payload := []byte(`{"clientName":"John Doe","eventDate":"2025-09-01"}`)
	queued, err := s.Enqueue(action.KindBooking, payload)
	require.NoError(t, err)
	require.NotEmpty(t, queued.ID)
	assert.Equal(t, 1, s.PendingCount())

	result, err := s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, action.SyncProgress{Total: 1, Completed: 1, Failed: 0}, result.Progress)
	assert.Zero(t, s.PendingCount(), "acknowledged items leave the queue")

	delivered := sub.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, action.KindBooking, delivered[0].Kind)
	assert.Equal(t, payload, delivered[0].Payload, "replay sends the captured body verbatim")
}

func TestSyncService_PartialFailureKeepsFailedPending(t *testing.T) {
	sub := &fakeSubmitter{failIDs: map[string]bool{}}
	s, storage, _ := newTestSync(sub)

	var ids []string
	for i := 0; i < 3; i++ {
		a, err := s.Enqueue(action.KindBooking, []byte(`{"clientName":"Client"}`))
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	sub.failIDs[ids[1]] = true

	result, err := s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, action.SyncProgress{Total: 3, Completed: 2, Failed: 1}, result.Progress)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ids[1], result.Errors[0].ActionID)

	assert.Equal(t, 1, s.PendingCount(), "the failed item stays for the next pass")

	failed, err := storage.GetAction(ids[1])
	require.NoError(t, err)
	assert.False(t, failed.Synced)
	assert.Contains(t, failed.LastError, "simulated failure")

	// A later pass where the server recovers drains the remainder.
	delete(sub.failIDs, ids[1])
	result, err = s.PerformSync(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, s.PendingCount())
}

func TestSyncService_MixedKindsProgress(t *testing.T) {
	sub := &fakeSubmitter{failKind: action.KindContactForm}
	s, _, _ := newTestSync(sub)

	_, err := s.Enqueue(action.KindBooking, []byte(`{"clientName":"John Doe"}`))
	require.NoError(t, err)
	_, err = s.Enqueue(action.KindContactForm, []byte(`{"message":"hello"}`))
	require.NoError(t, err)

	result, err := s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, action.SyncProgress{Total: 2, Completed: 1, Failed: 1}, result.Progress)

	stats := s.Stats()
	assert.Zero(t, stats.PendingBookings)
	assert.Equal(t, 1, stats.PendingContactForms)
	assert.Equal(t, 1, stats.TotalPending)
}

func TestSyncService_SameKindReplaysInInsertionOrder(t *testing.T) {
	sub := &fakeSubmitter{}
	s, _, _ := newTestSync(sub)

	first, err := s.Enqueue(action.KindBooking, []byte(`{"n":1}`))
	require.NoError(t, err)
	second, err := s.Enqueue(action.KindBooking, []byte(`{"n":2}`))
	require.NoError(t, err)

	_, err = s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	delivered := sub.delivered()
	require.Len(t, delivered, 2)
	assert.Equal(t, first.ID, delivered[0].ID)
	assert.Equal(t, second.ID, delivered[1].ID)
}

func TestSyncService_SecondTriggerGetsSyncInProgress(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{})}
	s, _, _ := newTestSync(sub)

	_, err := s.Enqueue(action.KindBooking, []byte(`{}`))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.PerformSync(context.Background(), false)
	}()

	require.Eventually(t, s.IsSyncing, time.Second, 5*time.Millisecond)

	_, err = s.PerformSync(context.Background(), false)
	assert.ErrorIs(t, err, action.ErrSyncInProgress)

	close(sub.block)
	<-done

	assert.False(t, s.IsSyncing())
}

func TestSyncService_OfflineGatingAndForce(t *testing.T) {
	sub := &fakeSubmitter{}
	s, _, monitor := newTestSync(sub)

	_, err := s.Enqueue(action.KindBooking, []byte(`{}`))
	require.NoError(t, err)

	monitor.SetOnline(false)

	_, err = s.PerformSync(context.Background(), false)
	assert.ErrorIs(t, err, action.ErrOffline)
	assert.Equal(t, 1, s.PendingCount())

	// A manual retry bypasses the stale connectivity state.
	result, err := s.RetrySync(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, s.PendingCount())
}

func TestSyncService_LastSyncPersisted(t *testing.T) {
	sub := &fakeSubmitter{}
	s, storage, monitor := newTestSync(sub)

	_, err := s.Enqueue(action.KindBooking, []byte(`{}`))
	require.NoError(t, err)

	before := time.Now()
	_, err = s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	assert.False(t, s.LastSyncTime().Before(before))

	stored, err := storage.LastSync()
	require.NoError(t, err)
	assert.False(t, stored.IsZero())

	// A fresh service over the same store picks the timestamp up.
	s2 := NewSyncService(storage, sub, monitor, 30*time.Second, testLogger())
	assert.Equal(t, stored, s2.LastSyncTime())
}

func TestSyncService_EmptyQueuePassIsNoop(t *testing.T) {
	sub := &fakeSubmitter{}
	s, _, _ := newTestSync(sub)

	result, err := s.PerformSync(context.Background(), false)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Zero(t, result.Progress.Total)
	assert.Empty(t, sub.delivered())
}
