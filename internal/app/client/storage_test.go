package client

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starbook/internal/domain/action"
	"starbook/internal/domain/webcache"
)

// storageUnderTest runs the suite against both implementations, so the
// memory fallback and the SQLite store never drift apart.
func storageUnderTest(t *testing.T, run func(t *testing.T, s Storage)) {
	t.Helper()

	t.Run("memory", func(t *testing.T) {
		run(t, NewMemoryStorage())
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "store.db"))
		require.NoError(t, err)
		defer s.Close()
		run(t, s)
	})
}

func newAction(kind action.Kind, payload string, createdAt time.Time) *action.Action {
	return &action.Action{
		ID:        fmt.Sprintf("a-%d", createdAt.UnixNano()),
		Kind:      kind,
		Payload:   []byte(payload),
		CreatedAt: createdAt,
	}
}

func TestStorage_ActionLifecycle(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		base := time.Now().UTC().Truncate(time.Millisecond)

		first := newAction(action.KindBooking, `{"n":1}`, base)
		second := newAction(action.KindBooking, `{"n":2}`, base.Add(time.Second))
		other := newAction(action.KindContactForm, `{"message":"hi"}`, base.Add(2*time.Second))

		require.NoError(t, s.SaveAction(first))
		require.NoError(t, s.SaveAction(second))
		require.NoError(t, s.SaveAction(other))

		count, err := s.PendingCount()
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		byKind, err := s.PendingCountByKind()
		require.NoError(t, err)
		assert.Equal(t, 2, byKind[action.KindBooking])
		assert.Equal(t, 1, byKind[action.KindContactForm])

		pending, err := s.PendingActions(action.KindBooking)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.ID, pending[0].ID, "insertion order is replay order")
		assert.Equal(t, second.ID, pending[1].ID)
		assert.Equal(t, []byte(`{"n":1}`), pending[0].Payload)

		require.NoError(t, s.MarkSynced(first.ID))

		count, err = s.PendingCount()
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := s.GetAction(first.ID)
		require.NoError(t, err)
		assert.True(t, got.Synced)
	})
}

func TestStorage_GetActionNotFound(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		_, err := s.GetAction("missing")
		assert.ErrorIs(t, err, action.ErrNotFound)
	})
}

func TestStorage_MarkSyncedIdempotent(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		a := newAction(action.KindBooking, `{}`, time.Now().UTC())
		require.NoError(t, s.SaveAction(a))

		require.NoError(t, s.MarkSynced(a.ID))
		require.NoError(t, s.MarkSynced(a.ID), "marking twice must not fail")
		require.NoError(t, s.MarkSynced("never-existed"), "marking a deleted action must not fail")

		count, err := s.PendingCount()
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestStorage_SetActionErrorClearedOnSync(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		a := newAction(action.KindContactForm, `{}`, time.Now().UTC())
		require.NoError(t, s.SaveAction(a))

		require.NoError(t, s.SetActionError(a.ID, "server error: boom"))

		got, err := s.GetAction(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "server error: boom", got.LastError)

		require.NoError(t, s.MarkSynced(a.ID))

		got, err = s.GetAction(a.ID)
		require.NoError(t, err)
		assert.Empty(t, got.LastError)
	})
}

func TestStorage_DeleteAction(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		a := newAction(action.KindBooking, `{}`, time.Now().UTC())
		require.NoError(t, s.SaveAction(a))
		require.NoError(t, s.DeleteAction(a.ID))

		_, err := s.GetAction(a.ID)
		assert.ErrorIs(t, err, action.ErrNotFound)

		require.NoError(t, s.DeleteAction(a.ID), "deleting twice must not fail")
	})
}

func TestStorage_PurgeSynced(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		now := time.Now().UTC()

		oldSynced := newAction(action.KindBooking, `{}`, now.Add(-40*24*time.Hour))
		oldPending := newAction(action.KindBooking, `{}`, now.Add(-41*24*time.Hour))
		fresh := newAction(action.KindBooking, `{}`, now)

		require.NoError(t, s.SaveAction(oldSynced))
		require.NoError(t, s.SaveAction(oldPending))
		require.NoError(t, s.SaveAction(fresh))
		require.NoError(t, s.MarkSynced(oldSynced.ID))
		require.NoError(t, s.MarkSynced(fresh.ID))

		purged, err := s.PurgeSynced(now.Add(-30 * 24 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, purged, "only old synced actions are purged")

		_, err = s.GetAction(oldSynced.ID)
		assert.ErrorIs(t, err, action.ErrNotFound)

		_, err = s.GetAction(oldPending.ID)
		assert.NoError(t, err, "pending actions are never purged")

		_, err = s.GetAction(fresh.ID)
		assert.NoError(t, err)
	})
}

func TestStorage_CacheEntries(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		now := time.Now().UTC().Truncate(time.Millisecond)

		entry := &webcache.Entry{
			Tier:        webcache.TierStatic,
			Key:         "GET http://example.com/app.js",
			Body:        []byte("console.log(1)"),
			ContentType: "application/javascript",
			StatusCode:  200,
			StoredAt:    now,
		}
		require.NoError(t, s.PutCacheEntry(entry))

		got, err := s.GetCacheEntry(webcache.TierStatic, entry.Key)
		require.NoError(t, err)
		assert.Equal(t, entry.Body, got.Body)
		assert.Equal(t, entry.ContentType, got.ContentType)
		assert.Equal(t, entry.StatusCode, got.StatusCode)
		assert.True(t, entry.StoredAt.Equal(got.StoredAt))

		// Same key in another tier is a different entry.
		_, err = s.GetCacheEntry(webcache.TierDynamic, entry.Key)
		assert.ErrorIs(t, err, action.ErrNotFound)

		// Upsert replaces the body.
		entry.Body = []byte("console.log(2)")
		require.NoError(t, s.PutCacheEntry(entry))

		got, err = s.GetCacheEntry(webcache.TierStatic, entry.Key)
		require.NoError(t, err)
		assert.Equal(t, []byte("console.log(2)"), got.Body)

		count, err := s.CacheCount(webcache.TierStatic)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestStorage_EvictOldest(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		base := time.Now().UTC().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			require.NoError(t, s.PutCacheEntry(&webcache.Entry{
				Tier:     webcache.TierImage,
				Key:      fmt.Sprintf("GET http://example.com/%d.png", i),
				Body:     []byte("img"),
				StoredAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		evicted, err := s.EvictOldest(webcache.TierImage, 3)
		require.NoError(t, err)
		assert.Equal(t, 2, evicted)

		count, err := s.CacheCount(webcache.TierImage)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		for i := 0; i < 2; i++ {
			_, err := s.GetCacheEntry(webcache.TierImage, fmt.Sprintf("GET http://example.com/%d.png", i))
			assert.Error(t, err, "entry %d should be evicted", i)
		}
		for i := 2; i < 5; i++ {
			_, err := s.GetCacheEntry(webcache.TierImage, fmt.Sprintf("GET http://example.com/%d.png", i))
			assert.NoError(t, err, "entry %d should survive", i)
		}

		evicted, err = s.EvictOldest(webcache.TierImage, 3)
		require.NoError(t, err)
		assert.Zero(t, evicted, "at the cap nothing is evicted")
	})
}

func TestStorage_DeleteCacheOlderThanAndClear(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		now := time.Now().UTC()

		require.NoError(t, s.PutCacheEntry(&webcache.Entry{
			Tier: webcache.TierDynamic, Key: "GET http://example.com/old",
			Body: []byte("old"), StoredAt: now.Add(-8 * 24 * time.Hour),
		}))
		require.NoError(t, s.PutCacheEntry(&webcache.Entry{
			Tier: webcache.TierDynamic, Key: "GET http://example.com/fresh",
			Body: []byte("fresh"), StoredAt: now,
		}))

		deleted, err := s.DeleteCacheOlderThan(webcache.TierDynamic, now.Add(-7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		require.NoError(t, s.ClearTier(webcache.TierDynamic))
		count, err := s.CacheCount(webcache.TierDynamic)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestStorage_LastSync(t *testing.T) {
	storageUnderTest(t, func(t *testing.T, s Storage) {
		initial, err := s.LastSync()
		require.NoError(t, err)
		assert.True(t, initial.IsZero())

		now := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, s.SetLastSync(now))

		got, err := s.LastSync()
		require.NoError(t, err)
		assert.True(t, now.Equal(got))
	})
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)

	a := newAction(action.KindBooking, `{"clientName":"John Doe"}`, time.Now().UTC())
	require.NoError(t, s.SaveAction(a))
	require.NoError(t, s.PutCacheEntry(&webcache.Entry{
		Tier: webcache.TierAPI, Key: "GET http://example.com/api/celebrities",
		Body: []byte(`{"success":true}`), StoredAt: time.Now().UTC(),
	}))
	require.NoError(t, s.Close())

	// A restart must see the captured state.
	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetAction(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Payload, got.Payload)
	assert.False(t, got.Synced)

	entry, err := s.GetCacheEntry(webcache.TierAPI, "GET http://example.com/api/celebrities")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"success":true}`), entry.Body)
}
