package client

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"starbook/internal/domain/action"
	"starbook/internal/domain/webcache"
	"starbook/internal/infrastructure/migration"
)

const lastSyncKey = "last_sync"

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	mg := migration.NewMigration("sqlite3://"+path, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) SaveAction(a *action.Action) error {
	_, err := s.db.Exec(`
		INSERT INTO queued_actions (id, kind, payload, created_at, synced, last_error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			payload = excluded.payload,
			synced = excluded.synced,
			last_error = excluded.last_error
	`, a.ID, string(a.Kind), a.Payload, a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.Synced, nullString(a.LastError))
	if err != nil {
		return fmt.Errorf("failed to save action: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetAction(id string) (*action.Action, error) {
	row := s.db.QueryRow(`
		SELECT id, kind, payload, created_at, synced, last_error
		FROM queued_actions
		WHERE id = ?
	`, id)

	a, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, action.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return a, nil
}

func (s *SQLiteStorage) PendingActions(kind action.Kind) ([]*action.Action, error) {
	rows, err := s.db.Query(`
		SELECT id, kind, payload, created_at, synced, last_error
		FROM queued_actions
		WHERE synced = 0 AND kind = ?
		ORDER BY created_at ASC, rowid ASC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending actions: %w", err)
	}
	defer rows.Close()

	var pending []*action.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		pending = append(pending, a)
	}
	return pending, rows.Err()
}

func (s *SQLiteStorage) PendingCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM queued_actions WHERE synced = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending actions: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) PendingCountByKind() (map[action.Kind]int, error) {
	rows, err := s.db.Query(`
		SELECT kind, COUNT(*)
		FROM queued_actions
		WHERE synced = 0
		GROUP BY kind
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending actions: %w", err)
	}
	defer rows.Close()

	counts := make(map[action.Kind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pending count: %w", err)
		}
		counts[action.Kind(kind)] = count
	}
	return counts, rows.Err()
}

// MarkSynced flips an action to synced. Marking an already-synced or
// deleted action is a no-op, so replaying twice never fails.
func (s *SQLiteStorage) MarkSynced(id string) error {
	_, err := s.db.Exec(`
		UPDATE queued_actions
		SET synced = 1, synced_at = ?, last_error = NULL
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("failed to mark action synced: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) SetActionError(id string, msg string) error {
	_, err := s.db.Exec("UPDATE queued_actions SET last_error = ? WHERE id = ?", msg, id)
	if err != nil {
		return fmt.Errorf("failed to record action error: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteAction(id string) error {
	_, err := s.db.Exec("DELETE FROM queued_actions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) PurgeSynced(olderThan time.Time) (int, error) {
	res, err := s.db.Exec(`
		DELETE FROM queued_actions
		WHERE synced = 1 AND created_at < ?
	`, olderThan.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to purge synced actions: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStorage) GetCacheEntry(tier webcache.Tier, key string) (*webcache.Entry, error) {
	var e webcache.Entry
	var tierStr, storedAt string

	err := s.db.QueryRow(`
		SELECT tier, cache_key, body, content_type, status_code, stored_at
		FROM cache_entries
		WHERE tier = ? AND cache_key = ?
	`, string(tier), key).Scan(&tierStr, &e.Key, &e.Body, &e.ContentType, &e.StatusCode, &storedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, action.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	e.Tier = webcache.Tier(tierStr)
	e.StoredAt, _ = time.Parse(time.RFC3339Nano, storedAt)
	return &e, nil
}

// PutCacheEntry upserts last-write-wins; the cache makes no
// read-then-write consistency promise.
func (s *SQLiteStorage) PutCacheEntry(e *webcache.Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO cache_entries (tier, cache_key, body, content_type, status_code, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tier, cache_key) DO UPDATE SET
			body = excluded.body,
			content_type = excluded.content_type,
			status_code = excluded.status_code,
			stored_at = excluded.stored_at
	`, string(e.Tier), e.Key, e.Body, e.ContentType, e.StatusCode,
		e.StoredAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) CacheCount(tier webcache.Tier) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM cache_entries WHERE tier = ?", string(tier)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) EvictOldest(tier webcache.Tier, keep int) (int, error) {
	res, err := s.db.Exec(`
		DELETE FROM cache_entries
		WHERE tier = ? AND cache_key NOT IN (
			SELECT cache_key FROM cache_entries
			WHERE tier = ?
			ORDER BY stored_at DESC, rowid DESC
			LIMIT ?
		)
	`, string(tier), string(tier), keep)
	if err != nil {
		return 0, fmt.Errorf("failed to evict cache entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStorage) DeleteCacheOlderThan(tier webcache.Tier, cutoff time.Time) (int, error) {
	res, err := s.db.Exec(`
		DELETE FROM cache_entries
		WHERE tier = ? AND stored_at < ?
	`, string(tier), cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale cache entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStorage) ClearTier(tier webcache.Tier) error {
	_, err := s.db.Exec("DELETE FROM cache_entries WHERE tier = ?", string(tier))
	if err != nil {
		return fmt.Errorf("failed to clear cache tier: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LastSync() (time.Time, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM sync_meta WHERE key = ?", lastSyncKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last sync time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last sync time: %w", err)
	}
	return t, nil
}

func (s *SQLiteStorage) SetLastSync(t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastSyncKey, t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to store last sync time: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAction(row rowScanner) (*action.Action, error) {
	var a action.Action
	var kind, createdAt string
	var lastError sql.NullString

	if err := row.Scan(&a.ID, &kind, &a.Payload, &createdAt, &a.Synced, &lastError); err != nil {
		return nil, err
	}

	a.Kind = action.Kind(kind)
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if lastError.Valid {
		a.LastError = lastError.String
	}
	return &a, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
