package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// SyncQueue buffers mutations that could not be applied to the server
// immediately. Entries are durable and replay strictly in insertion order;
// each entry is removed only after the server acknowledges it.
type SyncQueue struct {
	db  *sql.DB
	log *slog.Logger

	mu       sync.Mutex
	draining bool
}

func NewSyncQueue(db *sql.DB, log *slog.Logger) *SyncQueue {
	return &SyncQueue{
		db:  db,
		log: log.With("component", "sync_queue"),
	}
}

// Add appends an entry. Enqueue failures are returned for logging but must
// not crash the edit flow.
func (q *SyncQueue) Add(kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal queue payload: %w", err)
	}

	_, err = q.db.Exec(`
		INSERT INTO sync_queue (kind, payload, created_at)
		VALUES (?, ?, ?)
	`, kind, string(data), time.Now().UTC().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}

	return nil
}

// Pending returns the number of entries awaiting replay.
func (q *SyncQueue) Pending() (int, error) {
	var count int
	if err := q.db.QueryRow(`SELECT COUNT(*) FROM sync_queue`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count queue: %w", err)
	}
	return count, nil
}

// PendingForReport counts queued writes targeting one report, so cleanup
// can tell whether a submitted report still has unflushed data.
func (q *SyncQueue) PendingForReport(reportID string) (int, error) {
	rows, err := q.db.Query(`SELECT payload FROM sync_queue WHERE kind = ?`, EntryKindResponse)
	if err != nil {
		return 0, fmt.Errorf("scan queue: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return 0, fmt.Errorf("scan entry: %w", err)
		}
		var p ResponsePayload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			continue
		}
		if p.ReportID == reportID {
			count++
		}
	}
	return count, rows.Err()
}

// Drain replays queued entries in FIFO order against the backend. It stops
// on the first server failure, leaving that entry and everything behind it
// intact for a later retry. Only one drain runs at a time; a drain started
// while another is in flight returns ErrDrainInProgress.
func (q *SyncQueue) Drain(ctx context.Context, backend Backend) (int, error) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return 0, ErrDrainInProgress
	}
	q.draining = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	entries, err := q.list()
	if err != nil {
		return 0, err
	}

	replayed := 0
	for _, entry := range entries {
		if err := q.replay(ctx, backend, entry); err != nil {
			q.log.Warn("replay stopped, queue tail kept for retry",
				"entry_id", entry.ID, "replayed", replayed, "error", err)
			return replayed, err
		}

		if _, err := q.db.Exec(`DELETE FROM sync_queue WHERE id = ?`, entry.ID); err != nil {
			return replayed, fmt.Errorf("dequeue entry %d: %w", entry.ID, err)
		}
		replayed++
	}

	if replayed > 0 {
		q.log.Info("sync queue drained", "replayed", replayed)
	}
	return replayed, nil
}

func (q *SyncQueue) list() ([]SyncQueueEntry, error) {
	rows, err := q.db.Query(`
		SELECT id, kind, payload, created_at FROM sync_queue ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer rows.Close()

	var entries []SyncQueueEntry
	for rows.Next() {
		var entry SyncQueueEntry
		var payload, createdAt string
		if err := rows.Scan(&entry.ID, &entry.Kind, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.Payload = []byte(payload)
		entry.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// replay applies one entry. A malformed entry is dropped with a log rather
// than poisoning the queue head forever.
func (q *SyncQueue) replay(ctx context.Context, backend Backend, entry SyncQueueEntry) error {
	switch entry.Kind {
	case EntryKindResponse:
		var p ResponsePayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			q.log.Error("dropping malformed queue entry", "entry_id", entry.ID, "error", err)
			return nil
		}
		return backend.UpsertResponse(ctx, p.toUpsertRequest())
	default:
		q.log.Error("dropping queue entry of unknown kind", "entry_id", entry.ID, "kind", entry.Kind)
		return nil
	}
}
