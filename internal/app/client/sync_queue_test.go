package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecheck/internal/domain/report"
)

func queuePayload(reportID, itemID, value string) ResponsePayload {
	return ResponsePayload{
		ReportID:       reportID,
		TemplateItemID: itemID,
		ItemLabel:      "Fencing intact",
		ItemType:       "pass_fail",
		ResponseValue:  strPtr(value),
	}
}

func TestSyncQueueAddAndPending(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())

	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-1", "pass")))
	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-2", "item-1", "fail")))

	pending, err := queue.Pending()
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	forReport, err := queue.PendingForReport("rep-1")
	require.NoError(t, err)
	assert.Equal(t, 1, forReport)
}

func TestSyncQueueDrainFIFO(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())
	backend := &fakeBackend{}

	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-1", "first")))
	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-2", "second")))
	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-3", "third")))

	replayed, err := queue.Drain(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, 3, replayed)

	require.Len(t, backend.upserts, 3)
	assert.Equal(t, "first", *backend.upserts[0].ResponseValue)
	assert.Equal(t, "second", *backend.upserts[1].ResponseValue)
	assert.Equal(t, "third", *backend.upserts[2].ResponseValue)

	pending, err := queue.Pending()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestSyncQueueDrainStopsOnFailure(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())

	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-1", "first")))
	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-2", "second")))

	backend := &fakeBackend{upsertErr: errBackendDown}
	replayed, err := queue.Drain(context.Background(), backend)
	require.ErrorIs(t, err, errBackendDown)
	assert.Equal(t, 0, replayed)

	// Nothing was acknowledged, so nothing was removed.
	pending, err := queue.Pending()
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	// Server recovers, the retry replays everything in order.
	backend.upsertErr = nil
	replayed, err = queue.Drain(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)
	require.Len(t, backend.upserts, 2)
	assert.Equal(t, "first", *backend.upserts[0].ResponseValue)
}

func TestSyncQueueDrainDropsMalformedEntry(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())

	_, err := db.Exec(`
		INSERT INTO sync_queue (kind, payload, created_at)
		VALUES (?, '{broken', '2026-03-10T11:00:00Z')
	`, EntryKindResponse)
	require.NoError(t, err)
	require.NoError(t, queue.Add(EntryKindResponse, queuePayload("rep-1", "item-1", "pass")))

	backend := &fakeBackend{}
	replayed, err := queue.Drain(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)

	// The malformed head was dropped instead of blocking the valid entry.
	require.Len(t, backend.upserts, 1)
	assert.Equal(t, "item-1", backend.upserts[0].TemplateItemID)

	pending, err := queue.Pending()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}

func TestSyncQueueDrainUnknownKind(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())

	require.NoError(t, queue.Add("mystery", map[string]string{"k": "v"}))

	backend := &fakeBackend{}
	replayed, err := queue.Drain(context.Background(), backend)
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)
	assert.Empty(t, backend.upserts)
}

func TestSyncQueuePayloadRoundTrip(t *testing.T) {
	db := testStorage(t)
	queue := NewSyncQueue(db, testLogger())

	p := queuePayload("rep-1", "item-1", "fail")
	p.Severity = sevPtr(report.SeverityMedium)
	p.Notes = strPtr("loose panel")
	require.NoError(t, queue.Add(EntryKindResponse, p))

	backend := &fakeBackend{}
	_, err := queue.Drain(context.Background(), backend)
	require.NoError(t, err)

	require.Len(t, backend.upserts, 1)
	got := backend.upserts[0]
	assert.Equal(t, "rep-1", got.ReportID)
	assert.Equal(t, report.SeverityMedium, *got.Severity)
	assert.Equal(t, "loose panel", *got.Notes)
}
