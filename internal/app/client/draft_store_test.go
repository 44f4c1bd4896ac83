package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecheck/internal/domain/report"
)

func TestDraftStoreSaveAndLoad(t *testing.T) {
	db := testStorage(t)
	store := NewDraftStore(db, testLogger())

	draft := &InspectionDraft{
		ReportID:   "rep-1",
		TemplateID: "tpl-1",
		RecordID:   "rec-1",
		Responses: []DraftResponse{
			{
				TemplateItemID: "item-1",
				ResponseValue:  strPtr("fail"),
				Severity:       sevPtr(report.SeverityHigh),
				Notes:          strPtr("north fence damaged"),
				Photos:         []string{"file:///p1.jpg"},
				FieldUpdatedAt: timePtr(time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)),
			},
		},
		CurrentSectionIndex: 2,
	}
	require.NoError(t, store.Save(draft))
	assert.False(t, draft.LastUpdated.IsZero())

	loaded, err := store.Load("rep-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "tpl-1", loaded.TemplateID)
	assert.Equal(t, 2, loaded.CurrentSectionIndex)
	require.Len(t, loaded.Responses, 1)
	assert.Equal(t, "fail", *loaded.Responses[0].ResponseValue)
	assert.Equal(t, report.SeverityHigh, *loaded.Responses[0].Severity)
	assert.Equal(t, []string{"file:///p1.jpg"}, loaded.Responses[0].Photos)
	require.NotNil(t, loaded.Responses[0].FieldUpdatedAt)
	assert.True(t, loaded.Responses[0].FieldUpdatedAt.Equal(
		time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)))
}

func TestDraftStoreSaveReplacesSnapshot(t *testing.T) {
	db := testStorage(t)
	store := NewDraftStore(db, testLogger())

	require.NoError(t, store.Save(&InspectionDraft{
		ReportID:   "rep-1",
		TemplateID: "tpl-1",
		RecordID:   "rec-1",
		Responses:  []DraftResponse{{TemplateItemID: "item-1", ResponseValue: strPtr("pass")}},
	}))
	require.NoError(t, store.Save(&InspectionDraft{
		ReportID:            "rep-1",
		TemplateID:          "tpl-1",
		RecordID:            "rec-1",
		Responses:           []DraftResponse{{TemplateItemID: "item-1", ResponseValue: strPtr("fail")}},
		CurrentSectionIndex: 1,
	}))

	loaded, err := store.Load("rep-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "fail", *loaded.Responses[0].ResponseValue)
	assert.Equal(t, 1, loaded.CurrentSectionIndex)
}

func TestDraftStoreLoadMissing(t *testing.T) {
	db := testStorage(t)
	store := NewDraftStore(db, testLogger())

	loaded, err := store.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftStoreCorruptSnapshotTreatedAsAbsent(t *testing.T) {
	db := testStorage(t)
	store := NewDraftStore(db, testLogger())

	_, err := db.Exec(`
		INSERT INTO inspection_drafts (report_id, template_id, record_id, payload, last_updated)
		VALUES ('rep-1', 'tpl-1', 'rec-1', '{not json', '2026-03-10T11:00:00Z')
	`)
	require.NoError(t, err)

	loaded, err := store.Load("rep-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDraftStoreDelete(t *testing.T) {
	db := testStorage(t)
	store := NewDraftStore(db, testLogger())

	require.NoError(t, store.Save(&InspectionDraft{ReportID: "rep-1", TemplateID: "tpl-1", RecordID: "rec-1"}))
	require.NoError(t, store.Delete("rep-1"))

	loaded, err := store.Load("rep-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Idempotent.
	require.NoError(t, store.Delete("rep-1"))
}
