package client

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// DraftStore persists one InspectionDraft per report id on device. Saving
// replaces the whole snapshot; there is no draft-level merging.
type DraftStore struct {
	db  *sql.DB
	log *slog.Logger
}

func NewDraftStore(db *sql.DB, log *slog.Logger) *DraftStore {
	return &DraftStore{
		db:  db,
		log: log.With("component", "draft_store"),
	}
}

// Save upserts the full draft snapshot keyed by report id.
func (s *DraftStore) Save(draft *InspectionDraft) error {
	draft.LastUpdated = time.Now().UTC()

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO inspection_drafts (report_id, template_id, record_id, payload, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(report_id) DO UPDATE SET
			template_id = excluded.template_id,
			record_id = excluded.record_id,
			payload = excluded.payload,
			last_updated = excluded.last_updated
	`, draft.ReportID, draft.TemplateID, draft.RecordID, string(payload),
		draft.LastUpdated.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	return nil
}

// Load returns the draft for the report, or nil when none exists. A corrupt
// snapshot is treated as absent, not fatal: losing the draft cache must not
// block using the app online.
func (s *DraftStore) Load(reportID string) (*InspectionDraft, error) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM inspection_drafts WHERE report_id = ?
	`, reportID).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.log.Warn("failed to read draft, treating as absent", "report_id", reportID, "error", err)
		return nil, nil
	}

	var draft InspectionDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		s.log.Warn("corrupt draft snapshot, treating as absent", "report_id", reportID, "error", err)
		return nil, nil
	}

	return &draft, nil
}

// Delete removes the snapshot. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(reportID string) error {
	_, err := s.db.Exec(`DELETE FROM inspection_drafts WHERE report_id = ?`, reportID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
