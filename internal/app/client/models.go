package client

import (
	"time"

	"sitecheck/internal/domain/report"
)

// DraftResponse is the locally held answer for one template item. Pointer
// fields distinguish "not answered" from an explicit empty value.
type DraftResponse struct {
	TemplateItemID string           `json:"template_item_id"`
	ResponseValue  *string          `json:"response_value,omitempty"`
	Severity       *report.Severity `json:"severity,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Photos         []string         `json:"photos,omitempty"`
	Videos         []string         `json:"videos,omitempty"`

	// FieldUpdatedAt marks when this response was last edited locally.
	// Used for tie-breaking under the newest-wins merge strategy; a nil
	// value loses to the server.
	FieldUpdatedAt *time.Time `json:"field_updated_at,omitempty"`
}

// InspectionDraft is the full locally persisted snapshot of an in-progress
// inspection. At most one draft exists per report id; saving replaces the
// prior snapshot entirely.
type InspectionDraft struct {
	ReportID            string          `json:"report_id"`
	TemplateID          string          `json:"template_id"`
	RecordID            string          `json:"record_id"`
	Responses           []DraftResponse `json:"responses"`
	CurrentSectionIndex int             `json:"current_section_index"`
	LastUpdated         time.Time       `json:"last_updated"`
}

// SyncQueueEntry is one pending mutation awaiting server replay. Kind tags
// the payload shape; only response upserts exist today.
type SyncQueueEntry struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

const EntryKindResponse = "response"

// ResponsePayload is the queued snapshot of one response write. One entry
// carries the whole response so replay can never interleave fields of a
// single item.
type ResponsePayload struct {
	ReportID       string           `json:"report_id"`
	TemplateItemID string           `json:"template_item_id"`
	ItemLabel      string           `json:"item_label"`
	ItemType       string           `json:"item_type"`
	ResponseValue  *string          `json:"response_value"`
	Severity       *report.Severity `json:"severity"`
	Notes          *string          `json:"notes"`
}
