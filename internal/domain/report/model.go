package report

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Severity grades pass/fail-style items.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Report is one instance of a filled (or in-progress) inspection against a
// template.
type Report struct {
	ID             string     `json:"id"`
	OrganisationID string     `json:"organisation_id"`
	RecordID       string     `json:"record_id"`
	TemplateID     string     `json:"template_id"`
	UserID         string     `json:"user_id"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
}

// Response is one answered template item within a report. UpdatedAt is the
// authoritative last-write time used for merge comparison on clients.
type Response struct {
	ID             string    `json:"id"`
	ReportID       string    `json:"report_id"`
	TemplateItemID string    `json:"template_item_id"`
	ItemLabel      string    `json:"item_label"`
	ItemType       string    `json:"item_type"`
	ResponseValue  *string   `json:"response_value"`
	Severity       *Severity `json:"severity"`
	Notes          *string   `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
