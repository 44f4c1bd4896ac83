package report

type CreateRequest struct {
	OrganisationID string `json:"organisation_id"`
	RecordID       string `json:"record_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
}

// UpsertResponseRequest carries one whole response snapshot. Upserts are
// keyed on (report_id, template_item_id); a repeat write for the same item
// replaces the previous values and bumps updated_at.
type UpsertResponseRequest struct {
	ReportID       string    `json:"report_id"`
	TemplateItemID string    `json:"template_item_id"`
	ItemLabel      string    `json:"item_label"`
	ItemType       string    `json:"item_type"`
	ResponseValue  *string   `json:"response_value"`
	Severity       *Severity `json:"severity"`
	Notes          *string   `json:"notes"`
}
