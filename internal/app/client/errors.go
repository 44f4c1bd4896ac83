package client

import (
	"errors"

	"sitecheck/internal/domain/report"
)

var (
	ErrDrainInProgress = errors.New("sync queue drain already in progress")
	ErrNoActiveReport  = errors.New("no active report in session")
	ErrSessionBusy     = errors.New("session operation already in progress")
	ErrNotActive       = errors.New("session is not active")
	ErrUnknownItem     = errors.New("unknown template item")
)

func (p ResponsePayload) toUpsertRequest() report.UpsertResponseRequest {
	return report.UpsertResponseRequest{
		ReportID:       p.ReportID,
		TemplateItemID: p.TemplateItemID,
		ItemLabel:      p.ItemLabel,
		ItemType:       p.ItemType,
		ResponseValue:  p.ResponseValue,
		Severity:       p.Severity,
		Notes:          p.Notes,
	}
}
