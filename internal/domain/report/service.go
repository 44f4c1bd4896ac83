package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Create(ctx context.Context, req CreateRequest) (*Report, error)
	Get(ctx context.Context, reportID string) (*Report, error)
	Submit(ctx context.Context, reportID string) (*Report, error)
	ListResponses(ctx context.Context, reportID string) ([]Response, error)
	UpsertResponse(ctx context.Context, req UpsertResponseRequest) (*Response, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "report_service"),
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Report, error) {
	if req.OrganisationID == "" || req.RecordID == "" || req.TemplateID == "" || req.UserID == "" {
		return nil, ErrMissingFields
	}

	rep := &Report{
		ID:             uuid.New().String(),
		OrganisationID: req.OrganisationID,
		RecordID:       req.RecordID,
		TemplateID:     req.TemplateID,
		UserID:         req.UserID,
		Status:         StatusDraft,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		s.log.Error("failed to create report", "template_id", req.TemplateID, "error", err)
		return nil, fmt.Errorf("create report: %w", err)
	}

	return rep, nil
}

func (s *Service) Get(ctx context.Context, reportID string) (*Report, error) {
	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// Submit flips the report draft -> submitted. Submitting twice is an error;
// the first submission wins and the report stays submitted.
func (s *Service) Submit(ctx context.Context, reportID string) (*Report, error) {
	rep, err := s.repo.Get(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	if rep.Status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	if err := s.repo.SetStatus(ctx, reportID, StatusSubmitted); err != nil {
		s.log.Error("failed to submit report", "report_id", reportID, "error", err)
		return nil, fmt.Errorf("submit report: %w", err)
	}

	now := time.Now().UTC()
	rep.Status = StatusSubmitted
	rep.SubmittedAt = &now
	return rep, nil
}

func (s *Service) ListResponses(ctx context.Context, reportID string) ([]Response, error) {
	responses, err := s.repo.ListResponses(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

// UpsertResponse writes one whole response snapshot. Writes into a
// submitted report are rejected so late queue replays cannot mutate a
// finalized inspection.
func (s *Service) UpsertResponse(ctx context.Context, req UpsertResponseRequest) (*Response, error) {
	if req.ReportID == "" || req.TemplateItemID == "" {
		return nil, ErrMissingFields
	}

	if req.Severity != nil && !req.Severity.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeverity, *req.Severity)
	}

	rep, err := s.repo.Get(ctx, req.ReportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if rep.Status == StatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	resp := &Response{
		ID:             uuid.New().String(),
		ReportID:       req.ReportID,
		TemplateItemID: req.TemplateItemID,
		ItemLabel:      req.ItemLabel,
		ItemType:       req.ItemType,
		ResponseValue:  req.ResponseValue,
		Severity:       req.Severity,
		Notes:          req.Notes,
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.repo.UpsertResponse(ctx, resp); err != nil {
		s.log.Error("failed to upsert response",
			"report_id", req.ReportID, "template_item_id", req.TemplateItemID, "error", err)
		return nil, fmt.Errorf("upsert response: %w", err)
	}

	return resp, nil
}
