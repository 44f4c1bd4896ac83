package report

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/report"
)

type Handler struct {
	service    report.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service report.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.submitOp(), h.submit)
	huma.Register(api, h.listResponsesOp(), h.listResponses)
	huma.Register(api, h.upsertResponseOp(), h.upsertResponse)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*reportOutput, error) {
	rep, err := h.service.Create(ctx, input.Body)
	if err != nil {
		if errors.Is(err, report.ErrMissingFields) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("failed to create report", "error", err)
		return nil, huma.Error500InternalServerError("failed to create report")
	}

	return &reportOutput{Body: *rep}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*reportOutput, error) {
	rep, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			return nil, huma.Error404NotFound("report not found")
		}
		h.log.Error("failed to get report", "report_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to get report")
	}

	return &reportOutput{Body: *rep}, nil
}

func (h *Handler) submit(ctx context.Context, input *getInput) (*reportOutput, error) {
	rep, err := h.service.Submit(ctx, input.ID)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotFound):
			return nil, huma.Error404NotFound("report not found")
		case errors.Is(err, report.ErrAlreadySubmitted):
			return nil, huma.Error409Conflict("report already submitted")
		}
		h.log.Error("failed to submit report", "report_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to submit report")
	}

	return &reportOutput{Body: *rep}, nil
}

func (h *Handler) listResponses(ctx context.Context, input *getInput) (*responsesOutput, error) {
	responses, err := h.service.ListResponses(ctx, input.ID)
	if err != nil {
		h.log.Error("failed to list responses", "report_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to list responses")
	}

	return &responsesOutput{
		Body: responsesResponse{Responses: responses},
	}, nil
}

func (h *Handler) upsertResponse(ctx context.Context, input *upsertResponseInput) (*responseOutput, error) {
	req := input.Body
	req.ReportID = input.ID

	resp, err := h.service.UpsertResponse(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotFound):
			return nil, huma.Error404NotFound("report not found")
		case errors.Is(err, report.ErrAlreadySubmitted):
			return nil, huma.Error409Conflict("report already submitted")
		case errors.Is(err, report.ErrMissingFields), errors.Is(err, report.ErrInvalidSeverity):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("failed to upsert response",
			"report_id", input.ID, "template_item_id", req.TemplateItemID, "error", err)
		return nil, huma.Error500InternalServerError("failed to upsert response")
	}

	return &responseOutput{Body: *resp}, nil
}
