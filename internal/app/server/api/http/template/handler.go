package template

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/template"
)

type Handler struct {
	service    template.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service template.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.getOp(), h.get)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	templates, err := h.service.List(ctx, input.OrganisationID)
	if err != nil {
		h.log.Error("failed to list templates", "organisation_id", input.OrganisationID, "error", err)
		return nil, huma.Error500InternalServerError("failed to list templates")
	}

	return &listOutput{
		Body: listResponse{Templates: templates},
	}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	tpl, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			return nil, huma.Error404NotFound("template not found")
		}
		h.log.Error("failed to get template", "template_id", input.ID, "error", err)
		return nil, huma.Error500InternalServerError("failed to get template")
	}

	return &getOutput{Body: *tpl}, nil
}
