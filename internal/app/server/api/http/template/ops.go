package template

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "templates-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/templates",
		Summary:     "List inspection templates",
		Description: "Returns the organisation's inspection templates with sections and items.",
		Tags:        []string{"templates"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "templates-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/templates/{id}",
		Summary:     "Get an inspection template",
		Tags:        []string{"templates"},
		Middlewares: h.middleware,
	}
}
