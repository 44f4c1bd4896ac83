package report

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-create",
		Method:      http.MethodPost,
		Path:        "/api/v1/reports",
		Summary:     "Create an inspection report",
		Description: "Creates a draft report for a record against a template.",
		Tags:        []string{"reports"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports/{id}",
		Summary:     "Get a report",
		Tags:        []string{"reports"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) submitOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-submit",
		Method:      http.MethodPost,
		Path:        "/api/v1/reports/{id}/submit",
		Summary:     "Submit a report",
		Description: "Marks the report submitted. Submitting twice returns a conflict.",
		Tags:        []string{"reports"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listResponsesOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-list-responses",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports/{id}/responses",
		Summary:     "List report responses",
		Tags:        []string{"reports"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) upsertResponseOp() huma.Operation {
	return huma.Operation{
		OperationID: "reports-upsert-response",
		Method:      http.MethodPut,
		Path:        "/api/v1/reports/{id}/responses",
		Summary:     "Upsert a report response",
		Description: "Writes one whole response snapshot keyed on (report, template item). Rejected once the report is submitted.",
		Tags:        []string{"reports"},
		Middlewares: h.middleware,
	}
}
