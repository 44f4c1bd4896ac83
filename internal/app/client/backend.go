package client

import (
	"context"

	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
)

// Backend is the server-side collaborator the session controller and sync
// queue depend on. The core never sees a concrete transport or query style;
// the HTTP client implements this against the bundled API server, and tests
// substitute fakes.
type Backend interface {
	Ping(ctx context.Context) error

	FetchTemplate(ctx context.Context, templateID string) (*template.Template, error)
	CreateReport(ctx context.Context, req report.CreateRequest) (*report.Report, error)
	FetchReport(ctx context.Context, reportID string) (*report.Report, error)
	FetchResponses(ctx context.Context, reportID string) ([]report.Response, error)
	UpsertResponse(ctx context.Context, req report.UpsertResponseRequest) error
	SubmitReport(ctx context.Context, reportID string) error
}

// ConnectivityChecker is the network status oracle consulted before choosing
// a direct write over queueing.
type ConnectivityChecker interface {
	IsOnline() bool
}
