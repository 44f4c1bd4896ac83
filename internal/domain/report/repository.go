package report

import "context"

type Repository interface {
	Create(ctx context.Context, rep *Report) error
	Get(ctx context.Context, reportID string) (*Report, error)
	SetStatus(ctx context.Context, reportID string, status Status) error

	// ListResponses returns responses in template-item order.
	ListResponses(ctx context.Context, reportID string) ([]Response, error)
	UpsertResponse(ctx context.Context, resp *Response) error
}
