package template

import "context"

type Repository interface {
	// Get returns the template with its sections and items in position order.
	Get(ctx context.Context, templateID string) (*Template, error)
	List(ctx context.Context, organisationID string) ([]Template, error)
}
