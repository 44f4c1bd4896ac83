package template

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Get(ctx context.Context, templateID string) (*Template, error)
	List(ctx context.Context, organisationID string) ([]Template, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "template_service"),
	}
}

func (s *Service) Get(ctx context.Context, templateID string) (*Template, error) {
	if templateID == "" {
		return nil, fmt.Errorf("%w: empty template id", ErrNotFound)
	}

	tpl, err := s.repo.Get(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	return tpl, nil
}

func (s *Service) List(ctx context.Context, organisationID string) ([]Template, error) {
	templates, err := s.repo.List(ctx, organisationID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return templates, nil
}
