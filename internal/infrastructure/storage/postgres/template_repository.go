package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/template"
)

type TemplateRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewTemplateRepository(pool *pgxpool.Pool, log *slog.Logger) *TemplateRepository {
	return &TemplateRepository{
		pool: pool,
		log:  log.With("component", "template_repository"),
	}
}

func (r *TemplateRepository) Get(ctx context.Context, templateID string) (*template.Template, error) {
	const query = `
		SELECT id, organisation_id, name, created_at
		FROM templates
		WHERE id = $1`

	var tpl template.Template
	err := r.pool.QueryRow(ctx, query, templateID).Scan(
		&tpl.ID, &tpl.OrganisationID, &tpl.Name, &tpl.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, template.ErrNotFound
		}
		r.log.Error("failed to get template", "template_id", templateID, "error", err)
		return nil, fmt.Errorf("get template: %w", err)
	}

	sections, err := r.loadSections(ctx, templateID)
	if err != nil {
		return nil, err
	}
	tpl.Sections = sections

	return &tpl, nil
}

func (r *TemplateRepository) List(ctx context.Context, organisationID string) ([]template.Template, error) {
	const query = `
		SELECT id, organisation_id, name, created_at
		FROM templates
		WHERE organisation_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, organisationID)
	if err != nil {
		r.log.Error("failed to list templates", "organisation_id", organisationID, "error", err)
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []template.Template
	for rows.Next() {
		var tpl template.Template
		if err := rows.Scan(&tpl.ID, &tpl.OrganisationID, &tpl.Name, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	for i := range templates {
		sections, err := r.loadSections(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Sections = sections
	}

	return templates, nil
}

// loadSections returns the template's sections with their items, both in
// position order.
func (r *TemplateRepository) loadSections(ctx context.Context, templateID string) ([]template.Section, error) {
	const sectionQuery = `
		SELECT id, template_id, title, position
		FROM template_sections
		WHERE template_id = $1
		ORDER BY position`

	rows, err := r.pool.Query(ctx, sectionQuery, templateID)
	if err != nil {
		r.log.Error("failed to load sections", "template_id", templateID, "error", err)
		return nil, fmt.Errorf("load sections: %w", err)
	}
	defer rows.Close()

	var sections []template.Section
	for rows.Next() {
		var sec template.Section
		if err := rows.Scan(&sec.ID, &sec.TemplateID, &sec.Title, &sec.Position); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}

	const itemQuery = `
		SELECT i.id, i.section_id, i.label, i.item_type, i.position
		FROM template_items i
		JOIN template_sections s ON s.id = i.section_id
		WHERE s.template_id = $1
		ORDER BY s.position, i.position`

	itemRows, err := r.pool.Query(ctx, itemQuery, templateID)
	if err != nil {
		r.log.Error("failed to load items", "template_id", templateID, "error", err)
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer itemRows.Close()

	itemsBySection := make(map[string][]template.Item)
	for itemRows.Next() {
		var item template.Item
		if err := itemRows.Scan(&item.ID, &item.SectionID, &item.Label, &item.ItemType, &item.Position); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		itemsBySection[item.SectionID] = append(itemsBySection[item.SectionID], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	for i := range sections {
		sections[i].Items = itemsBySection[sections[i].ID]
	}

	return sections, nil
}
