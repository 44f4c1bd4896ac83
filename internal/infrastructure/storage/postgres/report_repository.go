package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/report"
)

type ReportRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewReportRepository(pool *pgxpool.Pool, log *slog.Logger) *ReportRepository {
	return &ReportRepository{
		pool: pool,
		log:  log.With("component", "report_repository"),
	}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	const query = `
		INSERT INTO reports (id, organisation_id, record_id, template_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		rep.ID, rep.OrganisationID, rep.RecordID, rep.TemplateID,
		rep.UserID, rep.Status, rep.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create report",
			"template_id", rep.TemplateID, "record_id", rep.RecordID, "error", err)
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *ReportRepository) Get(ctx context.Context, reportID string) (*report.Report, error) {
	const query = `
		SELECT id, organisation_id, record_id, template_id, user_id, status, created_at, submitted_at
		FROM reports
		WHERE id = $1`

	var rep report.Report
	err := r.pool.QueryRow(ctx, query, reportID).Scan(
		&rep.ID, &rep.OrganisationID, &rep.RecordID, &rep.TemplateID,
		&rep.UserID, &rep.Status, &rep.CreatedAt, &rep.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrNotFound
		}
		r.log.Error("failed to get report", "report_id", reportID, "error", err)
		return nil, fmt.Errorf("get report: %w", err)
	}

	return &rep, nil
}

func (r *ReportRepository) SetStatus(ctx context.Context, reportID string, status report.Status) error {
	const query = `
		UPDATE reports
		SET status = $1,
		    submitted_at = CASE WHEN $1 = 'submitted' THEN NOW() ELSE submitted_at END
		WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, status, reportID)
	if err != nil {
		r.log.Error("failed to set report status",
			"report_id", reportID, "status", status, "error", err)
		return fmt.Errorf("set report status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return report.ErrNotFound
	}

	return nil
}

func (r *ReportRepository) ListResponses(ctx context.Context, reportID string) ([]report.Response, error) {
	const query = `
		SELECT r.id, r.report_id, r.template_item_id, r.item_label, r.item_type,
		       r.response_value, r.severity, r.notes, r.created_at, r.updated_at
		FROM report_responses r
		LEFT JOIN template_items i ON i.id = r.template_item_id
		LEFT JOIN template_sections s ON s.id = i.section_id
		WHERE r.report_id = $1
		ORDER BY s.position, i.position, r.created_at`

	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		r.log.Error("failed to list responses", "report_id", reportID, "error", err)
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	var responses []report.Response
	for rows.Next() {
		var resp report.Response
		if err := rows.Scan(
			&resp.ID, &resp.ReportID, &resp.TemplateItemID, &resp.ItemLabel, &resp.ItemType,
			&resp.ResponseValue, &resp.Severity, &resp.Notes, &resp.CreatedAt, &resp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, resp)
	}

	return responses, rows.Err()
}

// UpsertResponse writes a whole response snapshot keyed on
// (report_id, template_item_id). A repeat write replaces every value field
// and bumps updated_at; the row id and created_at of the first write stay.
func (r *ReportRepository) UpsertResponse(ctx context.Context, resp *report.Response) error {
	const query = `
		INSERT INTO report_responses
			(id, report_id, template_item_id, item_label, item_type,
			 response_value, severity, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
		ON CONFLICT (report_id, template_item_id) DO UPDATE SET
			item_label = excluded.item_label,
			item_type = excluded.item_type,
			response_value = excluded.response_value,
			severity = excluded.severity,
			notes = excluded.notes,
			updated_at = excluded.updated_at
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		resp.ID, resp.ReportID, resp.TemplateItemID, resp.ItemLabel, resp.ItemType,
		resp.ResponseValue, resp.Severity, resp.Notes, resp.UpdatedAt,
	).Scan(&resp.ID, &resp.CreatedAt)

	if err != nil {
		r.log.Error("failed to upsert response",
			"report_id", resp.ReportID, "template_item_id", resp.TemplateItemID, "error", err)
		return fmt.Errorf("upsert response: %w", err)
	}

	return nil
}
