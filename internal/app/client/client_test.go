package client

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStorage(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenStorage(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testTemplate() *template.Template {
	return &template.Template{
		ID:             "tpl-1",
		OrganisationID: "org-1",
		Name:           "Site Safety Walk",
		Sections: []template.Section{
			{
				ID:         "sec-1",
				TemplateID: "tpl-1",
				Title:      "Exterior",
				Position:   0,
				Items: []template.Item{
					{ID: "item-1", SectionID: "sec-1", Label: "Fencing intact", ItemType: "pass_fail", Position: 0},
					{ID: "item-2", SectionID: "sec-1", Label: "Signage visible", ItemType: "pass_fail", Position: 1},
				},
			},
			{
				ID:         "sec-2",
				TemplateID: "tpl-1",
				Title:      "Interior",
				Position:   1,
				Items: []template.Item{
					{ID: "item-3", SectionID: "sec-2", Label: "Observations", ItemType: "text", Position: 0},
				},
			},
		},
	}
}

// fakeBackend is an in-memory Backend with per-call error injection.
type fakeBackend struct {
	mu sync.Mutex

	pingErr   error
	tpl       *template.Template
	rep       *report.Report
	responses []report.Response

	createErr error
	fetchErr  error
	upsertErr error
	submitErr error

	upserts   []report.UpsertResponseRequest
	submitted []string
}

func (f *fakeBackend) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeBackend) FetchTemplate(ctx context.Context, templateID string) (*template.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.tpl, nil
}

func (f *fakeBackend) CreateReport(ctx context.Context, req report.CreateRequest) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rep = &report.Report{
		ID:             "rep-1",
		OrganisationID: req.OrganisationID,
		RecordID:       req.RecordID,
		TemplateID:     req.TemplateID,
		UserID:         req.UserID,
		Status:         report.StatusDraft,
		CreatedAt:      time.Now().UTC(),
	}
	cp := *f.rep
	return &cp, nil
}

func (f *fakeBackend) FetchReport(ctx context.Context, reportID string) (*report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.rep == nil || f.rep.ID != reportID {
		return nil, report.ErrNotFound
	}
	cp := *f.rep
	return &cp, nil
}

func (f *fakeBackend) FetchResponses(ctx context.Context, reportID string) ([]report.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]report.Response(nil), f.responses...), nil
}

func (f *fakeBackend) UpsertResponse(ctx context.Context, req report.UpsertResponseRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, req)
	return nil
}

func (f *fakeBackend) SubmitReport(ctx context.Context, reportID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, reportID)
	if f.rep != nil && f.rep.ID == reportID {
		now := time.Now().UTC()
		f.rep.Status = report.StatusSubmitted
		f.rep.SubmittedAt = &now
	}
	return nil
}

func (f *fakeBackend) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

type fakeChecker struct{ online bool }

func (f *fakeChecker) IsOnline() bool { return f.online }

var errBackendDown = errors.New("backend unavailable")
