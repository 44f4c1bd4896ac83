package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, rep *Report) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, reportID string) (*Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, reportID string, status Status) error {
	args := m.Called(ctx, reportID, status)
	return args.Error(0)
}

func (m *MockRepository) ListResponses(ctx context.Context, reportID string) ([]Response, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Response), args.Error(1)
}

func (m *MockRepository) UpsertResponse(ctx context.Context, resp *Response) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func sevPtr(s Severity) *Severity { return &s }

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*report.Report")).Return(nil)

	rep, err := service.Create(context.Background(), CreateRequest{
		OrganisationID: "org-1",
		RecordID:       "rec-1",
		TemplateID:     "tpl-1",
		UserID:         "user-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, StatusDraft, rep.Status)
	assert.Nil(t, rep.SubmittedAt)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_MissingFields(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	_, err := service.Create(context.Background(), CreateRequest{TemplateID: "tpl-1"})

	assert.ErrorIs(t, err, ErrMissingFields)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Submit(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "rep-1").Return(&Report{
		ID:     "rep-1",
		Status: StatusDraft,
	}, nil)
	mockRepo.On("SetStatus", mock.Anything, "rep-1", StatusSubmitted).Return(nil)

	rep, err := service.Submit(context.Background(), "rep-1")

	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, rep.Status)
	require.NotNil(t, rep.SubmittedAt)
	assert.WithinDuration(t, time.Now().UTC(), *rep.SubmittedAt, time.Minute)
	mockRepo.AssertExpectations(t)
}

func TestService_Submit_AlreadySubmitted(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "rep-1").Return(&Report{
		ID:     "rep-1",
		Status: StatusSubmitted,
	}, nil)

	_, err := service.Submit(context.Background(), "rep-1")

	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	mockRepo.AssertNotCalled(t, "SetStatus")
}

func TestService_UpsertResponse(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "rep-1").Return(&Report{
		ID:     "rep-1",
		Status: StatusDraft,
	}, nil)
	mockRepo.On("UpsertResponse", mock.Anything, mock.AnythingOfType("*report.Response")).Return(nil)

	resp, err := service.UpsertResponse(context.Background(), UpsertResponseRequest{
		ReportID:       "rep-1",
		TemplateItemID: "item-1",
		ItemLabel:      "Fire extinguisher present",
		ItemType:       "pass_fail",
		ResponseValue:  strPtr("fail"),
		Severity:       sevPtr(SeverityHigh),
	})

	require.NoError(t, err)
	assert.Equal(t, "item-1", resp.TemplateItemID)
	assert.False(t, resp.UpdatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestService_UpsertResponse_SubmittedReport(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "rep-1").Return(&Report{
		ID:     "rep-1",
		Status: StatusSubmitted,
	}, nil)

	_, err := service.UpsertResponse(context.Background(), UpsertResponseRequest{
		ReportID:       "rep-1",
		TemplateItemID: "item-1",
	})

	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	mockRepo.AssertNotCalled(t, "UpsertResponse")
}

func TestService_UpsertResponse_InvalidSeverity(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	bad := Severity("critical")
	_, err := service.UpsertResponse(context.Background(), UpsertResponseRequest{
		ReportID:       "rep-1",
		TemplateItemID: "item-1",
		Severity:       &bad,
	})

	assert.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestService_Get_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Get", mock.Anything, "missing").Return(nil, ErrNotFound)

	_, err := service.Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, ErrNotFound))
}
