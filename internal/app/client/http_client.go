package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"sitecheck/internal/app/client/config"
	"sitecheck/internal/domain/report"
	"sitecheck/internal/domain/template"
)

// httpBackend implements Backend against the bundled API server.
type httpBackend struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewHTTPBackend(cfg *config.Config, log *slog.Logger) *httpBackend {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpBackend{
		client:    client,
		log:       log.With("component", "http_backend"),
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "SiteCheck-Client/1.0",
	}
}

func (h *httpBackend) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	return nil
}

func (h *httpBackend) FetchTemplate(ctx context.Context, templateID string) (*template.Template, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/templates/"+templateID, nil)
	if err != nil {
		return nil, err
	}

	var tpl template.Template
	if err := h.parseResponse(resp, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (h *httpBackend) CreateReport(ctx context.Context, req report.CreateRequest) (*report.Report, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/reports", req)
	if err != nil {
		return nil, err
	}

	var rep report.Report
	if err := h.parseResponse(resp, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (h *httpBackend) FetchReport(ctx context.Context, reportID string) (*report.Report, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/reports/"+reportID, nil)
	if err != nil {
		return nil, err
	}

	var rep report.Report
	if err := h.parseResponse(resp, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (h *httpBackend) FetchResponses(ctx context.Context, reportID string) ([]report.Response, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/v1/reports/"+reportID+"/responses", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Responses []report.Response `json:"responses"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}
	return listResp.Responses, nil
}

func (h *httpBackend) UpsertResponse(ctx context.Context, req report.UpsertResponseRequest) error {
	resp, err := h.doRequest(ctx, http.MethodPut, "/api/v1/reports/"+req.ReportID+"/responses", req)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpBackend) SubmitReport(ctx context.Context, reportID string) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/reports/"+reportID+"/submit", nil)
	if err != nil {
		return err
	}
	return h.parseResponse(resp, nil)
}

func (h *httpBackend) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	h.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	return resp, nil
}

func (h *httpBackend) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	h.log.Debug("received response",
		"status", resp.StatusCode,
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("server error: %s", errResp.Detail)
		}
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}

	return nil
}
