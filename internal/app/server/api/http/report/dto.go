package report

import (
	"sitecheck/internal/domain/report"
)

type createInput struct {
	Body report.CreateRequest
}

type getInput struct {
	ID string `path:"id" doc:"Report ID"`
}

type reportOutput struct {
	Body report.Report
}

type responsesOutput struct {
	Body responsesResponse
}

type responsesResponse struct {
	Responses []report.Response `json:"responses"`
}

type upsertResponseInput struct {
	ID   string `path:"id" doc:"Report ID"`
	Body report.UpsertResponseRequest
}

type responseOutput struct {
	Body report.Response
}
