package template

import (
	"sitecheck/internal/domain/template"
)

type listInput struct {
	OrganisationID string `query:"organisation_id" doc:"Organisation to list templates for"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Templates []template.Template `json:"templates"`
}

type getInput struct {
	ID string `path:"id" doc:"Template ID"`
}

type getOutput struct {
	Body template.Template
}
