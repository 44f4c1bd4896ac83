package template

import "time"

// Item is a single question/field definition within a template section.
// Label and ItemType are denormalized onto responses at answer time so a
// report keeps its history even if the template changes later.
type Item struct {
	ID        string `json:"id"`
	SectionID string `json:"section_id"`
	Label     string `json:"label"`
	ItemType  string `json:"item_type"`
	Position  int    `json:"position"`
}

type Section struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Title      string `json:"title"`
	Position   int    `json:"position"`
	Items      []Item `json:"items"`
}

type Template struct {
	ID             string    `json:"id"`
	OrganisationID string    `json:"organisation_id"`
	Name           string    `json:"name"`
	Sections       []Section `json:"sections"`
	CreatedAt      time.Time `json:"created_at"`
}

// Items flattens all sections in section/item position order.
func (t *Template) Items() []Item {
	var items []Item
	for _, s := range t.Sections {
		items = append(items, s.Items...)
	}
	return items
}

// ItemCount is the stable denominator for progress reporting.
func (t *Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}
