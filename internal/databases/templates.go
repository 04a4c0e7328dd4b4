package databases

import "github.com/nexum-labs/nexum/backend/internal/properties"

// TemplateProperty is one column blueprint inside a template.
type TemplateProperty struct {
	Name       string                  `json:"name"`
	Type       properties.PropertyType `json:"type"`
	Order      int                     `json:"order"`
	ConfigJSON string                  `json:"-"`
}

// Template is a static schema blueprint used to seed a new database's
// properties in one transaction. The catalog is fixed at compile time and not
// user-editable.
type Template struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Icon            string             `json:"icon"`
	DefaultViewType ViewType           `json:"defaultViewType"`
	Properties      []TemplateProperty `json:"properties"`
}

var templateCatalog = []Template{
	{
		ID:              "todo-kanban",
		Name:            "Todo / Kanban",
		Description:     "Track tasks with status columns and priority levels",
		Icon:            "kanban",
		DefaultViewType: ViewTypeBoard,
		Properties: []TemplateProperty{
			{Name: "Title", Type: properties.TypeText, Order: 0},
			{Name: "Status", Type: properties.TypeSelect, Order: 1,
				ConfigJSON: `{"options":["Todo","In Progress","Done"]}`},
			{Name: "Priority", Type: properties.TypeSelect, Order: 2,
				ConfigJSON: `{"options":["Low","Medium","High"]}`},
			{Name: "Start Date", Type: properties.TypeDate, Order: 3},
			{Name: "End Date", Type: properties.TypeDate, Order: 4},
		},
	},
}

// ListTemplates returns the static template catalog.
func ListTemplates() []Template {
	result := make([]Template, len(templateCatalog))
	copy(result, templateCatalog)
	return result
}

func findTemplate(id string) (Template, bool) {
	for _, template := range templateCatalog {
		if template.ID == id {
			return template, true
		}
	}
	return Template{}, false
}
