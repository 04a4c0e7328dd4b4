package server

import (
	"encoding/json"
	"time"

	"github.com/nexum-labs/nexum/backend/internal/databases"
	"github.com/nexum-labs/nexum/backend/internal/documents"
	"github.com/nexum-labs/nexum/backend/internal/kanban"
	"github.com/nexum-labs/nexum/backend/internal/properties"
	"github.com/nexum-labs/nexum/backend/internal/rows"
)

type propertyPayload struct {
	ID                 string          `json:"id"`
	DatabaseID         string          `json:"databaseId"`
	Name               string          `json:"name"`
	Type               string          `json:"type"`
	Order              int             `json:"order"`
	Config             json.RawMessage `json:"config"`
	RelationDatabaseID *string         `json:"relationDatabaseId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

func toPropertyPayload(property properties.Property) propertyPayload {
	return propertyPayload{
		ID:                 property.ID,
		DatabaseID:         property.DatabaseID,
		Name:               property.Name,
		Type:               string(property.Type),
		Order:              property.Order,
		Config:             property.Config(),
		RelationDatabaseID: property.RelationDatabaseID,
		CreatedAt:          property.CreatedAt,
	}
}

func toPropertyPayloads(list []properties.Property) []propertyPayload {
	result := make([]propertyPayload, 0, len(list))
	for _, property := range list {
		result = append(result, toPropertyPayload(property))
	}
	return result
}

type cellPayload struct {
	RowID      string           `json:"rowId"`
	PropertyID string           `json:"propertyId"`
	Value      json.RawMessage  `json:"value"`
	Property   *propertyPayload `json:"property,omitempty"`
}

func toCellPayload(cell rows.Cell) cellPayload {
	payload := cellPayload{
		RowID:      cell.RowID,
		PropertyID: cell.PropertyID,
		Value:      cell.Value(),
	}
	if cell.Property.ID != "" {
		property := toPropertyPayload(cell.Property)
		payload.Property = &property
	}
	return payload
}

type rowPayload struct {
	ID         string        `json:"id"`
	DatabaseID string        `json:"databaseId"`
	Order      int           `json:"order"`
	Cells      []cellPayload `json:"cells"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func toRowPayload(row rows.Row) rowPayload {
	cells := make([]cellPayload, 0, len(row.Cells))
	for _, cell := range row.Cells {
		cells = append(cells, toCellPayload(cell))
	}
	return rowPayload{
		ID:         row.ID,
		DatabaseID: row.DatabaseID,
		Order:      row.Order,
		Cells:      cells,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toRowPayloads(list []rows.Row) []rowPayload {
	result := make([]rowPayload, 0, len(list))
	for _, row := range list {
		result = append(result, toRowPayload(row))
	}
	return result
}

type databaseDetailPayload struct {
	databases.Database
	Properties []propertyPayload `json:"properties"`
	RowCount   int64             `json:"rowCount"`
}

func toDatabaseDetailPayload(detail databases.Detail) databaseDetailPayload {
	return databaseDetailPayload{
		Database:   detail.Database,
		Properties: toPropertyPayloads(detail.Properties),
		RowCount:   detail.RowCount,
	}
}

type templatePropertyPayload struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Order  int             `json:"order"`
	Config json.RawMessage `json:"config,omitempty"`
}

type templatePayload struct {
	ID              string                    `json:"id"`
	Name            string                    `json:"name"`
	Description     string                    `json:"description"`
	Icon            string                    `json:"icon"`
	DefaultViewType string                    `json:"defaultViewType"`
	Properties      []templatePropertyPayload `json:"properties"`
}

func toTemplatePayload(template databases.Template) templatePayload {
	props := make([]templatePropertyPayload, 0, len(template.Properties))
	for _, blueprint := range template.Properties {
		entry := templatePropertyPayload{
			Name:  blueprint.Name,
			Type:  string(blueprint.Type),
			Order: blueprint.Order,
		}
		if blueprint.ConfigJSON != "" {
			entry.Config = json.RawMessage(blueprint.ConfigJSON)
		}
		props = append(props, entry)
	}
	return templatePayload{
		ID:              template.ID,
		Name:            template.Name,
		Description:     template.Description,
		Icon:            template.Icon,
		DefaultViewType: string(template.DefaultViewType),
		Properties:      props,
	}
}

type documentPayload struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	ProjectID string          `json:"projectId"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toDocumentPayload(document documents.Document) documentPayload {
	payload := documentPayload{
		ID:        document.ID,
		Title:     document.Title,
		ProjectID: document.ProjectID,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}
	if document.ContentJSON != "" {
		payload.Content = json.RawMessage(document.ContentJSON)
	}
	return payload
}

type boardColumnPayload struct {
	Key           string       `json:"key"`
	Label         string       `json:"label"`
	Uncategorized bool         `json:"uncategorized"`
	Rows          []rowPayload `json:"rows"`
}

type boardFieldsPayload struct {
	Title     *propertyPayload  `json:"title,omitempty"`
	Badges    []propertyPayload `json:"badges"`
	Dates     []propertyPayload `json:"dates"`
	ExtraText []propertyPayload `json:"extraText"`
}

type boardPayload struct {
	GroupByPropertyID string               `json:"groupByPropertyId"`
	Columns           []boardColumnPayload `json:"columns"`
	Fields            boardFieldsPayload   `json:"fields"`
}

func toBoardPayload(board kanban.Board) boardPayload {
	columns := make([]boardColumnPayload, 0, len(board.Columns))
	for _, column := range board.Columns {
		columns = append(columns, boardColumnPayload{
			Key:           column.Key,
			Label:         column.Label,
			Uncategorized: column.Uncategorized,
			Rows:          toRowPayloads(column.Rows),
		})
	}

	fields := boardFieldsPayload{
		Badges:    toPropertyPayloads(board.Fields.Badges),
		Dates:     toPropertyPayloads(board.Fields.Dates),
		ExtraText: toPropertyPayloads(board.Fields.ExtraText),
	}
	if board.Fields.Title != nil {
		title := toPropertyPayload(*board.Fields.Title)
		fields.Title = &title
	}

	return boardPayload{
		GroupByPropertyID: board.GroupByPropertyID,
		Columns:           columns,
		Fields:            fields,
	}
}

// rawToJSONString normalizes an incoming JSON value field: absent or literal
// null both mean a null cell.
func rawToJSONString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	value := string(raw)
	return &value
}
