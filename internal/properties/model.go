package properties

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// PropertyType enumerates the supported column types.
type PropertyType string

const (
	// TypeText holds free-form text.
	TypeText PropertyType = "TEXT"
	// TypeNumber holds numeric values.
	TypeNumber PropertyType = "NUMBER"
	// TypeSelect holds one value from a configured option list.
	TypeSelect PropertyType = "SELECT"
	// TypeDate holds an ISO date string.
	TypeDate PropertyType = "DATE"
	// TypeRelation references rows of another database.
	TypeRelation PropertyType = "RELATION"
)

var (
	// ErrPropertyNotFound indicates the requested property id does not exist.
	ErrPropertyNotFound = errors.New("properties: property not found")
	// ErrNameRequired indicates an empty property name was supplied.
	ErrNameRequired = errors.New("properties: name is required")
	// ErrInvalidType indicates a type outside the enumerated set.
	ErrInvalidType = errors.New("properties: invalid property type")
)

// ParseType validates raw input against the enumerated property types.
func ParseType(value string) (PropertyType, error) {
	switch PropertyType(strings.ToUpper(strings.TrimSpace(value))) {
	case TypeText:
		return TypeText, nil
	case TypeNumber:
		return TypeNumber, nil
	case TypeSelect:
		return TypeSelect, nil
	case TypeDate:
		return TypeDate, nil
	case TypeRelation:
		return TypeRelation, nil
	default:
		return "", ErrInvalidType
	}
}

// Property is a user-defined typed column in a database's schema. Order
// positions the column; duplicate order values sort by creation as a tiebreak.
type Property struct {
	ID                 string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	DatabaseID         string       `gorm:"column:database_id;size:36;not null;index" json:"databaseId"`
	Name               string       `gorm:"column:name;size:190;not null" json:"name"`
	Type               PropertyType `gorm:"column:type;size:16;not null" json:"type"`
	Order              int          `gorm:"column:position;not null;default:0" json:"order"`
	ConfigJSON         string       `gorm:"column:config_json;type:text" json:"-"`
	RelationDatabaseID *string      `gorm:"column:relation_database_id;size:36" json:"relationDatabaseId,omitempty"`
	CreatedAt          time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName provides the explicit table binding for GORM.
func (Property) TableName() string {
	return "properties"
}

type selectConfig struct {
	Options []string `json:"options"`
}

// SelectOptions decodes the option list from a SELECT property's config.
// Malformed or missing config yields an empty list rather than an error; the
// registry stores config unvalidated, so readers stay defensive.
func (p Property) SelectOptions() []string {
	if p.Type != TypeSelect || p.ConfigJSON == "" {
		return nil
	}
	var cfg selectConfig
	if err := json.Unmarshal([]byte(p.ConfigJSON), &cfg); err != nil {
		return nil
	}
	return cfg.Options
}

// Config exposes the raw config payload as JSON, or nil when unset.
func (p Property) Config() json.RawMessage {
	if p.ConfigJSON == "" {
		return nil
	}
	return json.RawMessage(p.ConfigJSON)
}
