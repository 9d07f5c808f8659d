package workspace

import (
	"time"

	"pagebase/internal/property"

	"gorm.io/datatypes"
)

// Database is a user-defined typed collection of pages.
type Database struct {
	ID              string `gorm:"primaryKey"`
	Title           string `gorm:"not null;default:''"`
	Icon            *string
	ContainerPageID *string `gorm:"index"`
	CreatedAt       int64   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       int64   `gorm:"not null;autoUpdateTime:false"`
}

// Property is one typed column of a database.
type Property struct {
	ID         string                              `gorm:"primaryKey"`
	DatabaseID string                              `gorm:"index;not null"`
	Name       string                              `gorm:"not null;default:''"`
	Type       property.Type                       `gorm:"not null"`
	Config     datatypes.JSONType[property.Config] `gorm:"not null"`
	OrderIndex int                                 `gorm:"not null"`
	Visible    bool                                `gorm:"not null"`
	CreatedAt  int64                               `gorm:"not null;autoCreateTime:false"`
	UpdatedAt  int64                               `gorm:"not null;autoUpdateTime:false"`
}

func (p Property) Target() property.Target {
	return property.Target{ID: p.ID, Type: p.Type, Config: p.Config.Data()}
}

// Page is a row of a database, or a standalone document when ContainerID is nil.
// Content is an opaque serialized block document.
type Page struct {
	ID          string  `gorm:"primaryKey"`
	ContainerID *string `gorm:"index"`
	Title       string  `gorm:"not null"`
	Icon        *string
	Cover       *string
	Content     *string
	CreatedAt   int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64 `gorm:"not null;autoUpdateTime:false"`
}

// Value is the stored content of one property for one page. At most one row
// exists per (PageID, PropertyID).
type Value struct {
	ID         string `gorm:"primaryKey"`
	PageID     string `gorm:"not null;uniqueIndex:uq_property_values_page_property"`
	PropertyID string `gorm:"not null;uniqueIndex:uq_property_values_page_property"`

	Text      *string
	Number    *float64
	Date      *time.Time
	EndDate   *time.Time
	Checked   *bool
	OptionID  *string
	OptionIDs datatypes.JSONSlice[string] `gorm:"not null"`
}

func (Value) TableName() string { return "property_values" }

func (v Value) Fields() property.Fields {
	return property.Fields{
		Text:      v.Text,
		Number:    v.Number,
		Date:      v.Date,
		EndDate:   v.EndDate,
		Checked:   v.Checked,
		OptionID:  v.OptionID,
		OptionIDs: []string(v.OptionIDs),
	}
}

func (v *Value) setFields(f property.Fields) {
	v.Text = f.Text
	v.Number = f.Number
	v.Date = f.Date
	v.EndDate = f.EndDate
	v.Checked = f.Checked
	v.OptionID = f.OptionID
	v.OptionIDs = datatypes.JSONSlice[string](f.OptionIDs)
	if v.OptionIDs == nil {
		v.OptionIDs = datatypes.JSONSlice[string]{}
	}
}

// Typed reads the row as a value of prop's current type.
func (v Value) Typed(prop Property) property.Value {
	return property.Decode(prop.Type, prop.Config.Data(), v.Fields())
}
