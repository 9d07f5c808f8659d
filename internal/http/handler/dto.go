package handler

import (
	"encoding/json"
	"time"

	"pagebase/internal/property"
	"pagebase/internal/workspace"
)

type databaseDTO struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Icon            *string       `json:"icon"`
	ContainerPageID *string       `json:"container_page_id"`
	CreatedAt       int64         `json:"created_at"`
	UpdatedAt       int64         `json:"updated_at"`
	Properties      []propertyDTO `json:"properties,omitempty"`
}

func toDatabaseDTO(d workspace.Database) databaseDTO {
	return databaseDTO{
		ID:              d.ID,
		Title:           d.Title,
		Icon:            d.Icon,
		ContainerPageID: d.ContainerPageID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type propertyDTO struct {
	ID         string          `json:"id"`
	DatabaseID string          `json:"database_id"`
	Name       string          `json:"name"`
	Type       property.Type   `json:"type"`
	Config     property.Config `json:"config"`
	OrderIndex int             `json:"order_index"`
	Visible    bool            `json:"visible"`
	CreatedAt  int64           `json:"created_at"`
	UpdatedAt  int64           `json:"updated_at"`
}

func toPropertyDTO(p workspace.Property) propertyDTO {
	return propertyDTO{
		ID:         p.ID,
		DatabaseID: p.DatabaseID,
		Name:       p.Name,
		Type:       p.Type,
		Config:     p.Config.Data(),
		OrderIndex: p.OrderIndex,
		Visible:    p.Visible,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPropertyDTOs(props []workspace.Property) []propertyDTO {
	out := make([]propertyDTO, 0, len(props))
	for _, p := range props {
		out = append(out, toPropertyDTO(p))
	}
	return out
}

type pageDTO struct {
	ID          string          `json:"id"`
	ContainerID *string         `json:"container_id"`
	Title       string          `json:"title"`
	Icon        *string         `json:"icon"`
	Cover       *string         `json:"cover"`
	Content     json.RawMessage `json:"content"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

func toPageDTO(p workspace.Page) pageDTO {
	dto := pageDTO{
		ID:          p.ID,
		ContainerID: p.ContainerID,
		Title:       p.Title,
		Icon:        p.Icon,
		Cover:       p.Cover,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Content != nil && json.Valid([]byte(*p.Content)) {
		dto.Content = json.RawMessage(*p.Content)
	}
	return dto
}

func toPageDTOs(pages []workspace.Page) []pageDTO {
	out := make([]pageDTO, 0, len(pages))
	for _, p := range pages {
		out = append(out, toPageDTO(p))
	}
	return out
}

// content turns a request's raw content into the stored text. Absent and
// null both mean no content.
func content(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s := string(raw)
	return &s
}

type valueDTO struct {
	ID         string         `json:"id"`
	PageID     string         `json:"page_id"`
	PropertyID string         `json:"property_id"`
	Text       *string        `json:"text"`
	Number     *float64       `json:"number"`
	Date       *time.Time     `json:"date"`
	EndDate    *time.Time     `json:"end_date"`
	Checked    *bool          `json:"checked"`
	OptionID   *string        `json:"option_id"`
	OptionIDs  []string       `json:"option_ids"`
	Value      property.Value `json:"value"`
}

func toValueDTO(v workspace.Value, prop workspace.Property) valueDTO {
	ids := []string(v.OptionIDs)
	if ids == nil {
		ids = []string{}
	}
	return valueDTO{
		ID:         v.ID,
		PageID:     v.PageID,
		PropertyID: v.PropertyID,
		Text:       v.Text,
		Number:     v.Number,
		Date:       v.Date,
		EndDate:    v.EndDate,
		Checked:    v.Checked,
		OptionID:   v.OptionID,
		OptionIDs:  ids,
		Value:      v.Typed(prop),
	}
}

type searchHitDTO struct {
	Kind       workspace.HitKind `json:"kind"`
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	DatabaseID *string           `json:"database_id,omitempty"`
	PageID     string            `json:"page_id,omitempty"`
	PropertyID string            `json:"property_id,omitempty"`
	Text       string            `json:"text,omitempty"`
}
