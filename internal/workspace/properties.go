package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"pagebase/internal/property"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatePropertyInput struct {
	DatabaseID string
	Name       string
	Type       string
	Config     json.RawMessage
	// OrderIndex nil appends the property after the existing ones.
	OrderIndex *int
	Visible    *bool
}

type UpdatePropertyInput struct {
	Name       *string
	Type       *string
	Config     json.RawMessage
	OrderIndex *int
	Visible    *bool
}

func (s *Service) CreateProperty(ctx context.Context, in CreatePropertyInput) (Property, error) {
	t, err := property.ParseType(in.Type)
	if err != nil {
		return Property{}, err
	}
	cfg, err := property.NormalizeConfig(t, in.Config)
	if err != nil {
		return Property{}, err
	}

	now := s.IDs.Now()
	p := Property{
		ID:         s.IDs.NewID(),
		DatabaseID: in.DatabaseID,
		Name:       strings.TrimSpace(in.Name),
		Type:       t,
		Config:     datatypes.NewJSONType(cfg),
		Visible:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Visible != nil {
		p.Visible = *in.Visible
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Database{}, in.DatabaseID); err != nil {
			return err
		}
		if in.OrderIndex != nil {
			p.OrderIndex = *in.OrderIndex
		} else {
			var n int64
			if err := tx.Model(&Property{}).Where("database_id = ?", in.DatabaseID).Count(&n).Error; err != nil {
				return err
			}
			p.OrderIndex = int(n)
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return Property{}, wrap("create property", err)
	}
	return p, nil
}

func (s *Service) GetProperty(ctx context.Context, id string) (Property, error) {
	var p Property
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return Property{}, wrap("get property", err)
	}
	return p, nil
}

// ListProperties returns the database's properties by order_index, ties in
// creation order.
func (s *Service) ListProperties(ctx context.Context, databaseID string) ([]Property, error) {
	rows := make([]Property, 0)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Database{}, databaseID); err != nil {
			return err
		}
		return tx.Where("database_id = ?", databaseID).
			Order("order_index asc, created_at asc, id asc").
			Find(&rows).Error
	})
	if err != nil {
		return nil, wrap("list properties", err)
	}
	return rows, nil
}

// UpdateProperty applies the supplied fields. Changing the type re-normalizes
// the config for the new type; stored values are not converted and read as
// the new type's default until rewritten. A JSON null config is treated as
// absent.
func (s *Service) UpdateProperty(ctx context.Context, id string, in UpdatePropertyInput) (Property, error) {
	var p Property
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
			updates["name"] = p.Name
		}
		if in.OrderIndex != nil {
			p.OrderIndex = *in.OrderIndex
			updates["order_index"] = p.OrderIndex
		}
		if in.Visible != nil {
			p.Visible = *in.Visible
			updates["visible"] = p.Visible
		}

		typeChanged := false
		if in.Type != nil {
			t, err := property.ParseType(*in.Type)
			if err != nil {
				return err
			}
			if t != p.Type {
				typeChanged = true
				s.Log.Infow("property type changed, stored values are not converted",
					"property_id", p.ID, "from", p.Type, "to", t)
				p.Type = t
				updates["type"] = p.Type
			}
		}

		raw := in.Config
		if isNullJSON(raw) {
			// null keeps the current config rather than resetting to presets
			raw = nil
		}
		if raw != nil || typeChanged {
			if raw == nil {
				raw = carriedConfig(p)
			}
			cfg, err := property.NormalizeConfig(p.Type, raw)
			if err != nil {
				return err
			}
			p.Config = datatypes.NewJSONType(cfg)
			updates["config"] = p.Config
		}

		if len(updates) == 0 {
			return nil
		}
		p.UpdatedAt = s.IDs.Now()
		updates["updated_at"] = p.UpdatedAt
		return tx.Model(&Property{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return Property{}, wrap("update property", err)
	}
	return p, nil
}

func isNullJSON(raw json.RawMessage) bool {
	return raw != nil && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// carriedConfig keeps the existing options across a switch between choice
// types. Anything else starts from the new type's defaults.
func carriedConfig(p Property) json.RawMessage {
	old := p.Config.Data()
	if !p.Type.RequiresOptions() || len(old.Options) == 0 {
		return nil
	}
	raw, err := json.Marshal(property.Config{Options: old.Options})
	if err != nil {
		return nil
	}
	return raw
}

// DeleteProperty removes the property and every value stored for it.
func (s *Service) DeleteProperty(ctx context.Context, id string) (bool, error) {
	found := true
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Property{}, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				found = false
				return nil
			}
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&Value{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Property{}).Error
	})
	if err != nil {
		return false, wrap("delete property", err)
	}
	return found, nil
}
