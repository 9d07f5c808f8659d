package workspace

import (
	"context"
	"errors"

	"pagebase/internal/property"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) GetValue(ctx context.Context, pageID, propertyID string) (Value, error) {
	var v Value
	err := s.DB.WithContext(ctx).
		Where("page_id = ? AND property_id = ?", pageID, propertyID).
		First(&v).Error
	if err != nil {
		return Value{}, wrap("get value", err)
	}
	return v, nil
}

// ListValues returns the values stored for a page. Properties without a
// stored value are absent.
func (s *Service) ListValues(ctx context.Context, pageID string) ([]Value, error) {
	rows := make([]Value, 0)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Page{}, pageID); err != nil {
			return err
		}
		return tx.Where("page_id = ?", pageID).Order("id asc").Find(&rows).Error
	})
	if err != nil {
		return nil, wrap("list values", err)
	}
	return rows, nil
}

// SetValue coerces raw against the property's type and upserts the result
// into the single value row of (pageID, propertyID). Fields missing from raw
// keep their stored content. A rejected field rejects the whole payload.
func (s *Service) SetValue(ctx context.Context, pageID, propertyID string, raw map[string]any) (Value, error) {
	var out Value
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop Property
		if err := tx.Where("id = ?", propertyID).First(&prop).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownProperty
			}
			return err
		}
		var page Page
		if err := tx.Where("id = ?", pageID).First(&page).Error; err != nil {
			return err
		}
		if page.ContainerID == nil || *page.ContainerID != prop.DatabaseID {
			return ErrForeignProperty
		}

		patch, err := s.Coerce.Coerce(prop.Target(), raw)
		if err != nil {
			return err
		}

		row := Value{ID: s.IDs.NewID(), PageID: pageID, PropertyID: propertyID}
		var f property.Fields
		patch.Apply(&f)
		row.setFields(f)

		conflict := clause.OnConflict{
			Columns: []clause.Column{{Name: "page_id"}, {Name: "property_id"}},
		}
		if patch.Len() == 0 {
			conflict.DoNothing = true
		} else {
			cols := make([]string, 0, patch.Len())
			for _, c := range patch.Columns() {
				cols = append(cols, string(c))
			}
			conflict.DoUpdates = clause.AssignmentColumns(cols)
		}
		if err := tx.Clauses(conflict).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("page_id = ? AND property_id = ?", pageID, propertyID).First(&out).Error; err != nil {
			return err
		}
		return tx.Model(&Page{}).Where("id = ?", pageID).Update("updated_at", s.IDs.Now()).Error
	})
	if err != nil {
		return Value{}, wrap("set value", err)
	}
	return out, nil
}
