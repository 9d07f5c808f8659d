package workspace

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateDatabaseInput struct {
	Title           string
	Icon            *string
	ContainerPageID *string
}

// UpdateDatabaseInput carries only the fields being changed.
type UpdateDatabaseInput struct {
	Title *string
	Icon  *string
}

func (s *Service) CreateDatabase(ctx context.Context, in CreateDatabaseInput) (Database, error) {
	now := s.IDs.Now()
	d := Database{
		ID:              s.IDs.NewID(),
		Title:           strings.TrimSpace(in.Title),
		Icon:            optional(in.Icon),
		ContainerPageID: optional(in.ContainerPageID),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if d.ContainerPageID != nil {
			if err := exists(tx, &Page{}, *d.ContainerPageID); err != nil {
				return err
			}
		}
		return tx.Create(&d).Error
	})
	if err != nil {
		return Database{}, wrap("create database", err)
	}
	return d, nil
}

func (s *Service) GetDatabase(ctx context.Context, id string) (Database, error) {
	var d Database
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return Database{}, wrap("get database", err)
	}
	return d, nil
}

// ListDatabases pages through databases in creation order.
func (s *Service) ListDatabases(ctx context.Context, offset, limit int) ([]Database, error) {
	if offset < 0 {
		offset = 0
	}
	rows := make([]Database, 0)
	err := s.DB.WithContext(ctx).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(clampLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, wrap("list databases", err)
	}
	return rows, nil
}

func (s *Service) UpdateDatabase(ctx context.Context, id string, in UpdateDatabaseInput) (Database, error) {
	var d Database
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&d).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Title != nil {
			d.Title = strings.TrimSpace(*in.Title)
			updates["title"] = d.Title
		}
		if in.Icon != nil {
			d.Icon = optional(in.Icon)
			updates["icon"] = d.Icon
		}
		if len(updates) == 0 {
			return nil
		}
		d.UpdatedAt = s.IDs.Now()
		updates["updated_at"] = d.UpdatedAt

		return tx.Model(&Database{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return Database{}, wrap("update database", err)
	}
	return d, nil
}

// DeleteDatabase removes the database with its properties, its pages and
// every value hanging off either, in one transaction. It reports whether the
// database existed.
func (s *Service) DeleteDatabase(ctx context.Context, id string) (bool, error) {
	found := true
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Database{}, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				found = false
				return nil
			}
			return err
		}

		pageIDs := tx.Model(&Page{}).Select("id").Where("container_id = ?", id)
		propIDs := tx.Model(&Property{}).Select("id").Where("database_id = ?", id)

		if err := tx.Where("page_id IN (?) OR property_id IN (?)", pageIDs, propIDs).Delete(&Value{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Database{}).
			Where("container_page_id IN (?)", pageIDs).
			Update("container_page_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("database_id = ?", id).Delete(&Property{}).Error; err != nil {
			return err
		}
		if err := tx.Where("container_id = ?", id).Delete(&Page{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Database{}).Error
	})
	if err != nil {
		return false, wrap("delete database", err)
	}
	if found {
		s.Log.Infow("database deleted", "database_id", id)
	}
	return found, nil
}

// exists returns ErrNotFound when no row of model's table has the id.
func exists(tx *gorm.DB, model any, id string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
