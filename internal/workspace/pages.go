package workspace

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatePageInput struct {
	ContainerID *string
	Title       string
	Icon        *string
	Cover       *string
	Content     *string
}

type UpdatePageInput struct {
	Title   *string
	Icon    *string
	Cover   *string
	Content *string
}

func (s *Service) CreatePage(ctx context.Context, in CreatePageInput) (Page, error) {
	now := s.IDs.Now()
	p := Page{
		ID:          s.IDs.NewID(),
		ContainerID: optional(in.ContainerID),
		Title:       pageTitle(in.Title),
		Icon:        optional(in.Icon),
		Cover:       optional(in.Cover),
		Content:     in.Content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.ContainerID != nil {
			if err := exists(tx, &Database{}, *p.ContainerID); err != nil {
				return err
			}
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return Page{}, wrap("create page", err)
	}
	return p, nil
}

func (s *Service) GetPage(ctx context.Context, id string) (Page, error) {
	var p Page
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return Page{}, wrap("get page", err)
	}
	return p, nil
}

// ListPages returns the pages of a database in creation order. A non-nil
// filter keeps only pages whose value for one property matches it.
func (s *Service) ListPages(ctx context.Context, databaseID string, filter *PageFilter) ([]Page, error) {
	rows := make([]Page, 0)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Database{}, databaseID); err != nil {
			return err
		}
		q := tx.Where("container_id = ?", databaseID)
		if filter != nil {
			var prop Property
			if err := tx.Where("id = ?", filter.PropertyID).First(&prop).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUnknownProperty
				}
				return err
			}
			if prop.DatabaseID != databaseID {
				return ErrForeignProperty
			}
			cond, args, err := filter.where(prop, s.dialect())
			if err != nil {
				return err
			}
			q = q.Where(cond, args...)
		}
		return q.Order("created_at asc, id asc").Find(&rows).Error
	})
	if err != nil {
		return nil, wrap("list pages", err)
	}
	return rows, nil
}

// ListRootPages returns the standalone pages that belong to no database.
func (s *Service) ListRootPages(ctx context.Context) ([]Page, error) {
	rows := make([]Page, 0)
	err := s.DB.WithContext(ctx).
		Where("container_id IS NULL").
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, wrap("list root pages", err)
	}
	return rows, nil
}

func (s *Service) UpdatePage(ctx context.Context, id string, in UpdatePageInput) (Page, error) {
	var p Page
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if in.Title != nil {
			p.Title = pageTitle(*in.Title)
			updates["title"] = p.Title
		}
		if in.Icon != nil {
			p.Icon = optional(in.Icon)
			updates["icon"] = p.Icon
		}
		if in.Cover != nil {
			p.Cover = optional(in.Cover)
			updates["cover"] = p.Cover
		}
		if in.Content != nil {
			p.Content = in.Content
			updates["content"] = p.Content
		}
		if len(updates) == 0 {
			return nil
		}
		p.UpdatedAt = s.IDs.Now()
		updates["updated_at"] = p.UpdatedAt
		return tx.Model(&Page{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return Page{}, wrap("update page", err)
	}
	return p, nil
}

// DeletePage removes the page with its values and detaches databases that
// were nested under it.
func (s *Service) DeletePage(ctx context.Context, id string) (bool, error) {
	found := true
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &Page{}, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				found = false
				return nil
			}
			return err
		}
		if err := tx.Where("page_id = ?", id).Delete(&Value{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Database{}).
			Where("container_page_id = ?", id).
			Update("container_page_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Page{}).Error
	})
	if err != nil {
		return false, wrap("delete page", err)
	}
	return found, nil
}
