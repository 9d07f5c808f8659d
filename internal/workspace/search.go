package workspace

import (
	"context"
	"strings"

	"pagebase/internal/property"
)

type HitKind string

const (
	HitDatabase HitKind = "database"
	HitPage     HitKind = "page"
	HitValue    HitKind = "value"
)

// SearchHit identifies one match. DatabaseID is the database a page or
// value lives in, nil for root pages and for database hits themselves.
type SearchHit struct {
	Kind       HitKind
	ID         string
	Title      string
	DatabaseID *string
	PageID     string
	PropertyID string
	Text       string
}

// Search matches term case-insensitively as a substring of database titles,
// page titles and text values. A blank term matches nothing.
func (s *Service) Search(ctx context.Context, term string) ([]SearchHit, error) {
	hits := make([]SearchHit, 0)
	term = strings.TrimSpace(term)
	if term == "" {
		return hits, nil
	}
	pattern := likePattern(term)
	db := s.DB.WithContext(ctx)

	var dbs []Database
	if err := db.Where(containsExpr("title", s.dialect()), pattern).
		Order("created_at asc, id asc").Limit(searchLimit).Find(&dbs).Error; err != nil {
		return nil, wrap("search databases", err)
	}
	for _, d := range dbs {
		hits = append(hits, SearchHit{Kind: HitDatabase, ID: d.ID, Title: d.Title})
	}

	var pages []Page
	if err := db.Where(containsExpr("title", s.dialect()), pattern).
		Order("created_at asc, id asc").Limit(searchLimit).Find(&pages).Error; err != nil {
		return nil, wrap("search pages", err)
	}
	for _, p := range pages {
		hits = append(hits, SearchHit{Kind: HitPage, ID: p.ID, Title: p.Title, DatabaseID: p.ContainerID, PageID: p.ID})
	}

	var values []struct {
		ID          string
		PageID      string
		PropertyID  string
		Text        string
		ContainerID *string
		Title       string
	}
	err := db.Table("property_values AS v").
		Select("v.id, v.page_id, v.property_id, v.text, p.container_id, p.title").
		Joins("JOIN pages p ON p.id = v.page_id").
		Joins("JOIN properties pr ON pr.id = v.property_id AND pr.type = ?", string(property.Text)).
		Where(containsExpr("v.text", s.dialect()), pattern).
		Order("v.id asc").Limit(searchLimit).
		Scan(&values).Error
	if err != nil {
		return nil, wrap("search values", err)
	}
	for _, v := range values {
		hits = append(hits, SearchHit{
			Kind:       HitValue,
			ID:         v.ID,
			Title:      v.Title,
			DatabaseID: v.ContainerID,
			PageID:     v.PageID,
			PropertyID: v.PropertyID,
			Text:       v.Text,
		})
	}
	return hits, nil
}
