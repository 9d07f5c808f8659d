// Package workspace stores databases, their typed properties, pages and the
// per-property values of each page.
package workspace

import (
	"strings"

	"pagebase/internal/ident"
	"pagebase/internal/property"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageTitle = "Untitled"
	defaultListLimit = 100
	maxListLimit     = 1000
	searchLimit      = 50
)

type Service struct {
	DB     *gorm.DB
	IDs    *ident.Generator
	Coerce *property.Coercer
	Log    *zap.SugaredLogger
}

func NewService(db *gorm.DB, ids *ident.Generator, coercer *property.Coercer, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if ids == nil {
		ids = ident.New()
	}
	if coercer == nil {
		coercer = property.NewCoercer(log, nil)
	}
	return &Service{DB: db, IDs: ids, Coerce: coercer, Log: log}
}

// optional trims s and maps blank strings to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func pageTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultPageTitle
	}
	return s
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *Service) dialect() string { return s.DB.Dialector.Name() }
