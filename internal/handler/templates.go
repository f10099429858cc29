package handler

import (
	"html/template"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Math functions
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},

		// Date/Time functions
		"year": func() int {
			return time.Now().Year()
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},

		// Domain helpers
		"won": domain.FormatWon,
		"categories": func() []domain.ClientCategory {
			return domain.Categories()
		},
		"holidays": func() []domain.Holiday {
			return domain.Holidays()
		},
		"giftStatuses": func() []domain.GiftStatus {
			return domain.GiftStatuses()
		},
		"catalogForCategory": domain.CatalogForCategory,
	}
}
