package search

import (
	"strings"

	"ShopAssistant/app/services/assistant/internal/state"
)

// DefaultQuery is searched when nothing is known yet.
const DefaultQuery = "clothing"

// BuildQuery joins color, category and style in that order.
func BuildQuery(c state.Criteria) string {
	parts := make([]string, 0, 3)
	for _, v := range []string{c.ColorPreference, c.Category, c.StylePreference} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return DefaultQuery
	}
	return strings.Join(parts, " ")
}
