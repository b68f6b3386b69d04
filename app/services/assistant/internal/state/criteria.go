package state

import "strings"

// Criteria holds the accumulated shopping attributes. Empty string means unknown.
type Criteria struct {
	Category        string `json:"category,omitempty"`
	Size            string `json:"size,omitempty"`
	ColorPreference string `json:"color_preference,omitempty"`
	BudgetMax       string `json:"budget_max,omitempty"`
	StylePreference string `json:"style_preference,omitempty"`
	BrandPreference string `json:"brand_preference,omitempty"`
}

// Merge returns c overlaid with every non-empty key of newer.
// Keys newer does not mention keep their current value.
func (c Criteria) Merge(newer Criteria) Criteria {
	out := c
	for _, attr := range attributeOrder {
		if v := newer.Get(attr); v != "" {
			out.set(attr, v)
		}
	}
	return out
}

var attributeOrder = []Attribute{AttrCategory, AttrSize, AttrBudget, AttrColor, AttrStyle, AttrBrand}

func (c Criteria) Get(attr Attribute) string {
	switch attr {
	case AttrCategory:
		return c.Category
	case AttrSize:
		return c.Size
	case AttrColor:
		return c.ColorPreference
	case AttrBudget:
		return c.BudgetMax
	case AttrStyle:
		return c.StylePreference
	case AttrBrand:
		return c.BrandPreference
	}
	return ""
}

func (c *Criteria) set(attr Attribute, v string) {
	v = strings.TrimSpace(v)
	switch attr {
	case AttrCategory:
		c.Category = v
	case AttrSize:
		c.Size = v
	case AttrColor:
		c.ColorPreference = v
	case AttrBudget:
		c.BudgetMax = v
	case AttrStyle:
		c.StylePreference = v
	case AttrBrand:
		c.BrandPreference = v
	}
}

// With returns a copy with attr set to v.
func (c Criteria) With(attr Attribute, v string) Criteria {
	c.set(attr, v)
	return c
}

func (c Criteria) Has(attr Attribute) bool {
	return c.Get(attr) != ""
}

func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Missing lists unknown attributes in the given ranking order.
func (c Criteria) Missing(ranking []Attribute) []Attribute {
	out := make([]Attribute, 0, len(ranking))
	for _, attr := range ranking {
		if !c.Has(attr) {
			out = append(out, attr)
		}
	}
	return out
}

// Describe restates the criteria as a short request, e.g. "black hoodies in size M under 60".
func (c Criteria) Describe() string {
	parts := make([]string, 0, 6)
	if c.ColorPreference != "" {
		parts = append(parts, c.ColorPreference)
	}
	if c.StylePreference != "" {
		parts = append(parts, c.StylePreference)
	}
	if c.BrandPreference != "" {
		parts = append(parts, c.BrandPreference)
	}
	if c.Category != "" {
		parts = append(parts, c.Category)
	} else {
		parts = append(parts, "clothing")
	}
	if c.Size != "" {
		parts = append(parts, "in size "+c.Size)
	}
	if c.BudgetMax != "" {
		parts = append(parts, "under "+c.BudgetMax)
	}
	return strings.Join(parts, " ")
}
