package state

import "time"

const DefaultSize = "M"

// Product is a search result. Values are never modified after the search pipeline produces them.
type Product struct {
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Brand       string    `json:"brand,omitempty"`
	URL         string    `json:"url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	StoreName   string    `json:"store_name"`
	IsOnSale    bool      `json:"is_on_sale"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Key identifies a product for cart merging: url when present, else name.
func (p Product) Key() string {
	if p.URL != "" {
		return p.URL
	}
	return p.Name
}

type CartItem struct {
	Product
	Quantity     int       `json:"quantity"`
	SelectedSize string    `json:"selected_size"`
	AddedAt      time.Time `json:"added_at"`
}

func NewCartItem(p Product, size string, now time.Time) CartItem {
	if size == "" {
		size = DefaultSize
	}
	return CartItem{
		Product:      p,
		Quantity:     1,
		SelectedSize: size,
		AddedAt:      now,
	}
}

func (c CartItem) normalized() CartItem {
	if c.Quantity < 1 {
		c.Quantity = 1
	}
	if c.SelectedSize == "" {
		c.SelectedSize = DefaultSize
	}
	return c
}

// Upsell tracks the complementary-item offer made after a cart add.
type Upsell struct {
	Offered  bool   `json:"offered"`
	Pending  bool   `json:"pending"`
	Declined bool   `json:"declined"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
	BaseItem string `json:"base_item,omitempty"`
}
