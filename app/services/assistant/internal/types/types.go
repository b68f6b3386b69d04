// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

type ChatRequest struct {
	SessionId string `json:"session_id,optional"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionId     string    `json:"session_id"`
	Replies       []string  `json:"replies"`
	Stage         string    `json:"stage"`
	ProductsShown []Product `json:"products_shown"`
	Cart          CartView  `json:"cart"`
	Degraded      bool      `json:"degraded"`
}

type Product struct {
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Brand     string `json:"brand,omitempty"`
	Url       string `json:"url,omitempty"`
	ImageUrl  string `json:"image_url,omitempty"`
	StoreName string `json:"store_name"`
	IsOnSale  bool   `json:"is_on_sale"`
}

type CartLine struct {
	Position     int     `json:"position"`
	Name         string  `json:"name"`
	Price        string  `json:"price"`
	Url          string  `json:"url,omitempty"`
	ImageUrl     string  `json:"image_url,omitempty"`
	SelectedSize string  `json:"selected_size"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

type CartStore struct {
	Store    string     `json:"store"`
	Lines    []CartLine `json:"lines"`
	Subtotal float64    `json:"subtotal"`
}

type CartView struct {
	Stores []CartStore `json:"stores"`
	Count  int         `json:"count"`
	Total  float64     `json:"total"`
}

type SessionRequest struct {
	SessionId string `path:"id"`
}

type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

type SessionResponse struct {
	SessionId      string            `json:"session_id"`
	Stage          string            `json:"stage"`
	Messages       []Message         `json:"messages"`
	Criteria       map[string]string `json:"criteria"`
	ProductsShown  []Product         `json:"products_shown"`
	Cart           CartView          `json:"cart"`
	QuestionsAsked int               `json:"questions_asked"`
	UpdatedAt      int64             `json:"updated_at"`
}

type TryOnRequest struct {
	SessionId   string `path:"id"`
	PersonImage string `json:"person_image"`
}

type TryOnSlot struct {
	Slot     string `json:"slot"`
	Item     string `json:"item"`
	Ok       bool   `json:"ok"`
	Image    string `json:"image,omitempty"`
	Error    string `json:"error,omitempty"`
	Attempts int    `json:"attempts"`
}

type TryOnResponse struct {
	SessionId  string      `json:"session_id"`
	Status     string      `json:"status"`
	Results    []TryOnSlot `json:"results"`
	FinishedAt int64       `json:"finished_at,omitempty"`
}
