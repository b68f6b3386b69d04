package mq

import "time"

const TaskTryOn = "assistant:tryon"

const QueueTryOn = "tryon"

type TryOnPayload struct {
	SessionID   string `json:"session_id"`
	UserID      int64  `json:"user_id"`
	PersonImage []byte `json:"person_image"`
}

type CheckoutLine struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	URL       string `json:"url"`
	StoreName string `json:"store_name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// CheckoutEvent is published once per confirmed checkout hand-off.
type CheckoutEvent struct {
	SessionID string         `json:"session_id"`
	UserID    int64          `json:"user_id"`
	Items     []CheckoutLine `json:"items"`
	Total     float64        `json:"total"`
	Stores    []string       `json:"stores"`
	At        time.Time      `json:"at"`
}
