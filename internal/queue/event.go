// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published after an order row is successfully written.
// It carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64 `json:"order_id"`
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"` // fixed-precision decimal, e.g. "5.50"
	Total       string `json:"total"`
	PlacedAt    string `json:"placed_at"`
}
