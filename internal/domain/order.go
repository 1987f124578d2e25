package domain

import "time"

// Order is a submitted order. Total is derived from the client-supplied line
// item prices and is not checked against the catalog.
type Order struct {
	ID        string     `json:"_id" doc:"_id"`
	Items     []LineItem `json:"items" doc:"items"`
	Total     float64    `json:"total" doc:"total"`
	Email     string     `json:"email" doc:"email"`
	CreatedAt time.Time  `json:"created_at" doc:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" doc:"updated_at"`
}

// LineItem references a product by id. Price is the unit price as submitted.
type LineItem struct {
	ProductID string  `json:"product_id" doc:"product_id"`
	Size      *string `json:"size" doc:"size"`
	Color     *string `json:"color" doc:"color"`
	Quantity  int     `json:"quantity" doc:"quantity"`
	Price     float64 `json:"price" doc:"price"`
}
