package domain

import "time"

// Product is a catalog entry. ID is assigned by the store.
type Product struct {
	ID          string    `json:"_id" doc:"_id"`
	Name        string    `json:"name" doc:"name"`
	Slug        string    `json:"slug" doc:"slug"`
	Price       float64   `json:"price" doc:"price"`
	Images      []string  `json:"images" doc:"images"`
	Description *string   `json:"description" doc:"description"`
	Sizes       []string  `json:"sizes" doc:"sizes"`
	Colors      []string  `json:"colors" doc:"colors"`
	Featured    bool      `json:"featured" doc:"featured"`
	Tags        []string  `json:"tags" doc:"tags"`
	CreatedAt   time.Time `json:"created_at" doc:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" doc:"updated_at"`
}

// NewProduct returns a Product carrying the catalog defaults for fields a
// stored document may omit.
func NewProduct() Product {
	return Product{
		Images: []string{},
		Sizes:  []string{"XS", "S", "M", "L", "XL"},
		Colors: []string{"Black", "White", "Navy"},
		Tags:   []string{},
	}
}
