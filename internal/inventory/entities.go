package inventory

import "time"

// Product is a catalog entry with its available stock.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Picture       string    `json:"picture" db:"picture"`
	Stock         int       `json:"stock" db:"stock"`
	Price         float64   `json:"price" db:"price"`
	WeightInGrams int       `json:"weightInGrams" db:"weight_in_grams"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a Product enforcing the non-negative price and stock invariants.
func NewProduct(id int64, name, description, picture string, price float64, stock, weightInGrams int) (*Product, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	now := time.Now().UTC()
	return &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		Picture:       picture,
		Price:         price,
		Stock:         stock,
		WeightInGrams: weightInGrams,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// StockItem is a requested quantity for a single product.
type StockItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}
