package models

import "github.com/shopspring/decimal"

// AllCategories is the category id that selects the whole catalog.
const AllCategories = "all"

// Product represents an item in the store catalog.
// Products are immutable once published; the cart keeps its own copy.
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey" validate:"required,gt=0"`
	Name        string          `json:"name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Description string          `json:"description" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"gte=0"`
	Image       string          `json:"image" validate:"omitempty,url"`
	Category    string          `json:"category" gorm:"index;type:varchar(100)" validate:"required"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	Reviews     int             `json:"reviews" validate:"gte=0"`
	Featured    bool            `json:"featured,omitempty"`
}

// Category is a browsable product grouping.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
