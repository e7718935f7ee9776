package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// DefaultCategories lists the browsable categories, sentinel first.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: models.AllCategories, Name: "All Products"},
		{ID: "electronics", Name: "Electronics"},
		{ID: "furniture", Name: "Furniture"},
		{ID: "clothing", Name: "Clothing"},
		{ID: "kitchen", Name: "Kitchen"},
		{ID: "accessories", Name: "Accessories"},
	}
}

// DefaultProducts returns the reference catalog.
func DefaultProducts() []models.Product {
	price := decimal.RequireFromString
	return []models.Product{
		{
			ID:          1,
			Name:        "Premium Wireless Headphones",
			Description: "Experience crystal-clear audio with our premium wireless headphones. Featuring active noise cancellation, 30-hour battery life, and memory foam ear cushions for all-day comfort.",
			Price:       price("249.99"),
			Image:       "https://images.pexels.com/photos/577769/pexels-photo-577769.jpeg",
			Category:    "electronics",
			Rating:      4.8,
			Reviews:     423,
			Featured:    true,
		},
		{
			ID:          2,
			Name:        "Smart Watch Pro",
			Description: "Track your fitness goals, receive notifications, and stay connected with our waterproof Smart Watch Pro. Includes heart rate monitoring, sleep tracking, and a 5-day battery life.",
			Price:       price("199.99"),
			Image:       "https://images.pexels.com/photos/437037/pexels-photo-437037.jpeg",
			Category:    "electronics",
			Rating:      4.6,
			Reviews:     287,
		},
		{
			ID:          3,
			Name:        "Ergonomic Office Chair",
			Description: "Work in comfort with our ergonomic office chair. Adjustable lumbar support, breathable mesh back, and customizable armrests make this the perfect addition to any home office.",
			Price:       price("299.99"),
			Image:       "https://images.pexels.com/photos/1957478/pexels-photo-1957478.jpeg",
			Category:    "furniture",
			Rating:      4.5,
			Reviews:     176,
		},
		{
			ID:          4,
			Name:        "Organic Cotton T-Shirt",
			Description: "Ethically sourced, 100% organic cotton t-shirt that feels as good as it looks. Available in multiple colors and sizes.",
			Price:       price("34.99"),
			Image:       "https://images.pexels.com/photos/5698851/pexels-photo-5698851.jpeg",
			Category:    "clothing",
			Rating:      4.7,
			Reviews:     312,
		},
		{
			ID:          5,
			Name:        "Premium Coffee Maker",
			Description: "Brew barista-quality coffee with our premium coffee maker. Programmable settings, built-in grinder, and thermal carafe keep your coffee fresh for hours.",
			Price:       price("159.99"),
			Image:       "https://images.pexels.com/photos/6804604/pexels-photo-6804604.jpeg",
			Category:    "kitchen",
			Rating:      4.9,
			Reviews:     201,
			Featured:    true,
		},
		{
			ID:          6,
			Name:        "Leather Messenger Bag",
			Description: "Handcrafted from full-grain leather, our messenger bag combines style and functionality. Multiple compartments keep your essentials organized.",
			Price:       price("189.99"),
			Image:       "https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg",
			Category:    "accessories",
			Rating:      4.6,
			Reviews:     145,
		},
		{
			ID:          7,
			Name:        "Smart Home Speaker",
			Description: "Control your smart home, play music, and get answers with our voice-activated smart speaker. Features room-filling sound and far-field microphones.",
			Price:       price("129.99"),
			Image:       "https://images.pexels.com/photos/9779834/pexels-photo-9779834.jpeg",
			Category:    "electronics",
			Rating:      4.7,
			Reviews:     278,
		},
		{
			ID:          8,
			Name:        "Stainless Steel Water Bottle",
			Description: "Keep your drinks cold for 24 hours or hot for 12 with our vacuum-insulated water bottle. Durable, leak-proof design is perfect for any adventure.",
			Price:       price("39.99"),
			Image:       "https://images.pexels.com/photos/1342529/pexels-photo-1342529.jpeg",
			Category:    "accessories",
			Rating:      4.8,
			Reviews:     432,
		},
	}
}

// SeedProducts stores products in repo, skipping ids that already exist.
func SeedProducts(ctx context.Context, repo ProductRepository, products []models.Product) error {
	for i := range products {
		if _, err := repo.GetByID(ctx, products[i].ID); err == nil {
			continue
		}
		if err := repo.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("seed product %d: %w", products[i].ID, err)
		}
	}
	return nil
}
