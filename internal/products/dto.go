package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CreateProductRequest lists a new catalog item. Listings always start
// inactive; an explicit activation step publishes them.
type CreateProductRequest struct {
	SKU           string           `json:"sku" validate:"required,min=1,max=64"`
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price" validate:"required"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity int              `json:"stock_quantity" validate:"gte=0"`
	AboutItem     *string          `json:"about_item,omitempty"`
	Discount      *float64         `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Brand         *string          `json:"brand,omitempty"`
	Colors        []string         `json:"colors,omitempty"`
	CategoryIDs   []uuid.UUID      `json:"category_ids,omitempty"`
}

// UpdateProductRequest patches scalar listing fields. Category links are
// managed through SetCategories.
type UpdateProductRequest struct {
	SKU           *string          `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool            `json:"is_active,omitempty"`
	AboutItem     *string          `json:"about_item,omitempty"`
	Discount      *float64         `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Brand         *string          `json:"brand,omitempty"`
	Colors        []string         `json:"colors,omitempty"`
}

// SetCategoriesRequest declares the product's desired category set.
type SetCategoriesRequest struct {
	CategoryIDs []uuid.UUID `json:"category_ids" validate:"required"`
}

// ReplaceImagesRequest swaps the product's image URLs.
type ReplaceImagesRequest struct {
	URLs []string `json:"urls" validate:"required"`
}

type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	IsActive      bool             `json:"is_active"`
	AboutItem     *string          `json:"about_item,omitempty"`
	Discount      *float64         `json:"discount,omitempty"`
	Rating        float64          `json:"rating"`
	Brand         *string          `json:"brand,omitempty"`
	Colors        []string         `json:"colors"`
	Images        []string         `json:"images"`
	Categories    []CategoryRef    `json:"categories"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func toResponse(product *models.Product) ProductResponse {
	images := make([]string, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, image.URL)
	}
	categories := make([]CategoryRef, 0, len(product.Categories))
	for _, link := range product.Categories {
		ref := CategoryRef{ID: link.CategoryID}
		if link.Category != nil {
			ref.Name = link.Category.Name
			ref.Slug = link.Category.Slug
		}
		categories = append(categories, ref)
	}
	return ProductResponse{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		SalePrice:     product.SalePrice,
		StockQuantity: product.StockQuantity,
		IsActive:      product.IsActive,
		AboutItem:     product.AboutItem,
		Discount:      product.Discount,
		Rating:        product.Rating,
		Brand:         product.Brand,
		Colors:        splitColors(product.Color),
		Images:        images,
		Categories:    categories,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func joinColors(colors []string) *string {
	cleaned := make([]string, 0, len(colors))
	for _, color := range colors {
		if c := strings.TrimSpace(color); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}

func splitColors(joined *string) []string {
	if joined == nil || *joined == "" {
		return []string{}
	}
	parts := strings.Split(*joined, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
