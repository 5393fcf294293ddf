package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. New products start inactive pending review.
type Product struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SKU           string            `gorm:"column:sku;not null"`
	Name          string            `gorm:"type:text;not null"`
	Description   *string           `gorm:"column:description"`
	Price         decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice     *decimal.Decimal  `gorm:"column:sale_price;type:numeric(12,2)"`
	StockQuantity int               `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool              `gorm:"column:is_active;not null;default:false"`
	AboutItem     *string           `gorm:"column:about_item"`
	Discount      *float64          `gorm:"column:discount;type:numeric(5,2)"`
	Rating        float64           `gorm:"column:rating;not null;default:0"`
	Brand         *string           `gorm:"column:brand"`
	Color         *string           `gorm:"column:color"` // comma-joined list
	Images        []ProductImage    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories    []ProductCategory `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     *time.Time        `gorm:"column:deleted_at"`
}

// ProductImage stores the opaque path returned by file storage.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// ProductCategory links a product to a category. The pair is the primary key;
// duplicates are impossible at the storage layer.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Product    *Product  `gorm:"foreignKey:ProductID"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
