package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the products table
type ProductModel struct {
	TenantScopedModel
	Slug            string                  `gorm:"type:varchar(128);not null"`
	Name            string                  `gorm:"type:varchar(200);not null"`
	Description     string                  `gorm:"type:text"`
	Price           decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Images          []string                `gorm:"type:jsonb;serializer:json"`
	Stock           *int                    `gorm:"type:integer"`
	Available       bool                    `gorm:"not null"`
	WholesalePrices []catalog.WholesaleTier `gorm:"type:jsonb;serializer:json"`
	SortOrder       int                     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the row to a domain product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:              m.ID,
		TenantID:        m.TenantID,
		Slug:            m.Slug,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		Images:          m.Images,
		Stock:           m.Stock,
		Available:       m.Available,
		WholesalePrices: m.WholesalePrices,
		SortOrder:       m.SortOrder,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProductModelFromDomain converts a domain product to a row
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	return &ProductModel{
		TenantScopedModel: TenantScopedModel{
			BaseModel: BaseModel{
				ID:        p.ID,
				CreatedAt: p.CreatedAt,
				UpdatedAt: p.UpdatedAt,
			},
			TenantID: p.TenantID,
		},
		Slug:            p.Slug,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		Images:          p.Images,
		Stock:           p.Stock,
		Available:       p.Available,
		WholesalePrices: p.WholesalePrices,
		SortOrder:       p.SortOrder,
	}
}
