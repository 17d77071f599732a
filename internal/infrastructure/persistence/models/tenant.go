package models

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tenant"
)

// TenantModel is the tenants table
type TenantModel struct {
	BaseModel
	Slug     string          `gorm:"type:varchar(63);not null;uniqueIndex"`
	Name     string          `gorm:"type:varchar(200);not null"`
	Status   string          `gorm:"type:varchar(20);not null;default:'active'"`
	Plan     string          `gorm:"type:varchar(20);not null;default:'free'"`
	OwnerID  *uuid.UUID      `gorm:"type:uuid"`
	Currency string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Features tenant.Features `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the row to a domain tenant
func (m *TenantModel) ToDomain() *tenant.Tenant {
	currency := valueobject.Currency(m.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &tenant.Tenant{
		ID:        m.ID,
		Slug:      m.Slug,
		Name:      m.Name,
		Status:    tenant.Status(m.Status),
		Plan:      tenant.Plan(m.Plan),
		OwnerID:   m.OwnerID,
		Currency:  currency,
		Features:  m.Features,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// TenantModelFromDomain converts a domain tenant to a row
func TenantModelFromDomain(t *tenant.Tenant) *TenantModel {
	return &TenantModel{
		BaseModel: BaseModel{
			ID:        t.ID,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		Slug:     t.Slug,
		Name:     t.Name,
		Status:   string(t.Status),
		Plan:     string(t.Plan),
		OwnerID:  t.OwnerID,
		Currency: string(t.Currency),
		Features: t.Features,
	}
}
