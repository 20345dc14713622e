package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderStatus constants
const (
	POStatusDraft     = "DRAFT"
	POStatusOrdered   = "ORDERED"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder represents an order placed with a supplier
type PurchaseOrder struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_number"`
	SupplierID  *uuid.UUID          `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier    *Supplier           `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	OrderDate   time.Time           `gorm:"type:date;not null;index" json:"order_date"`
	TotalAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"` // Sum of item price totals
	Status      string              `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Note        string              `gorm:"type:text" json:"note"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID" json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (p *PurchaseOrder) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PurchaseOrderItem represents a line item within a PurchaseOrder. Item
// name and code are denormalized so analytics survive ingredient edits.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	IngredientID    *uuid.UUID      `gorm:"type:uuid;index" json:"ingredient_id"`
	ItemCode        string          `gorm:"type:varchar(100)" json:"item_code"`
	ItemName        string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Unit            string          `gorm:"type:varchar(50)" json:"unit"`
	Quantity        float64         `gorm:"type:decimal(18,4);not null" json:"quantity"`
	PricePerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_per_unit"`
	PriceTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_total"`
}

func (p *PurchaseOrderItem) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
