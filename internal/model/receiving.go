package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceivingStatus constants
const (
	ReceivingStatusPosted = "POSTED"
	ReceivingStatusVoided = "VOIDED"
)

// ReceivingRecord represents goods physically received at the kitchen,
// optionally against a purchase order. Walk-in market buys have no PO.
type ReceivingRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiptNumber   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"receipt_number"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index" json:"purchase_order_id"`
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier        *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	ReceivedDate    time.Time       `gorm:"type:date;not null;index" json:"received_date"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);not null;default:'POSTED';index" json:"status"`
	Note            string          `gorm:"type:text" json:"note"`
	Items           []ReceivingItem `gorm:"foreignKey:ReceivingRecordID" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (r *ReceivingRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReceivingItem represents one received line. ReceivedDate is set when the
// line arrived on a different day than the record header (split deliveries).
type ReceivingItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReceivingRecordID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receiving_record_id"`
	IngredientID      *uuid.UUID      `gorm:"type:uuid;index" json:"ingredient_id"`
	ItemCode          string          `gorm:"type:varchar(100)" json:"item_code"`
	ItemName          string          `gorm:"type:varchar(255);not null" json:"item_name"`
	Unit              string          `gorm:"type:varchar(50)" json:"unit"`
	Quantity          float64         `gorm:"type:decimal(18,4);not null" json:"quantity"`
	PricePerUnit      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_per_unit"`
	PriceTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price_total"`
	ReceivedDate      *time.Time      `gorm:"type:date" json:"received_date,omitempty"`
}

func (r *ReceivingItem) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
