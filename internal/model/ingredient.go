package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ingredient represents a stocked kitchen item. Stock moves only through
// receiving postings, never by direct edits.
type Ingredient struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ItemCode     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"item_code"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	Unit         string          `gorm:"type:varchar(50)" json:"unit"` // kg, l, pcs, box...
	CurrentStock float64         `gorm:"type:decimal(18,4);default:0;not null" json:"current_stock"`
	LastPrice    decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"last_price"` // Unit price from the latest receiving
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
