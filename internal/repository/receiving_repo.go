package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceivingRepository interface {
	Create(ctx context.Context, record *model.ReceivingRecord) error
	CreateItem(ctx context.Context, item *model.ReceivingItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.ReceivingRecord, error)
	List(ctx context.Context, page, limit int) ([]model.ReceivingRecord, int64, error)
	FindAllWithItems(ctx context.Context) ([]model.ReceivingRecord, error)
}

type receivingRepository struct {
	db *gorm.DB
}

func NewReceivingRepository(db *gorm.DB) ReceivingRepository {
	return &receivingRepository{db: db}
}

func (r *receivingRepository) Create(ctx context.Context, record *model.ReceivingRecord) error {
	return GetDB(ctx, r.db).Create(record).Error
}

func (r *receivingRepository) CreateItem(ctx context.Context, item *model.ReceivingItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *receivingRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.ReceivingRecord, error) {
	var record model.ReceivingRecord
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Supplier").
		First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *receivingRepository) List(ctx context.Context, page, limit int) ([]model.ReceivingRecord, int64, error) {
	var records []model.ReceivingRecord
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ReceivingRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Supplier").
		Order("received_date DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// FindAllWithItems loads every posted record with items and supplier for
// the analytics pass.
func (r *receivingRepository) FindAllWithItems(ctx context.Context) ([]model.ReceivingRecord, error) {
	var records []model.ReceivingRecord
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Supplier").
		Where("status = ?", model.ReceivingStatusPosted).
		Order("received_date ASC, created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
