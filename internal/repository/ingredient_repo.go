package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *model.Ingredient) error
	Update(ctx context.Context, ingredient *model.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindByItemCode(ctx context.Context, code string) (*model.Ingredient, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Ingredient, int64, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	UpdateStockAndPrice(ctx context.Context, id uuid.UUID, stock float64, lastPrice decimal.Decimal) error
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	return GetDB(ctx, r.db).Create(ingredient).Error
}

func (r *ingredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	return GetDB(ctx, r.db).Save(ingredient).Error
}

func (r *ingredientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Ingredient{}).Error
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := GetDB(ctx, r.db).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByItemCode(ctx context.Context, code string) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := GetDB(ctx, r.db).Where("item_code = ?", code).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) List(ctx context.Context, page, limit int, search string) ([]model.Ingredient, int64, error) {
	var ingredients []model.Ingredient
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Ingredient{})
	if search != "" {
		db = db.Where("name ILIKE ? OR item_code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&ingredients).Error; err != nil {
		return nil, 0, err
	}

	return ingredients, total, nil
}

func (r *ingredientRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) UpdateStockAndPrice(ctx context.Context, id uuid.UUID, stock float64, lastPrice decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Ingredient{}).Where("id = ?", id).
		Updates(map[string]interface{}{"current_stock": stock, "last_price": lastPrice}).Error
}
