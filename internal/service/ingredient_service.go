package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateIngredientRequest struct {
	ItemCode string `json:"item_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit"`
}

type UpdateIngredientRequest struct {
	ItemCode string `json:"item_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit"`
}

type IngredientResponse struct {
	ID           string  `json:"id"`
	ItemCode     string  `json:"item_code"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CurrentStock float64 `json:"current_stock"`
	LastPrice    string  `json:"last_price"`
}

type IngredientService interface {
	ListIngredients(ctx context.Context, page, limit int, search string) ([]IngredientResponse, int64, error)
	CreateIngredient(ctx context.Context, userID string, req CreateIngredientRequest) (IngredientResponse, error)
	UpdateIngredient(ctx context.Context, userID string, id string, req UpdateIngredientRequest) (IngredientResponse, error)
	DeleteIngredient(ctx context.Context, userID string, id string) error
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewIngredientService(
	ingredientRepo repository.IngredientRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) IngredientService {
	return &ingredientService{
		ingredientRepo: ingredientRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

func mapIngredient(i *model.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:           i.ID.String(),
		ItemCode:     i.ItemCode,
		Name:         i.Name,
		Unit:         i.Unit,
		CurrentStock: i.CurrentStock,
		LastPrice:    i.LastPrice.String(),
	}
}

func (s *ingredientService) ListIngredients(ctx context.Context, page, limit int, search string) ([]IngredientResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	ingredients, total, err := s.ingredientRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		res = append(res, mapIngredient(&ingredients[i]))
	}

	return res, total, nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, userID string, req CreateIngredientRequest) (IngredientResponse, error) {
	if _, err := s.ingredientRepo.FindByItemCode(ctx, req.ItemCode); err == nil {
		return IngredientResponse{}, errors.New("item code already exists")
	}

	ingredient := model.Ingredient{
		ItemCode: req.ItemCode,
		Name:     req.Name,
		Unit:     req.Unit,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ingredientRepo.Create(txCtx, &ingredient); err != nil {
			return fmt.Errorf("failed to create ingredient: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateIngredient,
			EntityID:   ingredient.ID.String(),
			EntityName: ingredient.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})

	if err != nil {
		return IngredientResponse{}, err
	}

	return mapIngredient(&ingredient), nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, userID string, id string, req UpdateIngredientRequest) (IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return IngredientResponse{}, fmt.Errorf("invalid ingredient id: %w", err)
	}

	ingredient, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return IngredientResponse{}, errors.New("ingredient not found")
		}
		return IngredientResponse{}, fmt.Errorf("database error: %w", err)
	}

	ingredient.ItemCode = req.ItemCode
	ingredient.Name = req.Name
	ingredient.Unit = req.Unit

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ingredientRepo.Update(txCtx, ingredient); err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}

		details, _ := json.Marshal(req)
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateIngredient,
			EntityID:   ingredient.ID.String(),
			EntityName: ingredient.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})

	if err != nil {
		return IngredientResponse{}, err
	}

	return mapIngredient(ingredient), nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, userID string, id string) error {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid ingredient id: %w", err)
	}

	ingredient, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("ingredient not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ingredientRepo.Delete(txCtx, ingredientID); err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteIngredient,
			EntityID:   ingredient.ID.String(),
			EntityName: ingredient.Name,
			Details:    `{"deleted": true}`,
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}
