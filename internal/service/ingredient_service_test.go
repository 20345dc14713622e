package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newIngredientService(t *testing.T) (IngredientService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	svc := NewIngredientService(
		repository.NewIngredientRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
	)
	return svc, db
}

func TestIngredientCRUD(t *testing.T) {
	svc, db := newIngredientService(t)
	ctx := context.Background()

	created, err := svc.CreateIngredient(ctx, "", CreateIngredientRequest{
		ItemCode: "ING-001",
		Name:     "Jasmine Rice",
		Unit:     "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "ING-001", created.ItemCode)
	assert.Zero(t, created.CurrentStock)

	var audit model.AuditLog
	require.NoError(t, db.Where("action = ?", model.ActionCreateIngredient).First(&audit).Error)
	assert.Equal(t, "Jasmine Rice", audit.EntityName)

	updated, err := svc.UpdateIngredient(ctx, "", created.ID, UpdateIngredientRequest{
		ItemCode: "ING-001",
		Name:     "Jasmine Rice Premium",
		Unit:     "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jasmine Rice Premium", updated.Name)

	require.NoError(t, svc.DeleteIngredient(ctx, "", created.ID))

	list, total, err := svc.ListIngredients(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, list)
}

func TestCreateIngredientDuplicateCode(t *testing.T) {
	svc, _ := newIngredientService(t)
	ctx := context.Background()

	_, err := svc.CreateIngredient(ctx, "", CreateIngredientRequest{ItemCode: "ING-002", Name: "Olive Oil", Unit: "l"})
	require.NoError(t, err)

	_, err = svc.CreateIngredient(ctx, "", CreateIngredientRequest{ItemCode: "ING-002", Name: "Sunflower Oil", Unit: "l"})
	assert.ErrorContains(t, err, "item code already exists")
}
