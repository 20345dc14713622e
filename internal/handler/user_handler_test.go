package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUserRouter(t *testing.T) (*gin.Engine, service.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	svc := service.NewUserService(repository.NewUserRepository(db))
	router := gin.New()
	NewUserHandler(svc).RegisterRoutes(router.Group(""))
	return router, svc
}

func adminToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDeleteUserBlocksOwnAccount(t *testing.T) {
	router, svc := newUserRouter(t)
	ctx := t.Context()

	admin, err := svc.CreateUser(ctx, service.CreateUserRequest{
		Username: "boss.erin",
		Email:    "erin@kitchen.local",
		Phone:    "0900000010",
		Password: "secret123",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	other, err := svc.CreateUser(ctx, service.CreateUserRequest{
		Username: "chef.finn",
		Email:    "finn@kitchen.local",
		Phone:    "0900000011",
		Password: "secret123",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	token := adminToken(t, admin.ID.String())

	rec := doRequest(router, http.MethodDelete, "/users/"+admin.ID.String(), token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot delete your own account")

	rec = doRequest(router, http.MethodDelete, "/users/"+other.ID.String(), token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	_, err = svc.GetUserByID(ctx, other.ID.String())
	assert.Error(t, err)
}

func TestTempAdminDisabledInRelease(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "test-release-secret")

	router, _ := newUserRouter(t)

	body := `{"username":"boss.gail","email":"gail@kitchen.local","phone":"0900000012","password":"secret123","role":"staff"}`
	rec := doRequest(router, http.MethodPost, "/temp-admin", "", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
