package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var adminTestCfg = config.Config{JWTSecret: "test_secret"}

// 管理者トークンを発行
func adminToken(t *testing.T) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"userId":  int64(1),
		"email":   "admin@b.com",
		"role":    "ADMIN",
		"isAdmin": true,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(adminTestCfg.JWTSecret))
	assert.NoError(t, err)
	return tok
}

func newAdminProductEcho(pRepo *productRepoMock) *echo.Echo {
	e := echo.New()
	h := handler.NewAdminProductHandler(
		usecase.NewAdminProductUsecase(pRepo),
		usecase.NewProductUsecase(pRepo),
	)
	h.RegisterRoutes(e, adminTestCfg)
	return e
}

func TestAdminProductHandler_List_RequiresAuth(t *testing.T) {
	e := newAdminProductEcho(new(productRepoMock))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 管理画面の商品一覧が公開APIと同じ検索条件で引けること
func TestAdminProductHandler_List_Success(t *testing.T) {
	pRepo := new(productRepoMock)
	pRepo.On("List", mock.Anything, repo.ProductListQuery{Page: 1, Limit: 10, Search: "shirt"}).
		Return([]model.Product{{ID: 1, Name: "Shirt"}}, int64(1), nil)

	e := newAdminProductEcho(pRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products?search=shirt", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"Shirt"`)

	pRepo.AssertExpectations(t)
}

func TestAdminProductHandler_Get_Success(t *testing.T) {
	pRepo := new(productRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Shirt"}, nil)

	e := newAdminProductEcho(pRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products/5", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestAdminProductHandler_Get_NotFound(t *testing.T) {
	pRepo := new(productRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	e := newAdminProductEcho(pRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/products/99", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}
