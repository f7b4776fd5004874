package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	cartapp "github.com/VindFlainger/maplapi/internal/application/cart"
	"github.com/VindFlainger/maplapi/internal/domain/cart"
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) FindByToken(ctx context.Context, token string) (*cart.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) UpsertLine(ctx context.Context, line *cart.Line) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteLine(ctx context.Context, cartID, skuID uuid.UUID, size string) (int64, error) {
	args := m.Called(ctx, cartID, skuID, size)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ReplaceLines(ctx context.Context, cartID uuid.UUID, lines []cart.Line) error {
	args := m.Called(ctx, cartID, lines)
	return args.Error(0)
}

// MockSkuViewRepository is a mock implementation of catalog.SkuViewRepository
type MockSkuViewRepository struct {
	mock.Mock
}

func (m *MockSkuViewRepository) FindByID(ctx context.Context, skuID uuid.UUID) (*catalog.SkuView, error) {
	args := m.Called(ctx, skuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SkuView), args.Error(1)
}

func (m *MockSkuViewRepository) List(ctx context.Context, filter catalog.SkuFilter, page shared.Page) (shared.Paginated[catalog.SkuView], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(shared.Paginated[catalog.SkuView]), args.Error(1)
}

func (m *MockSkuViewRepository) Facets(ctx context.Context, filter catalog.SkuFilter) (*catalog.Facets, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Facets), args.Error(1)
}

func (m *MockSkuViewRepository) Availability(ctx context.Context, skuID uuid.UUID) ([]catalog.SizeAvailability, error) {
	args := m.Called(ctx, skuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SizeAvailability), args.Error(1)
}

func (m *MockSkuViewRepository) Snapshot(ctx context.Context, skuID uuid.UUID, size string, quantity int) (*catalog.LineSnapshot, error) {
	args := m.Called(ctx, skuID, size, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.LineSnapshot), args.Error(1)
}

func setupCartTestRouter() (*gin.Engine, *MockCartRepository, *MockSkuViewRepository, *CartHandler) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	carts := new(MockCartRepository)
	skuViews := new(MockSkuViewRepository)
	service := cartapp.NewService(carts, skuViews)
	handler := NewCartHandler(service, NewAssetResolver(""))

	return router, carts, skuViews, handler
}

func testCartView(skuID uuid.UUID, available int) *catalog.SkuView {
	return &catalog.SkuView{
		SkuID:     skuID,
		ProductID: uuid.New(),
		Name:      "Linen Shirt",
		Label:     "shirt",
		Color:     "white",
		Pricing:   catalog.Pricing{Price: decimal.RequireFromString("50.00")},
		Sizing: []catalog.SizeAvailability{
			{Size: "M", Quantity: available},
		},
	}
}

func TestCartHandler_InitCart(t *testing.T) {
	t.Run("should create cart and return token", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/initCart", handler.InitCart)

		carts.On("Create", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

		req, _ := http.NewRequest(http.MethodPost, "/initCart", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.True(t, response["success"].(bool))
		data := response["data"].(map[string]interface{})
		assert.NotEmpty(t, data["cartId"])

		carts.AssertExpectations(t)
	})

	t.Run("should return 503 when the write fails", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/initCart", handler.InitCart)

		carts.On("Create", mock.Anything, mock.Anything).Return(shared.ErrTransactionFailed)

		req, _ := http.NewRequest(http.MethodPost, "/initCart", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.False(t, response["success"].(bool))
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, float64(shared.ErrTransactionFailed.Code), errInfo["code"])
	})
}

func TestCartHandler_AddCartItem(t *testing.T) {
	t.Run("should add item to cart", func(t *testing.T) {
		router, carts, skuViews, handler := setupCartTestRouter()
		router.POST("/addCartItem", handler.AddCartItem)

		c := cart.New()
		skuID := uuid.New()
		carts.On("FindByToken", mock.Anything, c.Token).Return(c, nil)
		skuViews.On("FindByID", mock.Anything, skuID).Return(testCartView(skuID, 5), nil)
		carts.On("UpsertLine", mock.Anything, mock.MatchedBy(func(line *cart.Line) bool {
			return line.SkuID == skuID && line.Size == "M" && line.Quantity == 2
		})).Return(nil)

		body, _ := json.Marshal(AddCartItemRequest{
			CartID:   c.Token,
			SkuID:    skuID,
			Size:     "M",
			Quantity: 2,
		})
		req, _ := http.NewRequest(http.MethodPost, "/addCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		carts.AssertExpectations(t)
		skuViews.AssertExpectations(t)
	})

	t.Run("should return 404 for unknown cart token", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/addCartItem", handler.AddCartItem)

		carts.On("FindByToken", mock.Anything, "missing-token").Return(nil, shared.ErrCartNotExists)

		body, _ := json.Marshal(AddCartItemRequest{
			CartID:   "missing-token",
			SkuID:    uuid.New(),
			Size:     "M",
			Quantity: 1,
		})
		req, _ := http.NewRequest(http.MethodPost, "/addCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, float64(shared.ErrCartNotExists.Code), errInfo["code"])
	})

	t.Run("should return 422 for a size the SKU does not carry", func(t *testing.T) {
		router, carts, skuViews, handler := setupCartTestRouter()
		router.POST("/addCartItem", handler.AddCartItem)

		c := cart.New()
		skuID := uuid.New()
		carts.On("FindByToken", mock.Anything, c.Token).Return(c, nil)
		skuViews.On("FindByID", mock.Anything, skuID).Return(testCartView(skuID, 5), nil)

		body, _ := json.Marshal(AddCartItemRequest{
			CartID:   c.Token,
			SkuID:    skuID,
			Size:     "XXL",
			Quantity: 1,
		})
		req, _ := http.NewRequest(http.MethodPost, "/addCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("should return 400 for non-positive quantity", func(t *testing.T) {
		router, _, _, handler := setupCartTestRouter()
		router.POST("/addCartItem", handler.AddCartItem)

		reqBody := map[string]interface{}{
			"cartId":   "some-token",
			"skuId":    uuid.New().String(),
			"size":     "M",
			"quantity": 0,
		}
		body, _ := json.Marshal(reqBody)
		req, _ := http.NewRequest(http.MethodPost, "/addCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandler_DelCartItem(t *testing.T) {
	t.Run("should remove item", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/delCartItem", handler.DelCartItem)

		c := cart.New()
		skuID := uuid.New()
		carts.On("FindByToken", mock.Anything, c.Token).Return(c, nil)
		carts.On("DeleteLine", mock.Anything, c.ID, skuID, "M").Return(int64(1), nil)

		body, _ := json.Marshal(DelCartItemRequest{CartID: c.Token, SkuID: skuID, Size: "M"})
		req, _ := http.NewRequest(http.MethodPost, "/delCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		carts.AssertExpectations(t)
	})

	t.Run("should return 422 when the line is absent", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/delCartItem", handler.DelCartItem)

		c := cart.New()
		skuID := uuid.New()
		carts.On("FindByToken", mock.Anything, c.Token).Return(c, nil)
		carts.On("DeleteLine", mock.Anything, c.ID, skuID, "M").Return(int64(0), nil)

		body, _ := json.Marshal(DelCartItemRequest{CartID: c.Token, SkuID: skuID, Size: "M"})
		req, _ := http.NewRequest(http.MethodPost, "/delCartItem", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		errInfo := response["error"].(map[string]interface{})
		assert.Equal(t, float64(shared.ErrCartItemNotExists.Code), errInfo["code"])
	})
}

func TestCartHandler_GetCartItems(t *testing.T) {
	t.Run("should return enriched items", func(t *testing.T) {
		router, carts, skuViews, handler := setupCartTestRouter()
		router.GET("/getCartItems", handler.GetCartItems)

		c := cart.New()
		skuID := uuid.New()
		c.Lines = []cart.Line{{ID: uuid.New(), CartID: c.ID, SkuID: skuID, Size: "M", Quantity: 2}}

		carts.On("FindByToken", mock.Anything, c.Token).Return(c, nil)
		skuViews.On("FindByID", mock.Anything, skuID).Return(testCartView(skuID, 5), nil)

		req, _ := http.NewRequest(http.MethodGet, "/getCartItems?cartId="+c.Token, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		items := data["items"].([]interface{})
		assert.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "Linen Shirt", item["name"])
		assert.Equal(t, float64(2), item["quantity"])
		assert.Equal(t, float64(5), item["available"])
	})

	t.Run("should return 400 without a cart token", func(t *testing.T) {
		router, _, _, handler := setupCartTestRouter()
		router.GET("/getCartItems", handler.GetCartItems)

		req, _ := http.NewRequest(http.MethodGet, "/getCartItems", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartHandler_MergeCarts(t *testing.T) {
	t.Run("should merge source into target", func(t *testing.T) {
		router, carts, skuViews, handler := setupCartTestRouter()
		router.POST("/mergeCarts", handler.MergeCarts)

		skuID := uuid.New()
		target := cart.New()
		source := cart.New()
		source.Lines = []cart.Line{{ID: uuid.New(), CartID: source.ID, SkuID: skuID, Size: "M", Quantity: 3}}

		carts.On("FindByToken", mock.Anything, target.Token).Return(target, nil)
		carts.On("FindByToken", mock.Anything, source.Token).Return(source, nil)
		carts.On("UpsertLine", mock.Anything, mock.MatchedBy(func(line *cart.Line) bool {
			return line.CartID == target.ID && line.SkuID == skuID && line.Quantity == 3
		})).Return(nil)
		skuViews.On("FindByID", mock.Anything, skuID).Return(testCartView(skuID, 5), nil)

		body, _ := json.Marshal(MergeCartsRequest{TargetCartID: target.Token, SourceCartID: source.Token})
		req, _ := http.NewRequest(http.MethodPost, "/mergeCarts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		data := response["data"].(map[string]interface{})
		assert.Len(t, data["items"].([]interface{}), 1)

		carts.AssertExpectations(t)
	})

	t.Run("should return 404 for unknown source cart", func(t *testing.T) {
		router, carts, _, handler := setupCartTestRouter()
		router.POST("/mergeCarts", handler.MergeCarts)

		target := cart.New()
		carts.On("FindByToken", mock.Anything, target.Token).Return(target, nil)
		carts.On("FindByToken", mock.Anything, "gone").Return(nil, shared.ErrCartNotExists)

		body, _ := json.Marshal(MergeCartsRequest{TargetCartID: target.Token, SourceCartID: "gone"})
		req, _ := http.NewRequest(http.MethodPost, "/mergeCarts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
