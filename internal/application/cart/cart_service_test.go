package cart

import (
	"context"
	"testing"

	"github.com/VindFlainger/maplapi/internal/domain/cart"
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

var testSkuID = uuid.New()

func testView(available int) *catalog.SkuView {
	return &catalog.SkuView{
		SkuID:     testSkuID,
		ProductID: uuid.New(),
		Name:      "Linen Shirt",
		Label:     "shirt",
		Color:     "white",
		Pricing:   catalog.Pricing{Price: decimal.RequireFromString("50.00")},
		Sizing: []catalog.SizeAvailability{
			{Size: "M", Quantity: available},
			{Size: "L", Quantity: 0},
		},
	}
}

func cartWith(lines ...cart.Line) *cart.Cart {
	c := cart.New()
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].CartID = c.ID
	}
	c.Lines = append(c.Lines, lines...)
	return c
}

func TestCartService_Create(t *testing.T) {
	carts := new(MockCartRepository)
	service := NewService(carts, new(MockSkuViewRepository))
	carts.On("Create", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	token, err := service.Create(context.Background())

	require.NoError(t, err)
	assert.Len(t, token, shared.TokenBytes*2)
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a valid line", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith()
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)
		carts.On("UpsertLine", ctx, mock.AnythingOfType("*cart.Line")).Return(nil)

		err := service.AddItem(ctx, c.Token, testSkuID, "M", 3)

		require.NoError(t, err)
		carts.AssertExpectations(t)
	})

	t.Run("quantity above availability is accepted", func(t *testing.T) {
		// carts are advisory; the read path clamps and order creation
		// is the authoritative check
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith()
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(1), nil)
		carts.On("UpsertLine", ctx, mock.AnythingOfType("*cart.Line")).Return(nil)

		assert.NoError(t, service.AddItem(ctx, c.Token, testSkuID, "M", 100))
	})

	t.Run("unknown cart token", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))
		carts.On("FindByToken", ctx, "ghost").Return(nil, shared.ErrCartNotExists)

		err := service.AddItem(ctx, "ghost", testSkuID, "M", 1)

		assert.ErrorIs(t, err, shared.ErrCartNotExists)
	})

	t.Run("unknown sku", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith()
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(nil, shared.ErrSkuNotExists)

		err := service.AddItem(ctx, c.Token, testSkuID, "M", 1)

		assert.ErrorIs(t, err, shared.ErrSkuNotExists)
	})

	t.Run("unknown size", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith()
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)

		err := service.AddItem(ctx, c.Token, testSkuID, "XXL", 1)

		assert.ErrorIs(t, err, shared.ErrSkuSizeNotExists)
		carts.AssertNotCalled(t, "UpsertLine", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive quantity without store access", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))

		err := service.AddItem(ctx, "any", testSkuID, "M", 0)

		assert.ErrorIs(t, err, shared.ErrInvalidValue)
		carts.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an existing line", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))

		c := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 1})
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		carts.On("DeleteLine", ctx, c.ID, testSkuID, "M").Return(int64(1), nil)

		assert.NoError(t, service.RemoveItem(ctx, c.Token, testSkuID, "M"))
	})

	t.Run("missing line", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))

		c := cartWith()
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		carts.On("DeleteLine", ctx, c.ID, testSkuID, "M").Return(int64(0), nil)

		err := service.RemoveItem(ctx, c.Token, testSkuID, "M")

		assert.ErrorIs(t, err, shared.ErrCartItemNotExists)
	})
}

func TestCartService_GetItems(t *testing.T) {
	ctx := context.Background()

	t.Run("returns joined items without healing when all lines are live", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 2})
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)

		items, err := service.GetItems(ctx, c.Token)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 5, items[0].Available)
		assert.Equal(t, "Linen Shirt", items[0].Name)
		carts.AssertNotCalled(t, "ReplaceLines", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("clamps quantity to availability and writes back", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 10})
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(3), nil)
		carts.On("ReplaceLines", ctx, c.ID, mock.AnythingOfType("[]cart.Line")).Return(nil)

		items, err := service.GetItems(ctx, c.Token)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		carts.AssertCalled(t, "ReplaceLines", ctx, c.ID, mock.MatchedBy(func(lines []cart.Line) bool {
			return len(lines) == 1 && lines[0].Quantity == 3
		}))
	})

	t.Run("drops lines whose sku vanished", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		deadSku := uuid.New()
		c := cartWith(
			cart.Line{SkuID: testSkuID, Size: "M", Quantity: 1},
			cart.Line{SkuID: deadSku, Size: "M", Quantity: 1},
		)
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)
		skuViews.On("FindByID", ctx, deadSku).Return(nil, shared.ErrSkuNotExists)
		carts.On("ReplaceLines", ctx, c.ID, mock.MatchedBy(func(lines []cart.Line) bool {
			return len(lines) == 1 && lines[0].SkuID == testSkuID
		})).Return(nil)

		items, err := service.GetItems(ctx, c.Token)

		require.NoError(t, err)
		assert.Len(t, items, 1)
		carts.AssertExpectations(t)
	})

	t.Run("drops lines with zero availability", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		c := cartWith(cart.Line{SkuID: testSkuID, Size: "L", Quantity: 2})
		carts.On("FindByToken", ctx, c.Token).Return(c, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)
		carts.On("ReplaceLines", ctx, c.ID, mock.MatchedBy(func(lines []cart.Line) bool {
			return len(lines) == 0
		})).Return(nil)

		items, err := service.GetItems(ctx, c.Token)

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unknown cart token", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))
		carts.On("FindByToken", ctx, "ghost").Return(nil, shared.ErrCartNotExists)

		_, err := service.GetItems(ctx, "ghost")

		assert.ErrorIs(t, err, shared.ErrCartNotExists)
	})
}

func TestCartService_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("source quantity wins on collision", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		target := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 1})
		source := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 4})
		carts.On("FindByToken", ctx, target.Token).Return(target, nil)
		carts.On("FindByToken", ctx, source.Token).Return(source, nil)
		carts.On("UpsertLine", ctx, mock.MatchedBy(func(line *cart.Line) bool {
			return line.CartID == target.ID && line.Quantity == 4
		})).Return(nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)

		items, err := service.Merge(ctx, target.Token, source.Token)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Quantity)
		carts.AssertExpectations(t)
	})

	t.Run("disjoint lines are added to the target", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		target := cartWith()
		source := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 2})
		carts.On("FindByToken", ctx, target.Token).Return(target, nil)
		carts.On("FindByToken", ctx, source.Token).Return(source, nil)
		carts.On("UpsertLine", ctx, mock.MatchedBy(func(line *cart.Line) bool {
			return line.CartID == target.ID && line.SkuID == testSkuID
		})).Return(nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)

		items, err := service.Merge(ctx, target.Token, source.Token)

		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("identical lines skip the write", func(t *testing.T) {
		carts := new(MockCartRepository)
		skuViews := new(MockSkuViewRepository)
		service := NewService(carts, skuViews)

		target := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 2})
		source := cartWith(cart.Line{SkuID: testSkuID, Size: "M", Quantity: 2})
		carts.On("FindByToken", ctx, target.Token).Return(target, nil)
		carts.On("FindByToken", ctx, source.Token).Return(source, nil)
		skuViews.On("FindByID", ctx, testSkuID).Return(testView(5), nil)

		_, err := service.Merge(ctx, target.Token, source.Token)

		require.NoError(t, err)
		carts.AssertNotCalled(t, "UpsertLine", mock.Anything, mock.Anything)
	})

	t.Run("unknown source cart", func(t *testing.T) {
		carts := new(MockCartRepository)
		service := NewService(carts, new(MockSkuViewRepository))

		target := cartWith()
		carts.On("FindByToken", ctx, target.Token).Return(target, nil)
		carts.On("FindByToken", ctx, "ghost").Return(nil, shared.ErrCartNotExists)

		_, err := service.Merge(ctx, target.Token, "ghost")

		assert.ErrorIs(t, err, shared.ErrCartNotExists)
	})
}
