package order

import (
	"context"
	"errors"

	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/order"
	"github.com/VindFlainger/maplapi/internal/domain/shared"
	"github.com/VindFlainger/maplapi/internal/domain/shipping"
	"github.com/google/uuid"
)

// Service implements the order protocol: atomic creation with conditional
// stock reservation, and status transitions that settle the reservation.
type Service struct {
	scope     TransactionScope
	orders    order.Repository
	skuViews  catalog.SkuViewRepository
	locations shipping.Repository
}

// NewService creates a new order Service
func NewService(scope TransactionScope, orders order.Repository, skuViews catalog.SkuViewRepository, locations shipping.Repository) *Service {
	return &Service{
		scope:     scope,
		orders:    orders,
		skuViews:  skuViews,
		locations: locations,
	}
}

// Create places an order. Each requested line is first snapshotted against
// the live catalog (an advisory check that produces the stored price), then
// every reservation and the order insert run in one transaction. The
// conditional reserve is the real availability guarantee: if any line lost
// the race since the snapshot, the whole transaction rolls back and no
// stock or order state leaks.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Response, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrFieldRequired
	}
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, shared.ErrInvalidValue
		}
		key := item.SkuID.String() + "/" + item.Size
		if _, dup := seen[key]; dup {
			return nil, shared.ErrInvalidValue
		}
		seen[key] = struct{}{}
	}

	location, err := s.locations.FindByCode(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(req.Items))
	for _, item := range req.Items {
		snap, err := s.skuViews.Snapshot(ctx, item.SkuID, item.Size, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, order.Line{
			SkuID:    snap.SkuID,
			Size:     snap.Size,
			Quantity: snap.Quantity,
			Price:    snap.Price,
			Bonuses:  snap.Bonuses,
		})
	}

	o, err := order.New(req.OwnerID, lines,
		order.Shipping{
			Price:    location.Price,
			Location: location.Code,
			City:     req.City,
			Street:   req.Street,
			House:    req.House,
			Postcode: req.Postcode,
		},
		order.Contact{Name: req.Name, Surname: req.Surname},
		order.Payment{CardRef: req.CardRef},
	)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range o.Lines {
			res, err := repos.Stock().Reserve(ctx, line.SkuID, line.Size, line.Quantity)
			if err != nil {
				return err
			}
			if res.NotFound() {
				return shared.ErrSkuSizeNotExists
			}
			if res.PredicateFailed() {
				return shared.ErrSkuNotAvailable
			}
		}
		return repos.Orders().Create(ctx, o)
	})
	if err != nil {
		return nil, asProtocolError(err)
	}

	resp := ToResponse(o, true)
	return &resp, nil
}

// GetBySecret resolves a guest order by its capability token, secret
// included so the caller can keep it
func (s *Service) GetBySecret(ctx context.Context, secret string) (*Response, error) {
	o, err := s.orders.FindBySecret(ctx, secret)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(o, true)
	return &resp, nil
}

// GetOwned returns one order belonging to the given customer
func (s *Service) GetOwned(ctx context.Context, ownerID, orderID uuid.UUID) (*Response, error) {
	o, err := s.findOwned(ctx, ownerID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(o, false)
	return &resp, nil
}

// ListByOwner returns a page of the customer's orders, newest first
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, page shared.Page) (shared.Paginated[Response], error) {
	result, err := s.orders.FindByOwner(ctx, ownerID, page)
	if err != nil {
		return shared.Paginated[Response]{}, err
	}
	items := make([]Response, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, ToResponse(&result.Items[i], false))
	}
	return shared.Paginated[Response]{
		Items:      items,
		TotalCount: result.TotalCount,
		Offset:     result.Offset,
		Limit:      result.Limit,
		NextOffset: result.NextOffset,
	}, nil
}

// CancelBySecret cancels a guest order identified by its secret
func (s *Service) CancelBySecret(ctx context.Context, secret string) error {
	o, err := s.orders.FindBySecret(ctx, secret)
	if err != nil {
		return err
	}
	return s.transition(ctx, o, order.StatusCancelled)
}

// CancelOwned cancels an order on behalf of its owner
func (s *Service) CancelOwned(ctx context.Context, ownerID, orderID uuid.UUID) error {
	o, err := s.findOwned(ctx, ownerID, orderID)
	if err != nil {
		return err
	}
	return s.transition(ctx, o, order.StatusCancelled)
}

// ChangeStatus applies a fulfilment-side terminal transition. Rejection
// releases the reserved stock like cancellation does; resolution consumes
// it, removing the goods from the ledger for good.
func (s *Service) ChangeStatus(ctx context.Context, orderID uuid.UUID, target order.Status) error {
	if !target.IsValid() || target == order.StatusActive {
		return shared.ErrInvalidValue
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	return s.transition(ctx, o, target)
}

// AdvanceShipping moves the fulfilment sub-state one step forward
func (s *Service) AdvanceShipping(ctx context.Context, orderID uuid.UUID, target order.ShippingStatus) error {
	if _, ok := target.Prev(); !ok {
		return shared.ErrInvalidValue
	}
	res, err := s.orders.AdvanceShipping(ctx, orderID, target)
	if err != nil {
		return err
	}
	if res.NotFound() {
		return shared.ErrOrderNotExists
	}
	if res.PredicateFailed() {
		return shared.ErrOrderAlreadyInStatus
	}
	return nil
}

func (s *Service) findOwned(ctx context.Context, ownerID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.OwnerID == nil || *o.OwnerID != ownerID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

// transition applies the one-way status change and settles the stock
// reservation of every line in the same transaction. The conditional
// update on the status row is what makes concurrent transitions safe:
// only one of them observes active and therefore only one settles stock.
func (s *Service) transition(ctx context.Context, o *order.Order, target order.Status) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		res, err := repos.Orders().UpdateStatus(ctx, o.ID, target)
		if err != nil {
			return err
		}
		if res.NotFound() {
			return shared.ErrOrderNotExists
		}
		if res.PredicateFailed() {
			if target == order.StatusCancelled {
				return shared.ErrOrderAlreadyCancelled
			}
			return shared.ErrOrderAlreadyInStatus
		}

		for _, line := range o.Lines {
			var res shared.CondResult
			var err error
			if target == order.StatusResolved {
				res, err = repos.Stock().Consume(ctx, line.SkuID, line.Size, line.Quantity)
			} else {
				res, err = repos.Stock().Release(ctx, line.SkuID, line.Size, line.Quantity)
			}
			if err != nil {
				return err
			}
			// a reservation that cannot be settled means the ledger and
			// the order lines disagree; roll everything back
			if res.NotFound() || res.PredicateFailed() {
				return shared.ErrInternal
			}
		}
		return nil
	})
	return asProtocolError(err)
}

// asProtocolError keeps domain errors intact and folds everything else
// (driver failures, serialization aborts) into the retryable transaction
// failure the public contract promises
func asProtocolError(err error) error {
	if err == nil {
		return nil
	}
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return err
	}
	return shared.ErrTransactionFailed
}
