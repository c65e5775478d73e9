package purchasing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	invapp "github.com/stockflow/backend/internal/application/inventory"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/purchasing"
	"github.com/stockflow/backend/internal/domain/shared"
)

// PurchaseOrderService implements the purchase order use cases: creation
// with number allocation, lifecycle transitions, payment updates and the
// goods receipt flow. Receipts run in one transaction that also posts stock
// and, on full receipt, updates the supplier account.
type PurchaseOrderService struct {
	scope          TransactionScope
	orderRepo      purchasing.PurchaseOrderRepository
	movementRepo   inventory.StockMovementRepository
	poster         *invapp.Poster
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a purchase order service. orderRepo and
// movementRepo serve reads outside transactions; every write goes through
// the scope.
func NewPurchaseOrderService(
	scope TransactionScope,
	orderRepo purchasing.PurchaseOrderRepository,
	movementRepo inventory.StockMovementRepository,
	poster *invapp.Poster,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		scope:          scope,
		orderRepo:      orderRepo,
		movementRepo:   movementRepo,
		poster:         poster,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
		logger:         logger,
	}
}

// SetEventPublisher sets the optional publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetIdempotencyStore sets the optional store for receipt request keys
func (s *PurchaseOrderService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// Create creates a purchase order in draft or pending status. The order
// number is allocated inside the insert transaction so concurrent creates
// never share a number; a rollback may leave a gap in the sequence.
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	status := purchasing.PurchaseOrderStatusDraft
	if req.Status != "" {
		status = purchasing.PurchaseOrderStatus(req.Status)
	}
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByID(ctx, req.SupplierID)
		if err != nil {
			return err
		}
		if !supplier.IsActive() {
			return shared.NewDomainError("INVALID_SUPPLIER", "Supplier "+supplier.Code+" is inactive")
		}

		number, err := repos.OrderRepo().NextOrderNumber(ctx, orderDate)
		if err != nil {
			return err
		}

		order, err = purchasing.NewPurchaseOrder(number, req.SupplierID, status, orderDate, req.CreatedBy)
		if err != nil {
			return err
		}

		if err := s.addItems(ctx, repos, order, req.Items); err != nil {
			return err
		}
		if status == purchasing.PurchaseOrderStatusPending && order.ItemCount() == 0 {
			return shared.NewDomainError("NO_ITEMS", "A pending order must have items")
		}

		if req.ShippingCost != nil {
			if err := order.SetShippingCost(*req.ShippingCost); err != nil {
				return err
			}
		}
		if req.ExpectedDeliveryDate != nil {
			if err := order.SetExpectedDeliveryDate(req.ExpectedDeliveryDate); err != nil {
				return err
			}
		}
		if req.PaymentTerms != "" {
			if err := order.SetPaymentTerms(purchasing.PaymentTerms(req.PaymentTerms)); err != nil {
				return err
			}
		}
		if req.PaymentMethod != "" {
			order.SetPaymentMethod(req.PaymentMethod)
		}
		if req.Notes != "" {
			if err := order.SetNotes(req.Notes); err != nil {
				return err
			}
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.PurchaseOrderNumber),
		zap.String("status", order.Status.String()),
	)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) addItems(ctx context.Context, repos TransactionalRepositories, order *purchasing.PurchaseOrder, inputs []CreatePurchaseOrderItemInput) error {
	for _, input := range inputs {
		product, err := repos.ProductRepo().FindByID(ctx, input.ProductID)
		if err != nil {
			return err
		}

		discount := decimal.Zero
		if input.Discount != nil {
			discount = *input.Discount
		}
		tax := decimal.Zero
		if input.Tax != nil {
			tax = *input.Tax
		}

		if _, err := order.AddItem(product.ID, product.Unit, input.Quantity, input.UnitPrice, discount, tax); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by its number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	var (
		orders []purchasing.PurchaseOrder
		err    error
	)
	switch {
	case filter.PendingReceipt:
		orders, err = s.orderRepo.FindPendingReceipt(ctx, domainFilter)
	case filter.SupplierID != nil:
		orders, err = s.orderRepo.FindBySupplier(ctx, *filter.SupplierID, domainFilter)
	case filter.Status != "":
		status := purchasing.PurchaseOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown status: "+filter.Status)
		}
		orders, err = s.orderRepo.FindByStatus(ctx, status, domainFilter)
	default:
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderListItemResponses(orders), total, nil
}

// GetStatusSummary returns order counts per lifecycle status
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context) (*StatusSummaryResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	summary := &StatusSummaryResponse{
		Draft:             counts[purchasing.PurchaseOrderStatusDraft],
		Pending:           counts[purchasing.PurchaseOrderStatusPending],
		Approved:          counts[purchasing.PurchaseOrderStatusApproved],
		Ordered:           counts[purchasing.PurchaseOrderStatusOrdered],
		PartiallyReceived: counts[purchasing.PurchaseOrderStatusPartiallyReceived],
		Received:          counts[purchasing.PurchaseOrderStatusReceived],
		Cancelled:         counts[purchasing.PurchaseOrderStatusCancelled],
	}
	for _, count := range counts {
		summary.Total += count
	}
	summary.PendingReceipt = summary.Approved + summary.Ordered + summary.PartiallyReceived

	return summary, nil
}

// Update updates a purchase order. Item changes require draft or pending
// status; metadata changes are allowed through approved.
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if req.Items != nil {
			if !order.ItemsEditable() {
				return shared.NewDomainError("FORBIDDEN", "Items are frozen in "+order.Status.String()+" status")
			}
			if err := order.ReplaceItems(nil); err != nil {
				return err
			}
			if err := s.addItems(ctx, repos, order, *req.Items); err != nil {
				return err
			}
			if order.Status != purchasing.PurchaseOrderStatusDraft && order.ItemCount() == 0 {
				return shared.NewDomainError("NO_ITEMS", "A pending order must have items")
			}
		}
		if req.ShippingCost != nil {
			if err := order.SetShippingCost(*req.ShippingCost); err != nil {
				return err
			}
		}
		if req.ExpectedDeliveryDate != nil {
			if err := order.SetExpectedDeliveryDate(req.ExpectedDeliveryDate); err != nil {
				return err
			}
		}
		if req.PaymentTerms != nil {
			if err := order.SetPaymentTerms(purchasing.PaymentTerms(*req.PaymentTerms)); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			if err := order.SetNotes(*req.Notes); err != nil {
				return err
			}
		}

		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes a purchase order. Only draft orders without stock
// movements can go; everything else is part of the audit trail.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if !order.IsDraft() {
			return shared.NewDomainError("FORBIDDEN", "Only draft orders can be deleted")
		}
		count, err := repos.MovementRepo().CountByReference(ctx, inventory.ReferenceTypePurchase, order.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("FORBIDDEN", "Order has stock movements and cannot be deleted")
		}

		return repos.OrderRepo().Delete(ctx, order.ID)
	})
}

// ChangeStatus applies a direct lifecycle transition. The receiving
// statuses are rejected here; they come only from Receive.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, req ChangeStatusRequest) (*PurchaseOrderResponse, error) {
	target := purchasing.PurchaseOrderStatus(req.Status)

	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.ChangeStatus(target, req.Actor); err != nil {
			return err
		}

		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.logger.Info("purchase order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()),
	)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdatePayment changes the payment status. For orders that have reached
// received, the supplier balance moves with the transition across the paid
// boundary; earlier orders have not been added to the balance yet, so no
// delta applies.
func (s *PurchaseOrderService) UpdatePayment(ctx context.Context, orderID uuid.UUID, req UpdatePaymentRequest) (*PurchaseOrderResponse, error) {
	target := purchasing.PaymentStatus(req.PaymentStatus)

	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		from, err := order.ChangePaymentStatus(target, req.PaymentMethod)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		if order.Status != purchasing.PurchaseOrderStatusReceived || from == target {
			return nil
		}

		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if err := supplier.ApplyPaymentTransition(from.CountsAsOutstanding(), target.CountsAsOutstanding(), order.GrandTotal); err != nil {
			return err
		}
		return repos.SupplierRepo().SaveWithLock(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive applies a goods receipt: per-line received quantities move, stock
// is posted per line, the order advances to partially_received or received,
// and on full receipt the supplier account is updated. Everything commits
// in one transaction. Lock order is fixed: the order row first, then
// product rows in ascending product ID, the supplier row last.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResultResponse, error) {
	if req.RequestKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		processed, err := s.idempotency.IsProcessed(ctx, req.RequestKey)
		if err != nil {
			return nil, err
		}
		if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Receipt request "+req.RequestKey+" was already processed")
		}
	}

	lines := make([]purchasing.ReceiptLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = purchasing.ReceiptLine{ItemID: item.ItemID, Quantity: item.Quantity}
	}

	var (
		order    *purchasing.PurchaseOrder
		received []purchasing.ReceivedLine
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		received, err = order.Receive(lines)
		if err != nil {
			return err
		}

		// ascending product ID keeps the product lock order deadlock-free
		sorted := make([]purchasing.ReceivedLine, len(received))
		copy(sorted, received)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].ProductID == sorted[j].ProductID {
				return sorted[i].ItemID.String() < sorted[j].ItemID.String()
			}
			return sorted[i].ProductID.String() < sorted[j].ProductID.String()
		})

		for _, line := range sorted {
			itemID := line.ItemID
			referenceID := order.ID
			if _, err := s.poster.Post(ctx, repos, invapp.PostMovementRequest{
				ProductID:     line.ProductID,
				Type:          inventory.MovementTypeIn,
				Reason:        inventory.MovementReasonPurchase,
				Quantity:      line.Quantity,
				ReferenceType: inventory.ReferenceTypePurchase,
				ReferenceID:   &referenceID,
				ItemID:        &itemID,
				PerformedBy:   req.Actor,
				Notes:         req.Notes,
			}); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		if order.Status != purchasing.PurchaseOrderStatusReceived {
			return nil
		}

		supplier, err := repos.SupplierRepo().FindByIDForUpdate(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if err := supplier.RecordPurchaseReceived(order.GrandTotal, order.OrderDate, order.PaymentStatus.CountsAsOutstanding()); err != nil {
			return err
		}
		return repos.SupplierRepo().SaveWithLock(ctx, supplier)
	})
	if err != nil {
		return nil, err
	}

	if req.RequestKey != "" && s.idempotency != nil && s.idempotencyCfg.Enabled {
		if _, err := s.idempotency.MarkProcessed(ctx, req.RequestKey, s.idempotencyCfg.TTL); err != nil {
			s.logger.Warn("failed to mark receipt request key", zap.String("key", req.RequestKey), zap.Error(err))
		}
	}

	s.publishEvents(ctx, order)
	s.logger.Info("goods received",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status.String()),
		zap.Int("lines", len(received)),
	)

	return &ReceiveResultResponse{
		Order:         ToPurchaseOrderResponse(order),
		ReceivedItems: ToReceivedLineResponses(received),
		FullyReceived: order.Status == purchasing.PurchaseOrderStatusReceived,
	}, nil
}

// GetMovements lists the stock movements posted for a purchase order
func (s *PurchaseOrderService) GetMovements(ctx context.Context, orderID uuid.UUID) ([]inventory.StockMovement, error) {
	return s.movementRepo.FindByReference(ctx, inventory.ReferenceTypePurchase, orderID)
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.publisher == nil || order == nil {
		return
	}

	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}
