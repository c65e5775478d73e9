package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockflow/backend/internal/domain/purchasing"
	"github.com/stockflow/backend/internal/domain/shared"
)

// purchaseOrderSequence backs the order number allocator. One row per
// month bucket, bumped atomically with the insert that consumes it.
type purchaseOrderSequence struct {
	Bucket    string `gorm:"type:varchar(6);primary_key"`
	NextValue int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (purchaseOrderSequence) TableName() string {
	return "purchase_order_sequences"
}

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate finds a purchase order by ID with a row lock on the
// order row. Receipt and payment flows take this lock first, before any
// product or supplier row.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by its order number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "purchase_order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return r.findWhere(ctx, filter, nil)
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return r.findWhere(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("supplier_id = ?", supplierID)
	})
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return r.findWhere(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("status = ?", status)
	})
}

// FindPendingReceipt finds orders still open for receiving
func (r *GormPurchaseOrderRepository) FindPendingReceipt(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return r.findWhere(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("status IN ?", []purchasing.PurchaseOrderStatus{
			purchasing.PurchaseOrderStatusApproved,
			purchasing.PurchaseOrderStatusOrdered,
			purchasing.PurchaseOrderStatusPartiallyReceived,
		})
	})
}

func (r *GormPurchaseOrderRepository) findWhere(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) ([]purchasing.PurchaseOrder, error) {
	var orders []purchasing.PurchaseOrder
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{})
	if scope != nil {
		query = scope(query)
	}
	query = r.applyFilter(query, filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates a purchase order with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		return r.saveItems(tx, order)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := order.Version
		order.Version++

		result := tx.Model(&purchasing.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_id":            order.SupplierID,
				"subtotal":               order.Subtotal,
				"total_discount":         order.TotalDiscount,
				"total_tax":              order.TotalTax,
				"shipping_cost":          order.ShippingCost,
				"grand_total":            order.GrandTotal,
				"status":                 order.Status,
				"payment_status":         order.PaymentStatus,
				"payment_method":         order.PaymentMethod,
				"payment_terms":          order.PaymentTerms,
				"order_date":             order.OrderDate,
				"expected_delivery_date": order.ExpectedDeliveryDate,
				"approved_at":            order.ApprovedAt,
				"actual_delivery_date":   order.ActualDeliveryDate,
				"cancelled_at":           order.CancelledAt,
				"approved_by":            order.ApprovedBy,
				"notes":                  order.Notes,
				"version":                order.Version,
				"updated_at":             order.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "The order has been modified by another user")
		}

		return r.saveItems(tx, order)
	})
}

// saveItems reconciles the item rows with the aggregate's item list
func (r *GormPurchaseOrderRepository) saveItems(tx *gorm.DB, order *purchasing.PurchaseOrder) error {
	currentItemIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
			Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a purchase order with its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&purchasing.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts purchase orders with optional filters
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts purchase orders per status
func (r *GormPurchaseOrderRepository) CountByStatus(ctx context.Context) (map[purchasing.PurchaseOrderStatus]int64, error) {
	var rows []struct {
		Status purchasing.PurchaseOrderStatus
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[purchasing.PurchaseOrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// ExistsByOrderNumber checks if an order number exists
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("purchase_order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextOrderNumber allocates the next order number for the month bucket of
// the given date. Format: PO-YYYYMM-NNNNN. The sequence row is bumped with
// an upsert so concurrent transactions never see the same value; numbers
// consumed by rolled-back transactions leave gaps, which is acceptable.
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, date time.Time) (string, error) {
	bucket := date.Format("200601")

	var nextValue int64
	if err := r.db.WithContext(ctx).Raw(
		`INSERT INTO purchase_order_sequences (bucket, next_value)
		 VALUES (?, 1)
		 ON CONFLICT (bucket)
		 DO UPDATE SET next_value = purchase_order_sequences.next_value + 1
		 RETURNING next_value`,
		bucket,
	).Scan(&nextValue).Error; err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}

	return fmt.Sprintf("PO-%s-%05d", bucket, nextValue), nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("purchase_order_number ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
