package purchasing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/partner"
	"github.com/stockflow/backend/internal/domain/purchasing"
	"github.com/stockflow/backend/internal/domain/shared"
)

// In-memory repositories backing the service tests. The receipt flow is a
// stateful read-modify-write across several repositories, so stateful fakes
// exercise it more honestly than expectation mocks.

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*purchasing.PurchaseOrder
	seq    map[string]int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[uuid.UUID]*purchasing.PurchaseOrder),
		seq:    make(map[string]int),
	}
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.PurchaseOrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orders := make([]purchasing.PurchaseOrder, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *memOrderRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []purchasing.PurchaseOrder
	for _, order := range r.orders {
		if order.SupplierID == supplierID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *memOrderRepo) FindByStatus(ctx context.Context, status purchasing.PurchaseOrderStatus, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []purchasing.PurchaseOrder
	for _, order := range r.orders {
		if order.Status == status {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *memOrderRepo) FindPendingReceipt(ctx context.Context, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []purchasing.PurchaseOrder
	for _, order := range r.orders {
		if order.Status.CanReceive() {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

func (r *memOrderRepo) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.Save(ctx, order)
}

func (r *memOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *memOrderRepo) CountByStatus(ctx context.Context) (map[purchasing.PurchaseOrderStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[purchasing.PurchaseOrderStatus]int64)
	for _, order := range r.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (r *memOrderRepo) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	_, err := r.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memOrderRepo) NextOrderNumber(ctx context.Context, date time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket := date.Format("200601")
	r.seq[bucket]++
	return fmt.Sprintf("PO-%s-%05d", bucket, r.seq[bucket]), nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) add(product *catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
}

func (r *memProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.SKU == sku {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	products := make([]catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, *product)
	}
	return products, nil
}

func (r *memProductRepo) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var products []catalog.Product
	for _, product := range r.products {
		if product.IsLowStock() {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *memProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.add(product)
	return nil
}

func (r *memProductRepo) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	r.add(product)
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	return err == nil, nil
}

type memMovementRepo struct {
	mu        sync.Mutex
	movements []inventory.StockMovement
}

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			movement := r.movements[i]
			return &movement, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var movements []inventory.StockMovement
	for _, movement := range r.movements {
		if movement.ProductID == productID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

func (r *memMovementRepo) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var movements []inventory.StockMovement
	for _, movement := range r.movements {
		if movement.ReferenceType == referenceType && movement.ReferenceID != nil && *movement.ReferenceID == referenceID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

func (r *memMovementRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	movements := make([]inventory.StockMovement, len(r.movements))
	copy(movements, r.movements)
	return movements, nil
}

func (r *memMovementRepo) Save(ctx context.Context, movement *inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.movements)), nil
}

func (r *memMovementRepo) CountByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) (int64, error) {
	movements, _ := r.FindByReference(ctx, referenceType, referenceID)
	return int64(len(movements)), nil
}

type memLevelRepo struct {
	mu     sync.Mutex
	levels map[string]*inventory.StockLevel
}

func newMemLevelRepo() *memLevelRepo {
	return &memLevelRepo{levels: make(map[string]*inventory.StockLevel)}
}

func levelKey(productID uuid.UUID, location string) string {
	return productID.String() + "/" + location
}

func (r *memLevelRepo) FindByProductAndLocation(ctx context.Context, productID uuid.UUID, location string) (*inventory.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	level, ok := r.levels[levelKey(productID, location)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return level, nil
}

func (r *memLevelRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockLevel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var levels []inventory.StockLevel
	for _, level := range r.levels {
		if level.ProductID == productID {
			levels = append(levels, *level)
		}
	}
	return levels, nil
}

func (r *memLevelRepo) Save(ctx context.Context, level *inventory.StockLevel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[levelKey(level.ProductID, level.Location)] = level
	return nil
}

type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *memSupplierRepo) add(supplier *partner.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[supplier.ID] = supplier
}

func (r *memSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return supplier, nil
}

func (r *memSupplierRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return r.FindByID(ctx, id)
}

func (r *memSupplierRepo) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, supplier := range r.suppliers {
		if supplier.Code == code {
			return supplier, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suppliers := make([]partner.Supplier, 0, len(r.suppliers))
	for _, supplier := range r.suppliers {
		suppliers = append(suppliers, *supplier)
	}
	return suppliers, nil
}

func (r *memSupplierRepo) Save(ctx context.Context, supplier *partner.Supplier) error {
	r.add(supplier)
	return nil
}

func (r *memSupplierRepo) SaveWithLock(ctx context.Context, supplier *partner.Supplier) error {
	r.add(supplier)
	return nil
}

func (r *memSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r *memSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.suppliers)), nil
}

func (r *memSupplierRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

// memScope satisfies both TransactionScope and TransactionalRepositories
// without transaction semantics
type memScope struct {
	orderRepo    *memOrderRepo
	productRepo  *memProductRepo
	movementRepo *memMovementRepo
	levelRepo    *memLevelRepo
	supplierRepo *memSupplierRepo
}

func newMemScope() *memScope {
	return &memScope{
		orderRepo:    newMemOrderRepo(),
		productRepo:  newMemProductRepo(),
		movementRepo: newMemMovementRepo(),
		levelRepo:    newMemLevelRepo(),
		supplierRepo: newMemSupplierRepo(),
	}
}

func (s *memScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *memScope) OrderRepo() purchasing.PurchaseOrderRepository   { return s.orderRepo }
func (s *memScope) ProductRepo() catalog.ProductRepository          { return s.productRepo }
func (s *memScope) MovementRepo() inventory.StockMovementRepository { return s.movementRepo }
func (s *memScope) LevelRepo() inventory.StockLevelRepository       { return s.levelRepo }
func (s *memScope) SupplierRepo() partner.SupplierRepository        { return s.supplierRepo }

// memIdempotencyStore is an in-memory request key store
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memIdempotencyStore) Close() error { return nil }
