package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockflow/backend/internal/domain/catalog"
	"github.com/stockflow/backend/internal/domain/shared"
)

// ProductService implements the catalog use cases. Stock is read-only here;
// all stock changes go through the stock poster.
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a product service
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, logger: logger}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "SKU "+req.SKU+" is already taken")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit, req.CostPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
			return nil, err
		}
	}
	if req.MinimumStock > 0 {
		if err := product.SetMinimumStock(req.MinimumStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListLowStock retrieves products at or below their minimum stock
func (s *ProductService) ListLowStock(ctx context.Context, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates a product's descriptive fields and thresholds
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		unit := product.Unit
		if req.Unit != nil {
			unit = *req.Unit
		}
		if err := product.Update(*req.Name, description, unit); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil || req.SellingPrice != nil {
		costPrice := product.CostPrice
		if req.CostPrice != nil {
			costPrice = *req.CostPrice
		}
		sellingPrice := product.SellingPrice
		if req.SellingPrice != nil {
			sellingPrice = *req.SellingPrice
		}
		if err := product.SetPrices(costPrice, sellingPrice); err != nil {
			return nil, err
		}
	}
	if req.MinimumStock != nil {
		if err := product.SetMinimumStock(*req.MinimumStock); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.CurrentStock > 0 {
		return shared.NewDomainError("FORBIDDEN", "Products with stock on hand cannot be deleted")
	}

	return s.productRepo.Delete(ctx, product.ID)
}
