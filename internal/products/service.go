package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kartikmehra/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/kartikmehra/shopkart-backend/pkg/errors"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
)

// Service owns the product catalog: the public read path and the admin
// write path.
type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logg: logg}
}

// Create adds a new catalog listing. Price may be zero (free item) but
// never negative.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		s.logg.Error(ctx, "product creation failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to add product")
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product created")
	return created, nil
}

// List returns the full catalog, newest listing first.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	listings, err := s.repo.ListProducts(ctx)
	if err != nil {
		s.logg.Error(ctx, "listing products failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch products")
	}
	return listings, nil
}

// Get returns one listing by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch products")
	}
	return product, nil
}

// UpdateStock replaces a listing's stock level.
func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, req UpdateStockRequest) (*models.Product, error) {
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product, err := s.repo.UpdateStock(ctx, id, req.Stock)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		s.logg.Error(ctx, "stock update failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to update product")
	}
	return product, nil
}

// Delete removes a listing from the catalog. Existing orders keep their
// own copies of name and price, so history is unaffected.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		s.logg.Error(ctx, "product deletion failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to delete product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product deleted")
	return nil
}
