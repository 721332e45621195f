package products

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartikmehra/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/kartikmehra/shopkart-backend/pkg/errors"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
)

type stubRepo struct {
	byID map[uuid.UUID]*models.Product

	createErr error
	listErr   error
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Product
	for _, product := range s.byID {
		out = append(out, *product)
	}
	return out, nil
}

func (s *stubRepo) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (*models.Product, error) {
	product, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	product.Stock = stock
	return product, nil
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.byID, id)
	return nil
}

func testService(repo Repository) *Service {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewService(repo, logg)
}

func TestCreateProduct(t *testing.T) {
	repo := newStubRepo()
	svc := testService(repo)

	product, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Widget",
		Category: "tools",
		Price:    decimal.RequireFromString("19.99"),
		Stock:    5,
		Images:   []string{"https://cdn.example.com/widget.png"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("product id not assigned")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("stored %d products, want 1", len(repo.byID))
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := testService(newStubRepo())

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Widget",
		Category: "tools",
		Price:    decimal.NewFromInt(-1),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateAllowsZeroPrice(t *testing.T) {
	svc := testService(newStubRepo())

	if _, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Sticker",
		Category: "swag",
		Price:    decimal.Zero,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestCreateWrapsRepoFailure(t *testing.T) {
	repo := newStubRepo()
	repo.createErr = errors.New("connection reset")
	svc := testService(repo)

	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Widget",
		Category: "tools",
		Price:    decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("err = %v, want dependency error", err)
	}
	if typed.Message() != "Failed to add product" {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestUpdateStock(t *testing.T) {
	repo := newStubRepo()
	svc := testService(repo)

	created, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Widget",
		Category: "tools",
		Price:    decimal.NewFromInt(10),
		Stock:    1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.UpdateStock(context.Background(), created.ID, UpdateStockRequest{Stock: 7})
	if err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if updated.Stock != 7 {
		t.Fatalf("stock = %d, want 7", updated.Stock)
	}
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	svc := testService(newStubRepo())

	_, err := svc.UpdateStock(context.Background(), uuid.New(), UpdateStockRequest{Stock: -1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateStockUnknownProduct(t *testing.T) {
	svc := testService(newStubRepo())

	_, err := svc.UpdateStock(context.Background(), uuid.New(), UpdateStockRequest{Stock: 3})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := newStubRepo()
	svc := testService(repo)

	created, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Widget",
		Category: "tools",
		Price:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("product not removed")
	}

	err = svc.Delete(context.Background(), created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListWrapsRepoFailure(t *testing.T) {
	repo := newStubRepo()
	repo.listErr = errors.New("connection reset")
	svc := testService(repo)

	_, err := svc.List(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("err = %v, want dependency error", err)
	}
	if typed.Message() != "Failed to fetch products" {
		t.Fatalf("message = %q", typed.Message())
	}
}
