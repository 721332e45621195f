package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kartikmehra/shopkart-backend/pkg/db/models"
	"github.com/kartikmehra/shopkart-backend/pkg/enums"
	pkgerrors "github.com/kartikmehra/shopkart-backend/pkg/errors"
	"github.com/kartikmehra/shopkart-backend/pkg/logger"
	"github.com/kartikmehra/shopkart-backend/pkg/metrics"
)

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns order acceptance and the order read path.
type Service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

func NewService(repo Repository, tx txRunner, logg *logger.Logger, m *metrics.CheckoutMetrics) *Service {
	return &Service{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}
}

// Place validates and persists an order. The same idempotency key always
// yields the same persisted order: a replayed request returns the original
// record without writing a second one.
func (s *Service) Place(ctx context.Context, req OrderRequest, idempotencyKey string) (*models.Order, error) {
	start := s.now()

	if idempotencyKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header is required")
	}

	method, status, paymentStatus, err := s.parseEnums(req)
	if err != nil {
		// Unparsed input never becomes a metric label.
		s.metrics.IncFailure("invalid")
		return nil, err
	}

	if err := s.verifyTotal(req); err != nil {
		s.metrics.IncFailure(method.String())
		return nil, err
	}

	if existing, err := s.repo.FindByIdempotencyKey(ctx, idempotencyKey); err == nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", existing.ID.String()), "replayed order placement")
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to place order")
	}

	order := s.buildOrder(req, idempotencyKey, method, status, paymentStatus)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, createErr := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return createErr
	})
	if err != nil {
		// Two requests racing on the same key: the loser hits the unique
		// index, the winner's row is the answer.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.repo.FindByIdempotencyKey(ctx, idempotencyKey); findErr == nil {
				return existing, nil
			}
		}
		s.metrics.IncFailure(method.String())
		s.logg.Error(ctx, "order persistence failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to place order")
	}

	s.metrics.IncSuccess(method.String())
	s.metrics.ObserveDuration(method.String(), s.now().Sub(start))
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order placed")

	return order, nil
}

// List returns every persisted order, newest order date first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		s.logg.Error(ctx, "listing orders failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch orders")
	}
	return orders, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch orders")
	}
	return order, nil
}

func (s *Service) parseEnums(req OrderRequest) (enums.PaymentMethod, enums.OrderStatus, enums.PaymentStatus, error) {
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	paymentStatus, err := enums.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return "", "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}
	return method, status, paymentStatus, nil
}

// verifyTotal recomputes the order total from the submitted lines and
// rejects a payload whose claimed total does not match.
func (s *Service) verifyTotal(req OrderRequest) error {
	computed := decimal.Zero
	for _, line := range req.Products {
		if line.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		computed = computed.Add(line.Subtotal())
	}
	if !computed.Equal(req.TotalAmount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount does not match order items")
	}
	return nil
}

func (s *Service) buildOrder(req OrderRequest, key string, method enums.PaymentMethod, status enums.OrderStatus, paymentStatus enums.PaymentStatus) *models.Order {
	orderID := uuid.New()
	items := make([]models.OrderItem, 0, len(req.Products))
	for _, line := range req.Products {
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	return &models.Order{
		ID:              orderID,
		CustomerName:    req.User.Name,
		CustomerEmail:   req.User.Email,
		CustomerPhone:   req.User.Phone,
		CustomerAddress: req.User.Address,
		TotalAmount:     req.TotalAmount,
		Status:          status,
		OrderDate:       req.OrderDate,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		IdempotencyKey:  key,
		Items:           items,
	}
}
