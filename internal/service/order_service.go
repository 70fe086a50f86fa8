package service

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"go-seedstock/internal/model"
	"go-seedstock/internal/repository"
	"go-seedstock/internal/ws"
	"go-seedstock/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Transactor runs a function inside a database transaction, rolling back when
// the function errors. *gorm.DB satisfies it.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// StatusGuardMode controls order status transition checking.
type StatusGuardMode string

const (
	// GuardPermissive allows any status to be written at any time, matching
	// how staff use the dashboard today (manual overrides included).
	GuardPermissive StatusGuardMode = "permissive"
	// GuardStrict enforces the fulfillment chain and terminal states.
	GuardStrict StatusGuardMode = "strict"
)

// GuardModeFrom parses the ORDER_STATUS_GUARD setting, defaulting to permissive.
func GuardModeFrom(value string) StatusGuardMode {
	if StatusGuardMode(value) == GuardStrict {
		return GuardStrict
	}
	return GuardPermissive
}

var ErrInvalidTransition = errors.New("status transition not allowed")

// OrderItemRequest is one line of a placement request. UnitPrice <= 0 means
// "use the product's current sell price".
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice int64     `json:"unit_price" validate:"gte=0"`
}

type PlaceOrderRequest struct {
	CustomerID  uuid.UUID          `json:"customer_id" validate:"uuid_required"`
	OrderDate   time.Time          `json:"order_date"`
	Status      model.OrderStatus  `json:"status"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingFee int64              `json:"shipping_fee" validate:"gte=0"`
	Discount    int64              `json:"discount" validate:"gte=0"`
	Notes       string             `json:"notes"`
}

type OrderService interface {
	PlaceOrder(req *PlaceOrderRequest) (*model.Order, error)
	UpdateStatus(id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	GetAllOrders() ([]model.Order, error)
	GetOrderByID(id uuid.UUID) (*model.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	batchRepo    repository.BatchRepository
	db           Transactor
	wsHub        *ws.Hub
	guardMode    StatusGuardMode
}

func NewOrderService(
	oRepo repository.OrderRepository,
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	bRepo repository.BatchRepository,
	db Transactor,
	hub *ws.Hub,
	guardMode StatusGuardMode,
) OrderService {
	return &orderService{
		orderRepo:    oRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		batchRepo:    bRepo,
		db:           db,
		wsHub:        hub,
		guardMode:    guardMode,
	}
}

// PlaceOrder creates the order header, its items and the batch decrements in
// one database transaction. Stock is read under row locks, so two concurrent
// placements against the same batch serialize instead of overselling, and an
// insufficient-stock failure on any line rolls everything back.
func (s *orderService) PlaceOrder(req *PlaceOrderRequest) (*model.Order, error) {
	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !status.Valid() {
		return nil, requestErrorf("unknown order status %q", status)
	}

	// 2. Fail fast before any write: customer and every product must exist
	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		return nil, requestErrorf("customer not found")
	}

	products := make(map[uuid.UUID]*model.Product, len(req.Items))
	for _, item := range req.Items {
		if _, ok := products[item.ProductID]; ok {
			continue
		}
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			return nil, requestErrorf("product %s not found", item.ProductID)
		}
		products[item.ProductID] = product
	}

	// 3. Snapshot prices and compute the total
	lines := make([]orderLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = orderLine{
			Quantity:  item.Quantity,
			UnitPrice: unitPriceFor(item.UnitPrice, products[item.ProductID]),
		}
	}
	total := computeOrderTotal(lines, req.ShippingFee, req.Discount)

	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &model.Order{
		CustomerID:  req.CustomerID,
		OrderDate:   orderDate,
		Status:      status,
		TotalAmount: total,
		ShippingFee: req.ShippingFee,
		Discount:    req.Discount,
		Notes:       req.Notes,
	}

	// 4. Atomic commit: header, items and batch decrements stand or fall together
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(req.Items))

		for i, item := range req.Items {
			ledger, err := s.batchRepo.FindAvailableByProduct(tx, item.ProductID)
			if err != nil {
				return err
			}

			alloc, err := allocateFIFO(products[item.ProductID].Name, ledger, item.Quantity)
			if err != nil {
				return err
			}

			items = append(items, model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				BatchID:   alloc.FirstBatchID,
				Quantity:  item.Quantity,
				UnitPrice: lines[i].UnitPrice,
			})

			// Apply decrements line by line so a later line for the same
			// product reads the already-reduced ledger.
			for _, update := range alloc.Updates {
				if err := s.batchRepo.UpdateQuantity(tx, update.BatchID, update.NewQuantity); err != nil {
					return fmt.Errorf("failed to update batch %s: %w", update.BatchID, err)
				}
			}
		}

		return s.orderRepo.CreateItems(tx, items)
	})
	if err != nil {
		logger.Warn().Err(err).Str("customer_id", req.CustomerID.String()).Msg("order placement failed")
		return nil, err
	}

	// 5. Canonical result: the fully joined order
	full, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("order_id", full.ID.String()).
		Int64("total_amount", full.TotalAmount).
		Int("items", len(full.Items)).
		Msg("order placed")
	go s.wsHub.Publish("order_created", full)

	return full, nil
}

// UpdateStatus changes only the status field. It never re-runs allocation and
// never restocks on cancellation. Strict mode additionally enforces the
// fulfillment chain.
func (s *orderService) UpdateStatus(id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, requestErrorf("unknown order status %q", status)
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, requestErrorf("order not found")
	}

	if s.guardMode == GuardStrict && !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("order_id", id.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")
	go s.wsHub.Publish("order_status_updated", updated)

	return updated, nil
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) GetOrderByID(id uuid.UUID) (*model.Order, error) {
	return s.orderRepo.FindByID(id)
}
