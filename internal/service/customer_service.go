package service

import (
	"errors"

	"go-seedstock/internal/model"
	"go-seedstock/internal/repository"
	"go-seedstock/internal/ws"
	"go-seedstock/pkg/validator"

	"github.com/google/uuid"
)

var ErrCustomerHasOrders = errors.New("customer has orders and cannot be deleted")

type CustomerService interface {
	CreateCustomer(req *model.Customer) error
	UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID) error
	GetAllCustomers() ([]model.Customer, error)
	GetCustomerByID(id uuid.UUID) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	wsHub        *ws.Hub
}

func NewCustomerService(cRepo repository.CustomerRepository, oRepo repository.OrderRepository, hub *ws.Hub) CustomerService {
	return &customerService{
		customerRepo: cRepo,
		orderRepo:    oRepo,
		wsHub:        hub,
	}
}

func (s *customerService) CreateCustomer(req *model.Customer) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return firstValidationError(errs)
	}

	if err := s.customerRepo.Create(req); err != nil {
		return err
	}

	logger.Info().Str("customer_id", req.ID.String()).Msg("customer created")
	go s.wsHub.Publish("customer_created", req)
	return nil
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, firstValidationError(errs)
	}

	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, requestErrorf("customer not found")
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Address = req.Address

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}

	go s.wsHub.Publish("customer_updated", existing)
	return existing, nil
}

func (s *customerService) DeleteCustomer(id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return requestErrorf("customer not found")
	}

	orderCount, err := s.orderRepo.CountByCustomer(id)
	if err != nil {
		return err
	}
	if orderCount > 0 {
		return ErrCustomerHasOrders
	}

	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}

	logger.Info().Str("customer_id", id.String()).Msg("customer deleted")
	go s.wsHub.Publish("customer_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *customerService) GetAllCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetCustomerByID(id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(id)
}
