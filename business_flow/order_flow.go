package businessflow

import (
	"context"

	"gorm.io/gorm"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
	"github.com/pulsecrm/pulse/utils"
)

// OrderFlow handles order ingestion
type OrderFlow interface {
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.OrderDTO, error)
	ListOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ListOrdersResponse, error)
}

// OrderFlowImpl implements the order business flow
type OrderFlowImpl struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
}

// NewOrderFlow creates a new order flow instance
func NewOrderFlow(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, db *gorm.DB) OrderFlow {
	return &OrderFlowImpl{orderRepo: orderRepo, customerRepo: customerRepo, db: db}
}

// CreateOrder records an order and rolls its amount into the customer's
// spend, visit count and last activity in one transaction.
func (s *OrderFlowImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest, metadata *ClientMetadata) (*dto.OrderDTO, error) {
	if req.Amount <= 0 {
		return nil, NewBusinessError("ORDER_VALIDATION_FAILED", "Order validation failed", ErrOrderAmountInvalid)
	}

	customer, err := s.customerRepo.ByID(ctx, req.CustomerID)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to look up customer", ErrStorageFailure)
	}
	if customer == nil {
		return nil, NewBusinessError("CUSTOMER_NOT_FOUND", "Customer not found", ErrCustomerNotFound)
	}

	date := utils.UTCNow()
	if req.Date != nil {
		date = req.Date.UTC()
	}
	order := &models.Order{
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Date:       date,
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return err
		}
		return s.customerRepo.RecordOrderActivity(txCtx, req.CustomerID, req.Amount, date)
	})
	if err != nil {
		return nil, NewBusinessError("ORDER_PERSIST_FAILED", "Failed to persist order", ErrStorageFailure)
	}

	return &dto.OrderDTO{
		ID:            order.ID,
		CustomerID:    order.CustomerID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Amount:        order.Amount,
		Date:          order.Date,
		CreatedAt:     order.CreatedAt,
	}, nil
}

// ListOrders returns recent orders with their customers attached.
func (s *OrderFlowImpl) ListOrders(ctx context.Context, metadata *ClientMetadata) (*dto.ListOrdersResponse, error) {
	orders, err := s.orderRepo.ListNewestWithCustomer(ctx, utils.DefaultListLimit, 0)
	if err != nil {
		return nil, NewBusinessError("ORDER_LIST_FAILED", "Failed to list orders", ErrStorageFailure)
	}

	resp := &dto.ListOrdersResponse{
		Count:  int64(len(orders)),
		Orders: make([]dto.OrderDTO, 0, len(orders)),
	}
	for _, order := range orders {
		item := dto.OrderDTO{
			ID:         order.ID,
			CustomerID: order.CustomerID,
			Amount:     order.Amount,
			Date:       order.Date,
			CreatedAt:  order.CreatedAt,
		}
		if order.Customer != nil {
			item.CustomerName = order.Customer.Name
			item.CustomerEmail = order.Customer.Email
		}
		resp.Orders = append(resp.Orders, item)
	}
	return resp, nil
}
