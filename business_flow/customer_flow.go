package businessflow

import (
	"context"
	"log"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/models"
	"github.com/pulsecrm/pulse/repository"
	"github.com/pulsecrm/pulse/segment"
	"github.com/pulsecrm/pulse/utils"
)

// CustomerFlow handles customer ingestion and audience previews
type CustomerFlow interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error)
	ListCustomers(ctx context.Context, metadata *ClientMetadata) (*dto.ListCustomersResponse, error)
	QueryCustomers(ctx context.Context, req *dto.QueryCustomersRequest, metadata *ClientMetadata) (*dto.QueryCustomersResponse, error)
}

// CustomerFlowImpl implements the customer business flow
type CustomerFlowImpl struct {
	customerRepo repository.CustomerRepository
	logger       *log.Logger
}

// NewCustomerFlow creates a new customer flow instance
func NewCustomerFlow(customerRepo repository.CustomerRepository, logger *log.Logger) CustomerFlow {
	return &CustomerFlowImpl{customerRepo: customerRepo, logger: logger}
}

// CreateCustomer registers a customer after checking the email is unused.
func (s *CustomerFlowImpl) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest, metadata *ClientMetadata) (*dto.CustomerDTO, error) {
	if req.Name == "" {
		return nil, NewBusinessError("CUSTOMER_VALIDATION_FAILED", "Customer validation failed", ErrCustomerNameRequired)
	}
	if req.Email == "" {
		return nil, NewBusinessError("CUSTOMER_VALIDATION_FAILED", "Customer validation failed", ErrCustomerEmailRequired)
	}

	existing, err := s.customerRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LOOKUP_FAILED", "Failed to check email uniqueness", ErrStorageFailure)
	}
	if existing != nil {
		return nil, NewBusinessError("EMAIL_ALREADY_EXISTS", "A customer with this email already exists", ErrEmailAlreadyExists)
	}

	lastActive := utils.UTCNow()
	if req.LastActive != nil {
		lastActive = req.LastActive.UTC()
	}
	customer := &models.Customer{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Spend:      req.Spend,
		Visits:     req.Visits,
		LastActive: lastActive,
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, NewBusinessError("CUSTOMER_PERSIST_FAILED", "Failed to persist customer", ErrStorageFailure)
	}

	return customerDTO(customer), nil
}

// ListCustomers returns the most recently added customers.
func (s *CustomerFlowImpl) ListCustomers(ctx context.Context, metadata *ClientMetadata) (*dto.ListCustomersResponse, error) {
	customers, err := s.customerRepo.ListNewest(ctx, utils.DefaultListLimit)
	if err != nil {
		return nil, NewBusinessError("CUSTOMER_LIST_FAILED", "Failed to list customers", ErrStorageFailure)
	}

	resp := &dto.ListCustomersResponse{
		Count:     int64(len(customers)),
		Customers: make([]dto.CustomerDTO, 0, len(customers)),
	}
	for _, customer := range customers {
		resp.Customers = append(resp.Customers, *customerDTO(customer))
	}
	return resp, nil
}

// QueryCustomers previews the audience a rule set matches right now. The
// result is a point-in-time evaluation; launching a campaign later may
// match a different set.
func (s *CustomerFlowImpl) QueryCustomers(ctx context.Context, req *dto.QueryCustomersRequest, metadata *ClientMetadata) (*dto.QueryCustomersResponse, error) {
	if !models.Combinator(req.Condition).Valid() {
		return nil, NewBusinessError("AUDIENCE_VALIDATION_FAILED", "Audience validation failed", ErrInvalidCombinator)
	}

	filter := dto.AudienceFilterDTO{Rules: req.Rules, Condition: req.Condition}
	predicate := segment.Compile(filter.ToModel(), utils.UTCNow())
	for _, rule := range predicate.Ignored {
		s.logger.Printf("ignoring unsupported segment rule field=%q operator=%q request_id=%s",
			rule.Field, rule.Operator, metadata.RequestID)
	}

	customers, err := s.customerRepo.ByAudience(ctx, predicate)
	if err != nil {
		return nil, NewBusinessError("AUDIENCE_QUERY_FAILED", "Failed to evaluate audience", ErrStorageFailure)
	}

	resp := &dto.QueryCustomersResponse{
		Count:     int64(len(customers)),
		Customers: make([]dto.CustomerDTO, 0, len(customers)),
	}
	for _, customer := range customers {
		resp.Customers = append(resp.Customers, *customerDTO(customer))
	}
	return resp, nil
}

func customerDTO(customer *models.Customer) *dto.CustomerDTO {
	return &dto.CustomerDTO{
		ID:         customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
		Phone:      customer.Phone,
		Spend:      customer.Spend,
		Visits:     customer.Visits,
		LastActive: customer.LastActive,
		CreatedAt:  customer.CreatedAt,
	}
}
