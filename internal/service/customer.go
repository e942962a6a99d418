package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/events"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, errs.ErrBadRequest)
	}
	return oid, nil
}

type CustomerService struct {
	customers     repository.CustomerRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	publisher     EventPublisher
	log           *zap.SugaredLogger
}

func NewCustomerService(
	customers repository.CustomerRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	publisher EventPublisher,
	log *zap.SugaredLogger,
) *CustomerService {
	return &CustomerService{
		customers:     customers,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.customers.FindByID(ctx, oid)
}

func (s *CustomerService) List(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.customers.ListByConsultant(ctx, consultantID, limit, offset)
}

type UpdateCustomerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ImageURL string `json:"imageUrl"`
}

func (s *CustomerService) Update(ctx context.Context, id string, in UpdateCustomerInput) (*models.Customer, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		customer.Name = in.Name
	}
	if in.Email != "" {
		customer.Email = in.Email
	}
	if in.Phone != "" {
		customer.Phone = in.Phone
	}
	if in.ImageURL != "" {
		customer.ImageURL = in.ImageURL
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Reassign moves the customer to another consultant and notifies them. The
// notification insert is what the change-stream consumer broadcasts.
func (s *CustomerService) Reassign(ctx context.Context, customerID string, newConsultantID int64) (*models.Customer, error) {
	oid, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}
	consultant, err := s.users.FindByUserID(ctx, newConsultantID)
	if err != nil {
		return nil, fmt.Errorf("consultant %d: %w", newConsultantID, err)
	}
	customer, err := s.customers.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if customer.ConsultantID == newConsultantID {
		return customer, nil
	}

	customer.ConsultantID = consultant.UserID
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		UserID:       consultant.UserID,
		Type:         models.NotificationReassignment,
		DealershipID: customer.DealershipID,
		BrandID:      customer.BrandID,
		DepartmentID: customer.DepartmentID,
		CustomerName: customer.Name,
		ImageURL:     customer.ImageURL,
	}
	if err := s.notifications.Create(ctx, notif); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.EventCustomerReassigned, map[string]any{
			"customerId":   customer.ID.Hex(),
			"consultantId": consultant.UserID,
		}); err != nil {
			s.log.Warnw("publish reassignment event failed", "customerId", customerID, "error", err)
		}
	}
	return customer, nil
}
