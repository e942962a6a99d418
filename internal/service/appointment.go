package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/events"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

type AppointmentService struct {
	appointments  repository.AppointmentRepository
	customers     repository.CustomerRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	publisher     EventPublisher
	log           *zap.SugaredLogger
}

func NewAppointmentService(
	appointments repository.AppointmentRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	publisher EventPublisher,
	log *zap.SugaredLogger,
) *AppointmentService {
	return &AppointmentService{
		appointments:  appointments,
		customers:     customers,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

type BookInput struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DealershipID string    `json:"dealershipId"`
	ScheduledFor time.Time `json:"scheduledFor"`
	Notes        string    `json:"notes"`
}

// Book handles the public booking flow: it finds or creates the customer and
// creates a scheduled appointment with their consultant, notifying them.
func (s *AppointmentService) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {
	if in.Name == "" || (in.Email == "" && in.Phone == "") {
		return nil, fmt.Errorf("name and an email or phone are required: %w", errs.ErrBadRequest)
	}
	if in.ScheduledFor.Before(time.Now()) {
		return nil, fmt.Errorf("scheduledFor must be in the future: %w", errs.ErrBadRequest)
	}

	customer, err := s.customers.FindByContact(ctx, in.Email, in.Phone)
	if errors.Is(err, errs.ErrNotFound) {
		customer = &models.Customer{
			Name:         in.Name,
			Email:        in.Email,
			Phone:        in.Phone,
			DealershipID: in.DealershipID,
		}
		if err := s.customers.Create(ctx, customer); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	consultantID := customer.ConsultantID
	if consultantID == 0 {
		consultants, err := s.users.ListConsultants(ctx, "")
		if err != nil {
			return nil, err
		}
		if len(consultants) == 0 {
			return nil, fmt.Errorf("no consultants available: %w", errs.ErrConflict)
		}
		consultantID = consultants[0].UserID
		customer.ConsultantID = consultantID
		if err := s.customers.Update(ctx, customer); err != nil {
			return nil, err
		}
	}

	appt := &models.Appointment{
		AppointmentID: uuid.New().String(),
		CustomerID:    customer.ID,
		ConsultantID:  consultantID,
		DealershipID:  in.DealershipID,
		Status:        models.AppointmentScheduled,
		Notes:         in.Notes,
		ScheduledFor:  in.ScheduledFor,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	notif := &models.Notification{
		UserID:       consultantID,
		Type:         models.NotificationAppointmentCreated,
		DealershipID: in.DealershipID,
		CustomerName: customer.Name,
		EntityName:   appt.ScheduledFor.Format(time.RFC3339),
	}
	if err := s.notifications.Create(ctx, notif); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.EventAppointmentBooked, appt); err != nil {
			s.log.Warnw("publish appointment event failed", "appointmentId", appt.AppointmentID, "error", err)
		}
	}
	return appt, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	switch status {
	case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled:
	default:
		return fmt.Errorf("unknown status %q: %w", status, errs.ErrBadRequest)
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	return s.appointments.UpdateStatus(ctx, oid, status)
}

func (s *AppointmentService) ListByConsultant(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Appointment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.appointments.ListByConsultant(ctx, consultantID, limit, offset)
}
