package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/events"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

type ScanService struct {
	customers     repository.CustomerRepository
	scans         repository.ScanRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	publisher     EventPublisher
	log           *zap.SugaredLogger

	// round-robin cursor per department for assigning new customers;
	// instance-local, which is good enough for walk-in distribution
	mu sync.Mutex
	rr map[string]int
}

func NewScanService(
	customers repository.CustomerRepository,
	scans repository.ScanRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	publisher EventPublisher,
	log *zap.SugaredLogger,
) *ScanService {
	return &ScanService{
		customers:     customers,
		scans:         scans,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
		rr:            make(map[string]int),
	}
}

type CheckInInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DealershipID string `json:"dealershipId"`
	BrandID      string `json:"brandId"`
	DepartmentID string `json:"departmentId"`
}

type CheckInResult struct {
	Customer    *models.Customer `json:"customer"`
	Scan        *models.Scan     `json:"scan"`
	NewCustomer bool             `json:"newCustomer"`
}

// CheckIn handles a QR scan from the public site: it finds or creates the
// customer, ensures a consultant is assigned, records the scan, and creates
// the notification whose insert drives the realtime push.
func (s *ScanService) CheckIn(ctx context.Context, in CheckInInput) (*CheckInResult, error) {
	if in.Name == "" || (in.Email == "" && in.Phone == "") {
		return nil, fmt.Errorf("name and an email or phone are required: %w", errs.ErrBadRequest)
	}

	customer, err := s.customers.FindByContact(ctx, in.Email, in.Phone)
	newCustomer := false
	switch {
	case errors.Is(err, errs.ErrNotFound):
		newCustomer = true
		customer = &models.Customer{
			Name:         in.Name,
			Email:        in.Email,
			Phone:        in.Phone,
			DealershipID: in.DealershipID,
			BrandID:      in.BrandID,
			DepartmentID: in.DepartmentID,
		}
	case err != nil:
		return nil, err
	}

	if customer.ConsultantID == 0 {
		consultantID, err := s.pickConsultant(ctx, in.DepartmentID)
		if err != nil {
			return nil, err
		}
		customer.ConsultantID = consultantID
	}
	customer.LastScanAt = time.Now()

	if newCustomer {
		if err := s.customers.Create(ctx, customer); err != nil {
			return nil, err
		}
	} else if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	scan := &models.Scan{
		ScanID:       uuid.New().String(),
		CustomerID:   customer.ID,
		ConsultantID: customer.ConsultantID,
		DealershipID: in.DealershipID,
		BrandID:      in.BrandID,
		DepartmentID: in.DepartmentID,
		ScannedAt:    customer.LastScanAt,
	}
	if err := s.scans.Create(ctx, scan); err != nil {
		return nil, err
	}

	notifType := models.NotificationCheckIn
	if newCustomer {
		notifType = models.NotificationScan
	}
	notif := &models.Notification{
		UserID:       customer.ConsultantID,
		Type:         notifType,
		DealershipID: in.DealershipID,
		BrandID:      in.BrandID,
		DepartmentID: in.DepartmentID,
		CustomerName: customer.Name,
		ImageURL:     customer.ImageURL,
	}
	if err := s.notifications.Create(ctx, notif); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.EventScanRecorded, scan); err != nil {
			s.log.Warnw("publish scan event failed", "scanId", scan.ScanID, "error", err)
		}
	}
	return &CheckInResult{Customer: customer, Scan: scan, NewCustomer: newCustomer}, nil
}

// pickConsultant rotates over the department's consultants.
func (s *ScanService) pickConsultant(ctx context.Context, departmentID string) (int64, error) {
	consultants, err := s.users.ListConsultants(ctx, departmentID)
	if err != nil {
		return 0, err
	}
	if len(consultants) == 0 {
		return 0, fmt.Errorf("no consultants available for department %q: %w", departmentID, errs.ErrConflict)
	}
	s.mu.Lock()
	idx := s.rr[departmentID] % len(consultants)
	s.rr[departmentID]++
	s.mu.Unlock()
	return consultants[idx].UserID, nil
}

func (s *ScanService) ListByCustomer(ctx context.Context, customerID string) ([]*models.Scan, error) {
	oid, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}
	return s.scans.ListByCustomer(ctx, oid)
}

func (s *ScanService) ListByConsultant(ctx context.Context, consultantID int64, limit int64) ([]*models.Scan, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.scans.ListByConsultant(ctx, consultantID, limit)
}
