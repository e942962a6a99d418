// Package repository provides Mongo-backed persistence. Services depend on
// the interfaces so tests can substitute in-memory fakes.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dealerdesk/crm-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUserID(ctx context.Context, userID int64) (*models.User, error)
	ListConsultants(ctx context.Context, departmentID string) ([]*models.User, error)
	NextUserID(ctx context.Context) (int64, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByContact(ctx context.Context, email, phone string) (*models.Customer, error)
	ListByConsultant(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Customer, error)
}

type ScanRepository interface {
	Create(ctx context.Context, s *models.Scan) error
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Scan, error)
	ListByConsultant(ctx context.Context, consultantID int64, limit int64) ([]*models.Scan, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) error
	ListByConsultant(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Appointment, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int64) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// Repositories bundles the Mongo implementations for wiring in main.
type Repositories struct {
	Users         UserRepository
	Customers     CustomerRepository
	Scans         ScanRepository
	Appointments  AppointmentRepository
	Comments      CommentRepository
	Notifications NotificationRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:         NewUserRepo(db),
		Customers:     NewCustomerRepo(db),
		Scans:         NewScanRepo(db),
		Appointments:  NewAppointmentRepo(db),
		Comments:      NewCommentRepo(db),
		Notifications: NewNotificationRepo(db),
	}
}
