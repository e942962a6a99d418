package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationReassignment       NotificationType = "reassignment"
	NotificationCheckIn            NotificationType = "check_in"
	NotificationScan               NotificationType = "scan"
	NotificationAppointmentCreated NotificationType = "appointment_created"
	NotificationOther              NotificationType = "other"
)

// Notification is a server-generated event targeted at exactly one user.
// The realtime layer only observes creations of these records; it never
// mutates them.
type Notification struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       int64              `bson:"user_id" json:"userId"`
	Type         NotificationType   `bson:"type" json:"type"`
	DealershipID string             `bson:"dealership_id,omitempty" json:"dealershipId,omitempty"`
	BrandID      string             `bson:"brand_id,omitempty" json:"brandId,omitempty"`
	DepartmentID string             `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	CustomerName string             `bson:"customer_name,omitempty" json:"customerName,omitempty"`
	ImageURL     string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	EntityName   string             `bson:"entity_name,omitempty" json:"entityName,omitempty"`
	Read         bool               `bson:"read" json:"read"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
