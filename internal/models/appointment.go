package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked visit, created either by a consultant or through
// the public booking flow.
type Appointment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID string             `bson:"appointment_id" json:"appointmentId"`
	CustomerID    primitive.ObjectID `bson:"customer_id" json:"customerId"`
	ConsultantID  int64              `bson:"consultant_id" json:"consultantId"`
	DealershipID  string             `bson:"dealership_id,omitempty" json:"dealershipId,omitempty"`
	Status        AppointmentStatus  `bson:"status" json:"status"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	ScheduledFor  time.Time          `bson:"scheduled_for" json:"scheduledFor"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Comment is a consultant note attached to a customer.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customer_id" json:"customerId"`
	AuthorID   int64              `bson:"author_id" json:"authorId"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
