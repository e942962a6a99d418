package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a dealership lead/visitor. ConsultantID is the numeric user id
// of the currently assigned sales consultant (0 means unassigned).
type Customer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ImageURL     string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	ConsultantID int64              `bson:"consultant_id,omitempty" json:"consultantId,omitempty"`
	DealershipID string             `bson:"dealership_id,omitempty" json:"dealershipId,omitempty"`
	BrandID      string             `bson:"brand_id,omitempty" json:"brandId,omitempty"`
	DepartmentID string             `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	LastScanAt   time.Time          `bson:"last_scan_at,omitempty" json:"lastScanAt,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Scan records a customer interacting with a QR code tied to a dealership
// brand/department.
type Scan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ScanID       string             `bson:"scan_id" json:"scanId"`
	CustomerID   primitive.ObjectID `bson:"customer_id" json:"customerId"`
	ConsultantID int64              `bson:"consultant_id" json:"consultantId"`
	DealershipID string             `bson:"dealership_id,omitempty" json:"dealershipId,omitempty"`
	BrandID      string             `bson:"brand_id,omitempty" json:"brandId,omitempty"`
	DepartmentID string             `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	ScannedAt    time.Time          `bson:"scanned_at" json:"scannedAt"`
}
