package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleConsultant UserRole = "consultant"
	RoleManager    UserRole = "manager"
)

// User is a sales consultant or manager. UserID is the stable numeric
// identifier carried in JWT claims and notification records; the Mongo
// ObjectID is internal to the store.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID       int64              `bson:"user_id" json:"userId"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         UserRole           `bson:"role" json:"role"`
	DealershipID string             `bson:"dealership_id,omitempty" json:"dealershipId,omitempty"`
	DepartmentID string             `bson:"department_id,omitempty" json:"departmentId,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}
