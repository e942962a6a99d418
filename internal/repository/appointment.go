package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
)

type AppointmentRepo struct {
	col *mongo.Collection
}

func NewAppointmentRepo(db *mongo.Database) *AppointmentRepo {
	return &AppointmentRepo{col: db.Collection("appointments")}
}

func (r *AppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment %s: %w", id.Hex(), err)
	}
	return &a, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AppointmentStatus) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("update appointment %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepo) ListByConsultant(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_for", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	cursor, err := r.col.Find(ctx, bson.M{"consultant_id": consultantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)
	var appts []*models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appts, nil
}
