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

type CustomerRepo struct {
	col *mongo.Collection
}

func NewCustomerRepo(db *mongo.Database) *CustomerRepo {
	return &CustomerRepo{col: db.Collection("customers")}
}

func (r *CustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update customer %s: %w", c.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var c models.Customer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", id.Hex(), err)
	}
	return &c, nil
}

// FindByContact matches on email or phone, whichever is provided. Used by
// the check-in flow to recognise returning customers.
func (r *CustomerRepo) FindByContact(ctx context.Context, email, phone string) (*models.Customer, error) {
	var or []bson.M
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if len(or) == 0 {
		return nil, errs.ErrNotFound
	}
	var c models.Customer
	err := r.col.FindOne(ctx, bson.M{"$or": or}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by contact: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepo) ListByConsultant(ctx context.Context, consultantID int64, limit, offset int64) ([]*models.Customer, error) {
	filter := bson.M{}
	if consultantID > 0 {
		filter["consultant_id"] = consultantID
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer cursor.Close(ctx)
	var customers []*models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}
