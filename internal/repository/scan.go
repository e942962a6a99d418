package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dealerdesk/crm-backend/internal/models"
)

type ScanRepo struct {
	col *mongo.Collection
}

func NewScanRepo(db *mongo.Database) *ScanRepo {
	return &ScanRepo{col: db.Collection("scans")}
}

func (r *ScanRepo) Create(ctx context.Context, s *models.Scan) error {
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now()
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (r *ScanRepo) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.Scan, error) {
	cursor, err := r.col.Find(ctx, bson.M{"customer_id": customerID},
		options.Find().SetSort(bson.D{{Key: "scanned_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list scans by customer: %w", err)
	}
	defer cursor.Close(ctx)
	var scans []*models.Scan
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, fmt.Errorf("decode scans: %w", err)
	}
	return scans, nil
}

func (r *ScanRepo) ListByConsultant(ctx context.Context, consultantID int64, limit int64) ([]*models.Scan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scanned_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, bson.M{"consultant_id": consultantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list scans by consultant: %w", err)
	}
	defer cursor.Close(ctx)
	var scans []*models.Scan
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, fmt.Errorf("decode scans: %w", err)
	}
	return scans, nil
}
