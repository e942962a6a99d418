package service

import (
	"context"
	"fmt"

	"github.com/dealerdesk/crm-backend/internal/errs"
	"github.com/dealerdesk/crm-backend/internal/models"
	"github.com/dealerdesk/crm-backend/internal/repository"
)

type CommentService struct {
	comments  repository.CommentRepository
	customers repository.CustomerRepository
}

func NewCommentService(comments repository.CommentRepository, customers repository.CustomerRepository) *CommentService {
	return &CommentService{comments: comments, customers: customers}
}

func (s *CommentService) Add(ctx context.Context, customerID string, authorID int64, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("comment body is required: %w", errs.ErrBadRequest)
	}
	oid, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, oid); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		CustomerID: oid,
		AuthorID:   authorID,
		Body:       body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context, customerID string) ([]*models.Comment, error) {
	oid, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByCustomer(ctx, oid)
}
