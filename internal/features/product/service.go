package product

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductService struct {
	repo   ProductRepository
	logger *zap.Logger
}

func NewProductService(repo ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if p.Name == "" {
		return nil, errors.New("product name is required")
	}
	if p.Category == "" {
		p.Category = "generale"
	}
	if p.Language == "" {
		p.Language = "it"
	}
	if p.Source == "" {
		p.Source = "manual"
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	s.logger.Info("Product created", zap.String("product_id", id.Hex()), zap.String("name", p.Name))
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, filter ListFilter) ([]Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, updates bson.M) (*Product, error) {
	delete(updates, "_id")
	delete(updates, "created_at")

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}
