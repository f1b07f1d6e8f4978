package service

import (
	"context"
	"strings"

	"marketplace/internal/apperr"
	"marketplace/internal/models"
	"marketplace/internal/store"
	"marketplace/internal/util"

	"go.uber.org/zap"
)

// AddProductRequest describes a product to add to the catalog
type AddProductRequest struct {
	Name   string   `json:"name" validate:"required"`
	Price  int64    `json:"price" validate:"gt=0"`
	Images []string `json:"images" validate:"min=1,dive,required"`
}

// CatalogService manages the product catalog
type CatalogService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.ComponentLogger("catalog"),
	}
}

// AddProduct validates and appends a product with a fresh stable id
func (s *CatalogService) AddProduct(ctx context.Context, req AddProductRequest) (models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProduct")
	defer span.End()

	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest("AddProduct", req); err != nil {
		return models.Product{}, err
	}

	product, err := s.store.AddProduct(ctx, models.Product{
		Name:   req.Name,
		Price:  req.Price,
		Images: req.Images,
	})
	if err != nil {
		return models.Product{}, err
	}

	util.ProductsAddedTotal.Inc()
	s.logger.Info("Product added",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int64("price", product.Price))
	return product, nil
}

// DeleteProduct removes a product by id
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	ok, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("DeleteProduct", "product %s not found", id)
	}

	util.ProductsDeletedTotal.Inc()
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// Product returns a product by id
func (s *CatalogService) Product(id string) (models.Product, error) {
	product, ok := s.store.Product(id)
	if !ok {
		return models.Product{}, apperr.NotFound("Product", "product %s not found", id)
	}
	return product, nil
}

// ListProducts returns products whose name contains query, ignoring case
func (s *CatalogService) ListProducts(query string) []models.Product {
	products := s.store.Products()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// CurrentImage returns the image the session's slider shows for a product
func (s *CatalogService) CurrentImage(sess *Session, productID string) (string, error) {
	return s.slide(sess, productID, 0)
}

// NextImage advances the session's slider for a product
func (s *CatalogService) NextImage(sess *Session, productID string) (string, error) {
	return s.slide(sess, productID, 1)
}

// PrevImage moves the session's slider for a product back
func (s *CatalogService) PrevImage(sess *Session, productID string) (string, error) {
	return s.slide(sess, productID, -1)
}

func (s *CatalogService) slide(sess *Session, productID string, delta int) (string, error) {
	product, err := s.Product(productID)
	if err != nil {
		return "", err
	}
	if len(product.Images) == 0 {
		return "", apperr.NotFound("Slide", "product %s has no images", productID)
	}
	return product.Images[sess.moveSlide(productID, delta, len(product.Images))], nil
}

var sampleCatalog = []AddProductRequest{
	{
		Name:   "Laptop Pro X1",
		Price:  450000,
		Images: []string{"https://images.unsplash.com/photo-1496181133206-80ce9b88a853?auto=format&fit=crop&w=600&q=80"},
	},
	{
		Name:   "Wireless Headphones",
		Price:  25000,
		Images: []string{"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&w=600&q=80"},
	},
	{
		Name:   "Smartphone Z5",
		Price:  320000,
		Images: []string{"https://images.unsplash.com/photo-1598327105666-5b89351aff97?auto=format&fit=crop&w=600&q=80"},
	},
}

// SeedSampleCatalog fills an empty catalog with demo products and returns how many it added
func (s *CatalogService) SeedSampleCatalog(ctx context.Context) (int, error) {
	if len(s.store.Products()) > 0 {
		return 0, nil
	}

	for i, req := range sampleCatalog {
		if _, err := s.AddProduct(ctx, req); err != nil {
			return i, err
		}
	}

	s.logger.Info("Sample catalog seeded", zap.Int("count", len(sampleCatalog)))
	return len(sampleCatalog), nil
}
