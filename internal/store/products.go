package store

import (
	"context"

	"marketplace/internal/models"

	"github.com/google/uuid"
)

// AddProduct appends a product, assigning a stable id when it has none
func (s *Store) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	product = product.Clone()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	_, err := s.mutate(ctx, "AddProduct", func(doc *models.Document) (bool, error) {
		doc.Products = append(doc.Products, product)
		return true, nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return product.Clone(), nil
}

// DeleteProduct removes the product with the given id; false if there is none
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return s.mutate(ctx, "DeleteProduct", func(doc *models.Document) (bool, error) {
		for i := range doc.Products {
			if doc.Products[i].ID == id {
				doc.Products = append(doc.Products[:i], doc.Products[i+1:]...)
				return true, nil
			}
		}
		return false, nil
	})
}

// Products returns the catalog in insertion order
func (s *Store) Products() []models.Product {
	var out []models.Product
	s.view(func(doc *models.Document) {
		out = make([]models.Product, len(doc.Products))
		for i, p := range doc.Products {
			out[i] = p.Clone()
		}
	})
	return out
}

// Product looks a product up by id
func (s *Store) Product(id string) (models.Product, bool) {
	var (
		out   models.Product
		found bool
	)
	s.view(func(doc *models.Document) {
		for _, p := range doc.Products {
			if p.ID == id {
				out, found = p.Clone(), true
				return
			}
		}
	})
	return out, found
}
