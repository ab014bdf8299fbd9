package services

import (
	"fmt"
	"strings"

	"florist/internal/models"
	"florist/internal/repositories"
)

// ProductService serves the flower catalog to shoppers and applies the
// operator's catalog edits.
type ProductService struct {
	products repositories.ProductRepository
}

func NewProductService(products repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// GetAllProducts returns the whole catalog.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.products.GetAll()
}

// SearchProducts filters the catalog by name or description and category.
// Both filters are optional.
func (s *ProductService) SearchProducts(query, category string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)
	if query == "" && category == "" {
		return s.products.GetAll()
	}
	return s.products.Search(query, category)
}

func (s *ProductService) GetProductByID(id int64) (*models.Product, error) {
	return s.products.GetByID(id)
}

// CreateProduct tidies the listing and adds it to the catalog.
func (s *ProductService) CreateProduct(product *models.Product) error {
	tidyListing(product)
	if err := s.products.Create(product); err != nil {
		return fmt.Errorf("failed to add %q to the catalog: %w", product.Name, err)
	}
	return nil
}

// UpdateProduct replaces the listing of an existing product. An empty image
// or description keeps the stored one.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	current, err := s.products.GetByID(product.ID)
	if err != nil {
		return err
	}
	tidyListing(product)
	if product.Image == "" {
		product.Image = current.Image
	}
	if product.Description == "" {
		product.Description = current.Description
	}
	product.CreatedAt = current.CreatedAt
	return s.products.Update(product)
}

// DeleteProduct takes a product off the catalog. Carts that hold it keep
// their snapshot.
func (s *ProductService) DeleteProduct(id int64) error {
	return s.products.Delete(id)
}

// tidyListing trims free text and lowercases the category.
func tidyListing(p *models.Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.Image = strings.TrimSpace(p.Image)
	p.Description = strings.TrimSpace(p.Description)
}
