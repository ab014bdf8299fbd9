package services

import (
	"florist/internal/models"
	"florist/internal/repositories"
	"florist/internal/shop"
)

// CartView is the cart as returned to clients.
type CartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice int64             `json:"total_price"`
}

func viewCart(c *shop.Cart) CartView {
	return CartView{Items: c.Items(), TotalItems: c.TotalItems(), TotalPrice: c.TotalPrice()}
}

// CartService manages the cart and favorites of each session.
type CartService struct {
	registry *SessionRegistry
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(registry *SessionRegistry, products repositories.ProductRepository) *CartService {
	return &CartService{registry: registry, products: products}
}

// GetCart returns the user's cart.
func (s *CartService) GetCart(userID string) (CartView, error) {
	return s.update(userID, func(*shop.Cart) error { return nil })
}

// AddToCart adds one unit of the product, merging with an existing line.
func (s *CartService) AddToCart(userID string, productID int64) (CartView, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return CartView{}, err
	}
	return s.update(userID, func(c *shop.Cart) error {
		c.Add(*product)
		return nil
	})
}

// UpdateQuantity sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateQuantity(userID string, productID int64, quantity int) (CartView, error) {
	return s.update(userID, func(c *shop.Cart) error {
		return c.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(userID string, productID int64) (CartView, error) {
	return s.update(userID, func(c *shop.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(userID string) (CartView, error) {
	return s.update(userID, func(c *shop.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *CartService) update(userID string, fn func(*shop.Cart) error) (CartView, error) {
	var view CartView
	err := s.registry.With(userID, func(sess *shop.Session) error {
		if err := fn(&sess.Cart); err != nil {
			return err
		}
		view = viewCart(&sess.Cart)
		return nil
	})
	return view, err
}

// ToggleFavorite flips the favorite flag of a product id and returns the new
// state. The id need not be in the catalog; ListFavorites skips such ids.
func (s *CartService) ToggleFavorite(userID string, productID int64) (bool, error) {
	var on bool
	err := s.registry.With(userID, func(sess *shop.Session) error {
		on = sess.Favorites.Toggle(productID)
		return nil
	})
	return on, err
}

// ListFavorites returns the favorited products in catalog order.
func (s *CartService) ListFavorites(userID string) ([]models.Product, error) {
	catalog, err := s.products.GetAll()
	if err != nil {
		return nil, err
	}
	var list []models.Product
	err = s.registry.With(userID, func(sess *shop.Session) error {
		list = sess.Favorites.Filter(catalog)
		return nil
	})
	return list, err
}
