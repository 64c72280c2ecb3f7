package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

// CartService mutates the cart embedded in the user document. Every
// mutation persists the whole document; concurrent requests from the same
// user are last-writer-wins on that document.
type CartService struct {
	Users    store.UserStore
	Products store.ProductStore
}

// CartProduct is a cart line joined with its product document.
type CartProduct struct {
	models.Product
	Quantity int `json:"quantity"`
}

func (s *CartService) Get(ctx context.Context, user *models.User) ([]CartProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(user.CartItems))
	for _, line := range user.CartItems {
		ids = append(ids, line.Product)
	}

	products, err := s.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load cart products", err)
	}

	quantities := make(map[primitive.ObjectID]int, len(user.CartItems))
	for _, line := range user.CartItems {
		quantities[line.Product] = line.Quantity
	}

	out := make([]CartProduct, 0, len(products))
	for _, p := range products {
		out = append(out, CartProduct{Product: p, Quantity: quantities[p.ID]})
	}
	return out, nil
}

// Add increments the quantity of an existing line or appends a new line
// with quantity 1. No upper bound is enforced.
func (s *CartService) Add(ctx context.Context, user *models.User, productID primitive.ObjectID) ([]models.CartLine, error) {
	found := false
	for i := range user.CartItems {
		if user.CartItems[i].Product == productID {
			user.CartItems[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		user.CartItems = append(user.CartItems, models.CartLine{Product: productID, Quantity: 1})
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user.CartItems, nil
}

// Remove drops the line for productID; a nil productID clears the cart.
// Removing an absent line is a no-op.
func (s *CartService) Remove(ctx context.Context, user *models.User, productID *primitive.ObjectID) ([]models.CartLine, error) {
	if productID == nil {
		user.CartItems = []models.CartLine{}
	} else {
		kept := user.CartItems[:0]
		for _, line := range user.CartItems {
			if line.Product != *productID {
				kept = append(kept, line)
			}
		}
		user.CartItems = kept
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user.CartItems, nil
}

// SetQuantity sets the line to quantity; zero removes the line. Setting the
// quantity of an absent line is a silent no-op.
func (s *CartService) SetQuantity(ctx context.Context, user *models.User, productID primitive.ObjectID, quantity int) ([]models.CartLine, error) {
	if quantity < 0 {
		return nil, apperr.New(apperr.Validation, "quantity must not be negative")
	}

	idx := -1
	for i := range user.CartItems {
		if user.CartItems[i].Product == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return user.CartItems, nil
	}

	if quantity == 0 {
		user.CartItems = append(user.CartItems[:idx], user.CartItems[idx+1:]...)
	} else {
		user.CartItems[idx].Quantity = quantity
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user.CartItems, nil
}

func (s *CartService) save(ctx context.Context, user *models.User) error {
	if err := s.Users.Save(ctx, user); err != nil {
		return apperr.Wrap(apperr.External, "failed to persist cart", err)
	}
	return nil
}
