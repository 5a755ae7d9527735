// Package cart gère le panier de session d'un visiteur.
package cart

import (
	"context"
	"fmt"
	"sort"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

// Catalog est la partie du catalogue dont le panier a besoin.
type Catalog interface {
	GetActive(ctx context.Context, id uuid.UUID) (models.Product, error)
	FindActive(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type Line struct {
	ProductID      string           `json:"product_id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Category       string           `json:"category"`
	Image          string           `json:"image"`
	FreeDelivery   bool             `json:"free_delivery"`
	Quantity       int              `json:"quantity"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	SaleSubtotal   decimal.Decimal  `json:"sale_subtotal"`
}

type View struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Service struct {
	store   Store
	catalog Catalog
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

func tooMany() error {
	return apperrors.Validation("Quantité trop élevée", map[string]string{"quantity": fmt.Sprintf("%d maximum", models.MaxLineQuantity)})
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation("ID produit invalide", map[string]string{"product_id": "uuid attendu"})
	}
	return id, nil
}

// Add ajoute quantity (1 si 0) d'une fleur active ; les ajouts successifs se cumulent.
// L'image principale est figée au premier ajout.
func (s *Service) Add(ctx context.Context, visitorID, productID string, quantity int) (models.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, apperrors.Validation("Quantité invalide", map[string]string{"quantity": "doit être positive"})
	}
	if quantity > models.MaxLineQuantity {
		return nil, tooMany()
	}
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	key := id.String()
	if entry, ok := cart[key]; ok {
		if quantity > models.MaxLineQuantity-entry.Quantity {
			return nil, tooMany()
		}
		entry.Quantity += quantity
		cart[key] = entry
	} else {
		cart[key] = models.CartEntry{Quantity: quantity, Image: product.MainImageURL()}
	}

	if err := s.store.Save(ctx, visitorID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Update augmente ou diminue la quantité d'une unité ; à zéro la ligne disparaît.
func (s *Service) Update(ctx context.Context, visitorID, productID, action string) (models.Cart, error) {
	if action != ActionIncrease && action != ActionDecrease {
		return nil, apperrors.Validation("Action invalide", map[string]string{"action": "increase ou decrease"})
	}
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	key := id.String()
	entry, ok := cart[key]
	if !ok {
		return nil, apperrors.NotFound("Article du panier", key)
	}

	if action == ActionIncrease {
		if entry.Quantity >= models.MaxLineQuantity {
			return nil, tooMany()
		}
		entry.Quantity++
		cart[key] = entry
	} else if entry.Quantity-1 <= 0 {
		delete(cart, key)
	} else {
		entry.Quantity--
		cart[key] = entry
	}

	if err := s.store.Save(ctx, visitorID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove retire une ligne ; retirer une ligne absente ne fait rien.
func (s *Service) Remove(ctx context.Context, visitorID, productID string) (models.Cart, error) {
	id, err := parseProductID(productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if _, ok := cart[id.String()]; !ok {
		return cart, nil
	}
	delete(cart, id.String())
	if err := s.store.Save(ctx, visitorID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, visitorID string) error {
	return s.store.Clear(ctx, visitorID)
}

// Entries renvoie le panier brut tel qu'il est stocké.
func (s *Service) Entries(ctx context.Context, visitorID string) (models.Cart, error) {
	return s.store.Load(ctx, visitorID)
}

// View résout le panier contre le catalogue courant. Les lignes dont la fleur
// n'existe plus ou est désactivée sont ignorées sans modifier le stockage.
func (s *Service) View(ctx context.Context, visitorID string) (View, error) {
	view := View{Items: []Line{}, Total: decimal.Zero}

	cart, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return view, err
	}
	if len(cart) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	products, err := s.catalog.FindActive(ctx, ids)
	if err != nil {
		return view, err
	}

	for id, entry := range cart {
		p, ok := products[id]
		if !ok || entry.Quantity <= 0 {
			continue
		}
		effective := pricing.EffectivePrice(p)
		line := Line{
			ProductID:      id,
			Name:           p.Name,
			Price:          p.Price,
			SalePrice:      p.SalePrice,
			EffectivePrice: effective,
			Category:       p.Category,
			Image:          entry.Image,
			FreeDelivery:   p.FreeDelivery,
			Quantity:       entry.Quantity,
			Subtotal:       pricing.Subtotal(p.Price, entry.Quantity),
			SaleSubtotal:   pricing.Subtotal(effective, entry.Quantity),
		}
		view.Items = append(view.Items, line)
		view.Total = view.Total.Add(line.SaleSubtotal)
		view.Count += entry.Quantity
	}

	sort.Slice(view.Items, func(i, j int) bool {
		if view.Items[i].Name != view.Items[j].Name {
			return view.Items[i].Name < view.Items[j].Name
		}
		return view.Items[i].ProductID < view.Items[j].ProductID
	})
	return view, nil
}
