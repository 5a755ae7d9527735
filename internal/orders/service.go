// Package orders valide le panier, fige les prix et crée les commandes.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/pricing"
	"fleur_back_end/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerInput regroupe les coordonnées saisies au checkout.
type CustomerInput struct {
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	DeliveryCity    string               `json:"delivery_city"`
	DeliveryAddress string               `json:"delivery_address"`
	DeliveryNotes   string               `json:"delivery_notes"`
	CardMessage     string               `json:"card_message"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	PaymentIntentID string               `json:"payment_intent_id"`
}

// LineRequest est une ligne à commander : une fleur et une quantité.
type LineRequest struct {
	ProductID string
	Quantity  int
}

// CartReader donne accès au panier de session.
type CartReader interface {
	Entries(ctx context.Context, visitorID string) (models.Cart, error)
	Clear(ctx context.Context, visitorID string) error
}

type Service struct {
	db       *gorm.DB
	catalog  *catalog.Repository
	carts    CartReader
	payments services.PaymentGateway
	notifier *Notifier
	currency string
}

type Options struct {
	Payments services.PaymentGateway
	Notifier *Notifier
	Currency string
}

func NewService(db *gorm.DB, repo *catalog.Repository, carts CartReader, opts Options) *Service {
	currency := strings.ToUpper(opts.Currency)
	if currency == "" {
		currency = "AMD"
	}
	return &Service{
		db:       db,
		catalog:  repo,
		carts:    carts,
		payments: opts.Payments,
		notifier: opts.Notifier,
		currency: currency,
	}
}

func (in *CustomerInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.DeliveryCity = strings.TrimSpace(in.DeliveryCity)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.PaymentIntentID = strings.TrimSpace(in.PaymentIntentID)
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCash
	}
}

func (in CustomerInput) validate() error {
	fields := map[string]string{}
	if in.CustomerName == "" {
		fields["customer_name"] = "requis"
	}
	if in.CustomerPhone == "" {
		fields["customer_phone"] = "requis"
	}
	if in.DeliveryCity == "" {
		fields["delivery_city"] = "requis"
	}
	if in.DeliveryAddress == "" {
		fields["delivery_address"] = "requis"
	}
	if in.CustomerEmail != "" && !validEmail(in.CustomerEmail) {
		fields["customer_email"] = "adresse invalide"
	}
	if !in.PaymentMethod.Valid() {
		fields["payment_method"] = "cash ou card"
	}
	if in.PaymentMethod == models.PaymentCard && in.PaymentIntentID == "" {
		fields["payment_intent_id"] = "requis pour un paiement par carte"
	}
	if len(fields) > 0 {
		return apperrors.Validation("Informations de commande invalides", fields)
	}
	return nil
}

// Checkout commande tout le panier du visiteur puis le vide.
func (s *Service) Checkout(ctx context.Context, visitorID string, in CustomerInput) (models.Order, error) {
	cart, err := s.carts.Entries(ctx, visitorID)
	if err != nil {
		return models.Order{}, err
	}
	lines := make([]LineRequest, 0, len(cart))
	for id, entry := range cart {
		lines = append(lines, LineRequest{ProductID: id, Quantity: entry.Quantity})
	}

	order, err := s.place(ctx, in, lines)
	if err != nil {
		return order, err
	}

	if err := s.carts.Clear(ctx, visitorID); err != nil {
		log.Printf("⚠️ Commande %s créée mais panier non vidé: %v", order.ID, err)
	}
	return order, nil
}

// BuyNow commande une seule fleur sans lire ni vider le panier stocké.
func (s *Service) BuyNow(ctx context.Context, in CustomerInput, line LineRequest) (models.Order, error) {
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	return s.place(ctx, in, []LineRequest{line})
}

func (s *Service) place(ctx context.Context, in CustomerInput, lines []LineRequest) (models.Order, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return models.Order{}, err
	}
	if len(lines) == 0 {
		return models.Order{}, apperrors.Validation("Panier vide", nil)
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return models.Order{}, apperrors.Validation("Quantité invalide", map[string]string{"quantity": "doit être positive"})
		}
		if l.Quantity > models.MaxLineQuantity {
			return models.Order{}, apperrors.Validation("Quantité trop élevée", map[string]string{"quantity": fmt.Sprintf("%d maximum", models.MaxLineQuantity)})
		}
		if _, err := uuid.Parse(l.ProductID); err != nil {
			return models.Order{}, apperrors.Validation("ID produit invalide", map[string]string{"product_id": l.ProductID})
		}
	}

	var intent *services.Intent
	if in.PaymentMethod == models.PaymentCard {
		verified, err := s.verifyCardPayment(ctx, in.PaymentIntentID)
		if err != nil {
			return models.Order{}, err
		}
		intent = &verified
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := s.catalog.WithTx(tx).FindActive(ctx, ids)
		if err != nil {
			return err
		}

		var stale []string
		for _, l := range lines {
			if _, ok := products[canonical(l.ProductID)]; !ok {
				stale = append(stale, l.ProductID)
			}
		}
		if len(stale) > 0 {
			return apperrors.StaleReference(stale...)
		}

		items := make([]models.OrderItem, 0, len(lines))
		priced := make([]pricing.Line, 0, len(lines))
		for _, l := range lines {
			p := products[canonical(l.ProductID)]
			pid := p.ID
			price := pricing.EffectivePrice(p)
			items = append(items, models.OrderItem{
				ProductID:       &pid,
				ProductName:     p.Name,
				ProductImageURL: p.MainImageURL(),
				UnitPrice:       price,
				Quantity:        l.Quantity,
			})
			priced = append(priced, pricing.Line{UnitPrice: price, Quantity: l.Quantity})
		}
		total := pricing.Total(priced)

		if intent != nil && intent.Amount < pricing.MinorUnits(total) {
			return apperrors.Validation("Montant payé insuffisant", map[string]string{"payment_intent_id": "montant inférieur au total"})
		}

		if intent != nil {
			var used int64
			if err := tx.Model(&models.Order{}).Where("payment_intent_id = ?", intent.ID).Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return intentAlreadyUsed()
			}
		}

		order = models.Order{
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			CustomerPhone:   in.CustomerPhone,
			DeliveryCity:    in.DeliveryCity,
			DeliveryAddress: in.DeliveryAddress,
			DeliveryNotes:   in.DeliveryNotes,
			CardMessage:     in.CardMessage,
			PaymentMethod:   in.PaymentMethod,
			TotalAmount:     total,
			Currency:        s.currency,
			Status:          models.StatusPending,
			Items:           items,
		}
		if intent != nil {
			id := intent.ID
			order.PaymentIntentID = &id
			order.PaymentStatus = intent.Status
		}
		err = tx.Create(&order).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return intentAlreadyUsed()
		}
		return err
	})
	if err != nil {
		return models.Order{}, err
	}

	log.Printf("🛒 Commande %s créée (%s %s, %d lignes)", order.ID, order.TotalAmount.StringFixed(2), order.Currency, len(order.Items))
	s.notifier.OrderPlaced(order)
	return order, nil
}

func (s *Service) verifyCardPayment(ctx context.Context, intentID string) (services.Intent, error) {
	if s.payments == nil {
		return services.Intent{}, apperrors.Collaborator("paiement", services.ErrPaymentsDisabled)
	}
	intent, err := s.payments.VerifyIntent(ctx, intentID)
	if err != nil {
		return services.Intent{}, err
	}
	if intent.Status != services.StatusSucceeded {
		return services.Intent{}, apperrors.Validation("Paiement non confirmé", map[string]string{"payment_intent_id": "statut " + intent.Status})
	}
	return intent, nil
}

// intentAlreadyUsed signale un paiement déjà rattaché à une autre commande.
// validEmail refuse aussi les formes "Nom <adresse>".
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func intentAlreadyUsed() error {
	return apperrors.Validation("Paiement déjà utilisé", map[string]string{"payment_intent_id": "déjà rattaché à une commande"})
}

func canonical(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

// Get renvoie une commande avec ses lignes.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, apperrors.NotFound("Commande", id.String())
	}
	return order, err
}

// List renvoie les commandes, les plus récentes d'abord, filtrées par statut si précisé.
func (s *Service) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, invalidStatus(status)
	}
	q := s.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Order
	err := q.Find(&list).Error
	return list, err
}

// UpdateStatus change le statut d'une commande ; c'est le seul champ modifiable.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, invalidStatus(status)
	}
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Order{}, apperrors.NotFound("Commande", id.String())
	}
	log.Printf("📦 Commande %s → %s", id, status)
	return s.Get(ctx, id)
}

func invalidStatus(status models.OrderStatus) error {
	return apperrors.Validation("Statut invalide", map[string]string{"status": string(status)})
}

// Stats résume les commandes pour le tableau de bord.
type Stats struct {
	Count    int64                        `json:"count"`
	ByStatus map[models.OrderStatus]int64 `json:"by_status"`
	Revenue  decimal.Decimal              `json:"revenue"`
}

// Stats compte les commandes par statut ; le chiffre d'affaires exclut les commandes annulées.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: map[models.OrderStatus]int64{}, Revenue: decimal.Zero}
	for _, st := range models.OrderStatuses {
		stats.ByStatus[st] = 0
	}

	var orders []models.Order
	if err := s.db.WithContext(ctx).Select("status", "total_amount").Find(&orders).Error; err != nil {
		return stats, err
	}
	for _, o := range orders {
		stats.Count++
		stats.ByStatus[o.Status]++
		if o.Status != models.StatusCancelled {
			stats.Revenue = stats.Revenue.Add(o.TotalAmount)
		}
	}
	return stats, nil
}
