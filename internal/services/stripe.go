package services

import (
	"context"
	"errors"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// MinIntentAmount est le montant minimum accepté, en centimes.
const MinIntentAmount = 250

// StatusSucceeded est le statut d'un paiement encaissé.
const StatusSucceeded = "succeeded"

// ErrPaymentsDisabled est renvoyée quand aucune clé Stripe n'est configurée.
var ErrPaymentsDisabled = errors.New("paiement par carte non configuré")

type Intent struct {
	ID           string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentGateway crée et vérifie des intentions de paiement.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (Intent, error)
	VerifyIntent(ctx context.Context, id string) (Intent, error)
}

type StripeGateway struct {
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{currency: currency}
}

// CheckIntentAmount convertit amount en centimes et vérifie le minimum.
func CheckIntentAmount(amount decimal.Decimal) (int64, error) {
	minor := pricing.MinorUnits(amount)
	if minor < MinIntentAmount {
		return 0, apperrors.Validation("Montant trop faible", map[string]string{"amount": "minimum 250 centimes"})
	}
	return minor, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, metadata map[string]string) (Intent, error) {
	minor, err := CheckIntentAmount(amount)
	if err != nil {
		return Intent{}, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minor),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return Intent{}, apperrors.Collaborator("stripe", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) VerifyIntent(ctx context.Context, id string) (Intent, error) {
	if id == "" {
		return Intent{}, apperrors.Validation("payment_intent_id requis", map[string]string{"payment_intent_id": "requis"})
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return Intent{}, apperrors.Collaborator("stripe", err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
