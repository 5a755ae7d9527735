package payement

import (
	"log"
	"net/http"
	"strings"

	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	Gateway services.PaymentGateway
}

func NewPaymentHandler(gateway services.PaymentGateway) *PaymentHandler {
	return &PaymentHandler{Gateway: gateway}
}

func (h *PaymentHandler) disabled(c *gin.Context) bool {
	if h.Gateway != nil {
		return false
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrPaymentsDisabled.Error()})
	return true
}

//
// 💳 POST /api/payments/intent
//
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	if h.disabled(c) {
		return
	}
	var input struct {
		Amount   decimal.Decimal   `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Montant invalide")
		return
	}

	intent, err := h.Gateway.CreateIntent(c.Request.Context(), input.Amount, input.Metadata)
	if err != nil {
		respond.Error(c, err)
		return
	}
	log.Printf("💳 Paiement créé: %s (%d %s)", intent.ID, intent.Amount, intent.Currency)
	c.JSON(http.StatusOK, gin.H{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.ID,
	})
}

//
// 💳 POST /api/payments/verify
//
func (h *PaymentHandler) VerifyIntent(c *gin.Context) {
	if h.disabled(c) {
		return
	}
	var input struct {
		PaymentIntentID string `json:"payment_intent_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Données invalides")
		return
	}

	intent, err := h.Gateway.VerifyIntent(c.Request.Context(), strings.TrimSpace(input.PaymentIntentID))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_intent_id": intent.ID,
		"status":            intent.Status,
		"amount":            intent.Amount,
		"currency":          intent.Currency,
	})
}
