package payement

import (
	"net/http"
	"strconv"

	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/middleware"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/orders"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	Orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{Orders: svc}
}

// =========================
// 🟢 CHECKOUT
// =========================

// Checkout crée une commande depuis le panier du visiteur, ou pour une seule
// fleur avec ?buy_now=<id>&quantity=N sans toucher au panier.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var input orders.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Données invalides")
		return
	}
	ctx := c.Request.Context()

	if productID := c.Query("buy_now"); productID != "" {
		quantity := 1
		if raw := c.Query("quantity"); raw != "" {
			q, err := strconv.Atoi(raw)
			if err != nil || q <= 0 || q > models.MaxLineQuantity {
				respond.BadRequest(c, "Quantité invalide")
				return
			}
			quantity = q
		}

		order, err := h.Orders.BuyNow(ctx, input, orders.LineRequest{ProductID: productID, Quantity: quantity})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Commande confirmée", "order": order})
		return
	}

	order, err := h.Orders.Checkout(ctx, middleware.VisitorID(c), input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Commande confirmée", "order": order})
}

//
// 🟢 GET /api/orders/:id
//
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	order, err := h.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
