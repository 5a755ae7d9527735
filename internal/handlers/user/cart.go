package user

import (
	"net/http"

	"fleur_back_end/internal/cart"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	Carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{Carts: carts}
}

// respondView renvoie toujours le panier à jour, avec prix et totaux recalculés.
func (h *CartHandler) respondView(c *gin.Context, status int) {
	view, err := h.Carts.View(c.Request.Context(), middleware.VisitorID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(status, view)
}

//
// 🟢 GET /api/cart
//
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondView(c, http.StatusOK)
}

//
// 🟢 POST /api/cart/add
//
func (h *CartHandler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Données invalides")
		return
	}

	if _, err := h.Carts.Add(c.Request.Context(), middleware.VisitorID(c), input.ProductID, input.Quantity); err != nil {
		respond.Error(c, err)
		return
	}
	h.respondView(c, http.StatusOK)
}

//
// 🟢 PUT /api/cart/:product_id  {"action": "increase" | "decrease"}
//
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Action requise")
		return
	}

	if _, err := h.Carts.Update(c.Request.Context(), middleware.VisitorID(c), c.Param("product_id"), input.Action); err != nil {
		respond.Error(c, err)
		return
	}
	h.respondView(c, http.StatusOK)
}

//
// 🔴 DELETE /api/cart/:product_id
//
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	if _, err := h.Carts.Remove(c.Request.Context(), middleware.VisitorID(c), c.Param("product_id")); err != nil {
		respond.Error(c, err)
		return
	}
	h.respondView(c, http.StatusOK)
}

//
// 🔴 DELETE /api/cart
//
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.Carts.Clear(c.Request.Context(), middleware.VisitorID(c)); err != nil {
		respond.Error(c, err)
		return
	}
	h.respondView(c, http.StatusOK)
}
