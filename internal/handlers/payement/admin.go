package payement

import (
	"net/http"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminListOrders liste les commandes, ?status= pour filtrer.
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	list, err := h.Orders.List(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		statusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	h.GetOrder(c)
}

// UpdateOrderStatus change le statut d'une commande.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.BadRequest(c, "ID commande invalide")
		return
	}
	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Statut requis")
		return
	}

	order, err := h.Orders.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		statusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "order": order})
}

// statusError ajoute la liste des statuts valides aux erreurs de validation.
func statusError(c *gin.Context, err error) {
	if apperrors.Status(err) != http.StatusBadRequest {
		respond.Error(c, err)
		return
	}
	body := gin.H(apperrors.Body(err))
	body["valid_statuses"] = models.OrderStatuses
	c.JSON(http.StatusBadRequest, body)
}
