package payement

import (
	"net/http"

	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/handlers/respond"
	"fleur_back_end/internal/orders"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Catalog *catalog.Repository
	Orders  *orders.Service
}

func NewDashboardHandler(repo *catalog.Repository, svc *orders.Service) *DashboardHandler {
	return &DashboardHandler{Catalog: repo, Orders: svc}
}

// GetDashboard retourne toutes les fleurs, toutes les commandes et leurs statistiques.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.Catalog.All(ctx)
	if err != nil {
		respond.Error(c, err)
		return
	}
	list, err := h.Orders.List(ctx, "")
	if err != nil {
		respond.Error(c, err)
		return
	}
	stats, err := h.Orders.Stats(ctx)
	if err != nil {
		respond.Error(c, err)
		return
	}

	active := 0
	for _, p := range products {
		if p.IsActive {
			active++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"orders":   list,
		"stats": gin.H{
			"total_products":   len(products),
			"active_products":  active,
			"total_orders":     stats.Count,
			"orders_by_status": stats.ByStatus,
			"revenue":          stats.Revenue,
		},
	})
}
