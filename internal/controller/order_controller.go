package controller

import (
	"net/http"
	"slices"

	"orders-query-service/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

type ordersPageQuery struct {
	Skip  int64 `form:"skip,default=0" binding:"gte=0"`
	Limit int64 `form:"limit,default=50" binding:"gte=0"`
}

// GET /orders/mine — órdenes del usuario autenticado
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	var q ordersPageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	orders, err := ctl.Service.GetByUser(c.Request.Context(), userID, q.Skip, q.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:orderId — dueño o admin
func (ctl *OrderController) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	actorID := c.GetString("userID")
	isAdmin := slices.Contains(c.GetStringSlice("userPermissions"), "admin")

	// Primero el dueño, para no filtrar datos de otro usuario.
	owner, err := ctl.Service.Owner(c.Request.Context(), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !isAdmin && owner != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another user's order"})
		return
	}

	order, err := ctl.Service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /orders/in-progress — orden en curso del usuario, si la hay
func (ctl *OrderController) GetMyInProgress(c *gin.Context) {
	userID := c.GetString("userID")
	order, err := ctl.Service.ExistingInProgress(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no in-progress order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GET /admin/orders - admin only
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	var q ordersPageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, err := ctl.Service.GetAll(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /admin/reports/sales-by-status
func (ctl *OrderController) SalesByStatus(c *gin.Context) {
	rows, err := ctl.Service.TotalSalesByStatus(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /admin/reports/avg-sales-by-user
func (ctl *OrderController) AvgSalesByUser(c *gin.Context) {
	rows, err := ctl.Service.AvgSalesByUser(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /admin/reports/orders-by-status
func (ctl *OrderController) OrdersByStatus(c *gin.Context) {
	rows, err := ctl.Service.CountByStatus(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
