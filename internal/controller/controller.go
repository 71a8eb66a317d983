package controller

import (
	"errors"
	"net/http"

	"orders-query-service/internal/dto"
	"orders-query-service/internal/model"
	"orders-query-service/internal/service"

	"github.com/gin-gonic/gin"
)

// Mapeo 1:1 de cada error de negocio a su código HTTP.
func statusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrOrderInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusCode(err), gin.H{"error": err.Error()})
}

type StatusController struct {
	Service *service.OrderStatusService
}

func NewStatusController(s *service.OrderStatusService) *StatusController {
	return &StatusController{Service: s}
}

// POST /order-statuses
func (ctl *StatusController) Create(c *gin.Context) {
	var req dto.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.Create(c.Request.Context(), model.OrderStatus{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.IsActive(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /order-statuses
// El total que devuelve es el tamaño de la página, no el total real.
func (ctl *StatusController) List(c *gin.Context) {
	var q dto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_statuses": res,
		"total":          len(res),
	})
}

// GET /order-statuses/search?q=...
func (ctl *StatusController) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.Search(c.Request.Context(), q.Term, q.Skip, q.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": res,
		"total":   len(res),
	})
}

// GET /order-statuses/:id
func (ctl *StatusController) GetByID(c *gin.Context) {
	res, err := ctl.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /order-statuses/:id
func (ctl *StatusController) Update(c *gin.Context) {
	var req dto.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := ctl.Service.Update(c.Request.Context(), c.Param("id"), model.OrderStatus{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.IsActive(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /order-statuses/:id
func (ctl *StatusController) Delete(c *gin.Context) {
	res, err := ctl.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":              "Order status deleted successfully",
		"deleted_order_status": res,
	})
}

// GET /order-statuses/:id/validate
func (ctl *StatusController) Validate(c *gin.Context) {
	res, err := ctl.Service.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
