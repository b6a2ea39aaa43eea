package handler

import (
	commerceapp "github.com/backoffice/backend/internal/application/commerce"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommerceHandler records orders, purchases and marketing spend
type CommerceHandler struct {
	BaseHandler
	service *commerceapp.CommerceService
}

// NewCommerceHandler creates a new CommerceHandler
func NewCommerceHandler(service *commerceapp.CommerceService) *CommerceHandler {
	return &CommerceHandler{service: service}
}

// PlaceOrder godoc
// @Summary      Record a customer order
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Router       /commerce/orders [post]
func (h *CommerceHandler) PlaceOrder(c *gin.Context) {
	var req commerceapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// UpdateOrderStatus godoc
// @Summary      Move an order to a new status
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Router       /commerce/orders/{id}/status [patch]
func (h *CommerceHandler) UpdateOrderStatus(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}
	var req commerceapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RecordPurchase godoc
// @Summary      Record a supplier purchase
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Router       /commerce/purchases [post]
func (h *CommerceHandler) RecordPurchase(c *gin.Context) {
	var req commerceapp.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	purchase, err := h.service.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// RecordMarketingExpense godoc
// @Summary      Record marketing spend
// @Tags         commerce
// @Accept       json
// @Produce      json
// @Router       /commerce/marketing-expenses [post]
func (h *CommerceHandler) RecordMarketingExpense(c *gin.Context) {
	var req commerceapp.RecordMarketingExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	expense, err := h.service.RecordMarketingExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}
