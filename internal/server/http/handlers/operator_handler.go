package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/server/http/dto"
	"github.com/polkiloo/vendingmachine/internal/server/http/middleware"
)

// OperatorHandler serves registration, login and machine management for owners.
type OperatorHandler struct {
	facade OperatorFacade
}

// NewOperatorHandler creates OperatorHandler instance.
func NewOperatorHandler(facade OperatorFacade) *OperatorHandler {
	return &OperatorHandler{facade: facade}
}

// Register handles POST /v1/operator/register.
func (h *OperatorHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			badRequest(c, err.Error())
			return
		}
		abortWithError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Login handles POST /v1/operator/login.
func (h *OperatorHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Machine handles GET /v1/operator/machines/:machine_id.
func (h *OperatorHandler) Machine(c *gin.Context) {
	machineID := c.Param("machine_id")
	if err := model.ValidateID(machineID); err != nil {
		abortWithError(c, err)
		return
	}

	machine, err := h.facade.Machine(c.Request.Context(), CurrentOwnerID(c), machineID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, machineResponse(machine))
}

// Order handles GET /v1/operator/machines/:machine_id/orders/:order_id.
func (h *OperatorHandler) Order(c *gin.Context) {
	h.withOrder(c, h.facade.Order)
}

// DeliverOrder handles POST /v1/operator/machines/:machine_id/orders/:order_id/deliver.
func (h *OperatorHandler) DeliverOrder(c *gin.Context) {
	h.withOrder(c, h.facade.DeliverOrder)
}

// CancelOrder handles POST /v1/operator/machines/:machine_id/orders/:order_id/cancel.
func (h *OperatorHandler) CancelOrder(c *gin.Context) {
	h.withOrder(c, h.facade.CancelOrder)
}

type orderAction func(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error)

func (h *OperatorHandler) withOrder(c *gin.Context, action orderAction) {
	machineID, orderID := c.Param("machine_id"), c.Param("order_id")
	for _, id := range []string{machineID, orderID} {
		if err := model.ValidateID(id); err != nil {
			abortWithError(c, err)
			return
		}
	}

	createdAt, err := time.Parse(time.RFC3339, c.Query("created_at"))
	if err != nil {
		badRequest(c, "created_at must be an RFC3339 timestamp")
		return
	}

	order, err := action(c.Request.Context(), CurrentOwnerID(c), machineID, orderID, createdAt)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(order))
}

func machineResponse(m *model.Machine) dto.MachineResponse {
	products := make([]dto.ProductResponse, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, dto.ProductResponse{
			ID:        p.ID,
			Name:      p.Name,
			Code:      p.Code,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
		})
	}
	return dto.MachineResponse{
		ID:       m.ID,
		OwnerID:  m.OwnerID,
		State:    string(m.State),
		Coins:    dto.NewCoins(m.Coins),
		Products: products,
	}
}

func orderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			ProductCode: item.Product.Code,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return dto.OrderResponse{
		ID:          o.ID,
		MachineID:   o.MachineID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
