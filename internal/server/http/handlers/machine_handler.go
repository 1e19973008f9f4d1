package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vendingmachine/internal/app"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/server/http/dto"
)

// MachineHandler serves the customer purchase endpoints.
type MachineHandler struct {
	facade MachineFacade
}

// NewMachineHandler constructs MachineHandler.
func NewMachineHandler(facade MachineFacade) *MachineHandler {
	return &MachineHandler{facade: facade}
}

// ChooseProduct handles GET /v1/machine/:machine_id/choose_product/:product_code.
func (h *MachineHandler) ChooseProduct(c *gin.Context) {
	machineID := c.Param("machine_id")
	if err := model.ValidateID(machineID); err != nil {
		abortWithError(c, err)
		return
	}

	chosen, err := h.facade.ChooseProduct(c.Request.Context(), machineID, c.Param("product_code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ChooseProductResponse{
		ProductID:    chosen.ProductID,
		ProductPrice: chosen.Price,
		ProductName:  chosen.Name,
	})
}

// PayForProduct handles POST /v1/machine/:machine_id/pay_for_product.
// Every failure after the body is decoded echoes the inserted coins back.
func (h *MachineHandler) PayForProduct(c *gin.Context) {
	var req dto.PayForProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	echo := &req.Coins

	machineID := c.Param("machine_id")
	if err := model.ValidateID(machineID); err != nil {
		abortWithErrorData(c, err, echo)
		return
	}
	if err := model.ValidateID(req.ProductID); err != nil {
		abortWithErrorData(c, err, echo)
		return
	}
	if !req.Coins.NonNegative() {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{
			Message: "coin quantities can not be negative",
			Data:    echo,
		}})
		return
	}

	receipt, err := h.facade.PayForProduct(c.Request.Context(), app.PurchaseRequest{
		MachineID:   machineID,
		ProductID:   req.ProductID,
		Quantity:    req.ProductQty,
		PaymentType: req.PaymentType,
		Coins:       req.Coins.Model(),
	})
	if err != nil {
		var purchaseErr *app.PurchaseError
		if errors.As(err, &purchaseErr) {
			returned := dto.NewCoins(purchaseErr.Coins)
			echo = &returned
		}
		abortWithErrorData(c, err, echo)
		return
	}

	change := dto.NewCoins(receipt.Change)
	c.JSON(http.StatusCreated, dto.PayForProductResponse{
		Coin01Qty:  change.Coin01,
		Coin05Qty:  change.Coin05,
		Coin10Qty:  change.Coin10,
		Coin25Qty:  change.Coin25,
		Coin50Qty:  change.Coin50,
		Coin100Qty: change.Coin100,
		AmountPaid: receipt.AmountPaid,
	})
}
