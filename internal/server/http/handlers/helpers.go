package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/server/http/dto"
	"github.com/polkiloo/vendingmachine/internal/server/http/middleware"
)

// CurrentOwnerID extracts the authenticated owner identifier from context.
func CurrentOwnerID(c *gin.Context) string {
	val, ok := c.Get(middleware.OwnerIDContextKey)
	if !ok {
		return ""
	}
	id, _ := val.(string)
	return id
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch domainErrors.KindOf(err) {
	case domainErrors.KindNotFound:
		return http.StatusNotFound
	case domainErrors.KindPreconditionFailed, domainErrors.KindPaymentRejected:
		return http.StatusBadRequest
	case domainErrors.KindChangeInfeasible:
		return http.StatusConflict
	case domainErrors.KindUnauthorized:
		return http.StatusUnauthorized
	case domainErrors.KindForbidden:
		return http.StatusForbidden
	case domainErrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var errInternal = errors.New("internal server error")

func abortWithError(c *gin.Context, err error) {
	abortWithErrorData(c, err, nil)
}

// abortWithErrorData writes the error envelope. Messages of unclassified errors are not exposed.
func abortWithErrorData(c *gin.Context, err error, data *dto.Coins) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		err = errInternal
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: dto.ErrorBody{Message: err.Error(), Data: data}})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: dto.ErrorBody{Message: message}})
}
