package server

import (
	"errors"
	"net/http"

	billingdomain "github.com/Markinhos/antaeus/internal/billing/domain"
	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

// APIError is the wire form of a handled error.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrNotFound           = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrServiceUnavailable = &APIError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
	ErrTooManyRequests    = &APIError{Status: http.StatusTooManyRequests, Code: "too_many_requests", Message: "too many requests"}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request"}
}

// AbortWithError maps domain sentinels onto HTTP statuses.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, customerdomain.ErrCustomerNotFound):
		status = http.StatusNotFound
		code = err.Error()
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, customerdomain.ErrInvalidCustomerID):
		status = http.StatusBadRequest
		code = err.Error()
	case errors.Is(err, billingdomain.ErrRunInProgress):
		status = http.StatusConflict
		code = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code}})
}
