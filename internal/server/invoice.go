package server

import (
	"net/http"
	"strings"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// ListInvoices returns all invoices, optionally filtered by status.
func (s *Server) ListInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	var (
		invoices []invoicedomain.Invoice
		err      error
	)
	if status != "" {
		invoices, err = s.invoices.FetchByStatus(ctx, invoicedomain.InvoiceStatus(status), 0, 0)
	} else {
		invoices, err = s.invoices.List(ctx)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

// GetInvoice returns one invoice by id.
func (s *Server) GetInvoice(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidInvoiceID)
		return
	}

	invoice, err := s.invoices.FetchByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}
