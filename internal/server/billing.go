package server

import (
	"net/http"
	"time"

	invoicedomain "github.com/Markinhos/antaeus/internal/invoice/domain"
	"github.com/gin-gonic/gin"
)

// ChargeInvoices triggers the monthly cycle over all PENDING invoices.
func (s *Server) ChargeInvoices(c *gin.Context) {
	if !s.triggerRate.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	report, err := s.billingSvc.BillClients(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.summary.Delete(summaryCacheKey)
	c.JSON(http.StatusOK, gin.H{"data": report})
}

// RetryInvoices triggers the retry sweep over all RETRYABLE_FAILED invoices.
func (s *Server) RetryInvoices(c *gin.Context) {
	if !s.triggerRate.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	report, err := s.billingSvc.RetryFailedInvoices(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.summary.Delete(summaryCacheKey)
	c.JSON(http.StatusOK, gin.H{"data": report})
}

const summaryCacheKey = "status_summary"

type statusSummary struct {
	Pending         int64 `json:"pending"`
	Paid            int64 `json:"paid"`
	RetryableFailed int64 `json:"retryable_failed"`
	Failed          int64 `json:"failed"`
}

// GetBillingSummary reports invoice counts by status. The result is cached
// briefly; a manual trigger invalidates it.
func (s *Server) GetBillingSummary(c *gin.Context) {
	if cached, ok := s.summary.Get(summaryCacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"data": cached})
		return
	}

	var rows []struct {
		Status invoicedomain.InvoiceStatus
		Count  int64
	}
	err := s.db.WithContext(c.Request.Context()).Raw(
		`SELECT status, COUNT(1) AS count FROM invoices GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var summary statusSummary
	for _, row := range rows {
		switch row.Status {
		case invoicedomain.InvoiceStatusPending:
			summary.Pending = row.Count
		case invoicedomain.InvoiceStatusPaid:
			summary.Paid = row.Count
		case invoicedomain.InvoiceStatusRetryableFailed:
			summary.RetryableFailed = row.Count
		case invoicedomain.InvoiceStatusFailed:
			summary.Failed = row.Count
		}
	}

	s.summary.Set(summaryCacheKey, summary, 10*time.Second)
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
