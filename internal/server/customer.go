package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/Markinhos/antaeus/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// ListCustomers returns the customer directory.
func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.customers.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

// GetCustomer returns one customer by id.
func (s *Server) GetCustomer(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, customerdomain.ErrInvalidCustomerID)
		return
	}

	customer, err := s.customers.FetchByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customer})
}
