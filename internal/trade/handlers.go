package trade

import (
	"net/http"

	"bdf-gateway/internal/auth"
	"bdf-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HandleMessage1 accepts a Message1 from an authenticated client and acknowledges it.
// Processing of the trade itself is not implemented yet.
func HandleMessage1(c *gin.Context, claims auth.Claims) {
	var msg Message1
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	logger.FromGin(c).Info("message1 received",
		"client_id", claims.ClientID,
		"org", claims.Org,
		"trade_id", msg.TradeID,
	)
	c.JSON(http.StatusOK, ackOK)
}
