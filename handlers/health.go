package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookable/utils"
)

// GetHealth reports the latest dependency health snapshot.
func GetHealth(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
