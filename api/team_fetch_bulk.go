package api

import (
	"net/http"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) TeamFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var teams []model.Team

	err := a.DB.
		Order("name").
		Find(&teams).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch teams", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
	})
}
