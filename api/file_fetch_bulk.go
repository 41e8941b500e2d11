package api

import (
	"net/http"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileFetchBulk returns the newest files visible to the caller. Admins
// see everything, everyone else only their own team. Clients poll this
// to observe processing status.
func (a *API) FileFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	teamID := c.MustGet("teamID").(uint)
	role := c.MustGet("role").(string)

	q := a.DB.Model(model.File{})
	if role != model.RoleAdmin {
		q = q.Where("team_id = ?", teamID)
	}

	var files []model.File

	err := q.
		Order("created_at DESC").
		Limit(100).
		Find(&files).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
	})
}
