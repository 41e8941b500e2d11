package api

import (
	"fmt"
	"net/http"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TeamDelete refuses to remove a team that still owns users or files,
// those have to be reassigned or deleted first
func (a *API) TeamDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	role := c.MustGet("role").(string)

	if role != model.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Admin access required",
			"requestID": requestID,
		})
		return
	}

	teamID := c.Param("id")

	err := a.DB.Where("id = ?", teamID).First(&model.Team{}).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Team not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if team exists", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var userCount int64
	if err := a.DB.Model(model.User{}).Where("team_id = ?", teamID).Count(&userCount).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count team members", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if userCount > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     fmt.Sprintf("Cannot delete team with %d member(s)", userCount),
			"requestID": requestID,
		})
		return
	}

	var fileCount int64
	if err := a.DB.Model(model.File{}).Where("team_id = ?", teamID).Count(&fileCount).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count team files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if fileCount > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     fmt.Sprintf("Cannot delete team with %d file(s)", fileCount),
			"requestID": requestID,
		})
		return
	}

	err = a.DB.Where("id = ?", teamID).Delete(model.Team{}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete team", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
