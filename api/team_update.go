package api

import (
	"net/http"
	"strings"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) TeamUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	role := c.MustGet("role").(string)

	if role != model.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Admin access required",
			"requestID": requestID,
		})
		return
	}

	var data teamBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Team name is required",
			"requestID": requestID,
		})
		return
	}

	teamID := c.Param("id")

	var team model.Team

	err := a.DB.Where("id = ?", teamID).First(&team).Error
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

	err = a.DB.Where("name = ? AND id != ?", name, team.ID).First(&model.Team{}).Error
	if err == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Team name already exists",
			"requestID": requestID,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check for team name conflicts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	team.Name = name

	if err := a.DB.Save(&team).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update team", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"team": team,
	})
}
