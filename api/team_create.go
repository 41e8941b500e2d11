package api

import (
	"net/http"
	"strings"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type teamBody struct {
	Name string `json:"name"`
}

func (a *API) TeamCreate(c *gin.Context) {
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

	err := a.DB.Where("name = ?", name).First(&model.Team{}).Error
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

		zap.L().Error("Failed to check if team exists", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	team := model.Team{Name: name}

	if err := a.DB.Create(&team).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create team", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"team": team,
	})
}
