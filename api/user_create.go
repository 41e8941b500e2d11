package api

import (
	"net/http"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TeamID   *uint  `json:"teamId"`
}

func (a *API) UserCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	role := c.MustGet("role").(string)

	if role != model.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Admin access required",
			"requestID": requestID,
		})
		return
	}

	var data userBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Username == "" || data.Password == "" || data.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Username, password and role required",
			"requestID": requestID,
		})
		return
	}

	if data.Role != model.RoleAdmin && data.Role != model.RoleTim {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid role",
			"requestID": requestID,
		})
		return
	}

	err := a.DB.Where("username = ?", data.Username).First(&model.User{}).Error
	if err == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Username already exists",
			"requestID": requestID,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if username exists", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := model.User{
		Username:     data.Username,
		PasswordHash: hash,
		Role:         data.Role,
		TeamID:       data.TeamID,
	}

	if err := a.DB.Create(&user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
