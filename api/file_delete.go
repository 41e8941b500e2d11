package api

import (
	"net/http"

	"sigantara/file-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileDelete removes the record, its processing logs and any objects
// still in the store. Admins may delete any file, everyone else only
// their own uploads.
func (a *API) FileDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)
	role := c.MustGet("role").(string)

	fileID := c.Param("id")

	var file model.File

	err := a.DB.Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if file exists", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if role != model.RoleAdmin && file.UserID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "You can only delete your own files",
			"requestID": requestID,
		})
		return
	}

	ctx := c.Request.Context()

	if file.FinalPath != nil {
		if err := a.Store.Delete(ctx, *file.FinalPath); err != nil {
			zap.L().Warn("Failed to delete final object", zap.String("key", *file.FinalPath), zap.Error(err))
		}
	}

	if file.OriginalPath != "" {
		if err := a.Store.Delete(ctx, file.OriginalPath); err != nil {
			zap.L().Warn("Failed to delete temp object", zap.String("key", file.OriginalPath), zap.Error(err))
		}
	}

	err = a.DB.Where("file_id = ?", file.ID).Delete(model.ProcessingLog{}).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete processing logs", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Delete(&file).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete file record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
