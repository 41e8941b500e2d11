package api

import (
	"fmt"
	"net/http"

	"sigantara/file-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type presignBody struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
}

// FilePresign mints a time-boxed direct-upload URL for a temp object
// path. Nothing is persisted here, the call is purely advisory and the
// returned fileId is only a correlation token.
func (a *API) FilePresign(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	teamID := c.MustGet("teamID").(uint)

	var data presignBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PresignRequest(data.Filename, data.MimeType); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// Admins without a team upload into the default team
	if teamID == 0 {
		teamID = 1
	}

	fileID := uuid.NewString()
	tempPath := fmt.Sprintf("temp/%d/%s/%s", teamID, fileID, data.Filename)

	url, err := a.Store.PresignPut(c.Request.Context(), tempPath, viper.GetDuration("upload.presign_ttl"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to presign upload URL", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": url,
		"fileId":    fileID,
		"tempPath":  tempPath,
	})
}
