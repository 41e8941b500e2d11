package api

import (
	"net/http"

	"sigantara/file-api/internal/model"
	"sigantara/file-api/queue"
	"sigantara/file-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type finalizeBody struct {
	FileID    string `json:"fileId"`
	TempPath  string `json:"tempPath"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// FileFinalize is the durable hand-off point. It inserts the record in
// UPLOADED and enqueues the processing job, once this returns success
// the client's responsibility ends. The temp object is not verified to
// exist, the client is trusted.
func (a *API) FileFinalize(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)
	teamID := c.MustGet("teamID").(uint)

	var data finalizeBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	err := validators.FinalizeRequest(data.FileID, data.TempPath, data.Filename, data.MimeType, data.SizeBytes)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if teamID == 0 {
		teamID = 1
	}

	file := model.File{
		TeamID:           teamID,
		UserID:           userID,
		Filename:         data.Filename,
		OriginalFilename: data.Filename,
		MimeType:         data.MimeType,
		SizeBytes:        data.SizeBytes,
		OriginalPath:     data.TempPath,
		Status:           model.StatusUploaded,
	}

	if err := a.DB.Create(&file).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save file record to db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.Queue.EnqueueProcess(c.Request.Context(), &queue.ProcessPayload{
		FileID:   file.ID,
		TeamID:   teamID,
		TempPath: data.TempPath,
		MimeType: data.MimeType,
		Filename: data.Filename,
	})
	if err != nil {
		// The record stays in UPLOADED with no job in flight, the
		// reconciliation sweep re-enqueues it later
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to enqueue processing job",
			zap.Uint("file_id", file.ID),
			zap.Error(err),
			zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"fileId":  file.ID,
		"status":  model.StatusUploaded,
	})
}
