package api

import (
	"blueclova/share-api/cloudflare"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type targetCreateRequest struct {
	Filename string `json:"filename" binding:"required"`
	Filesize int64  `json:"filesize"`
	Filetype string `json:"filetype"`
}

func (a *API) TargetCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req targetCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	target, err := a.Stream.CreateUploadTarget(c.Request.Context(), req.Filename)
	if err != nil {
		a.streamError(c, requestID, err)
		return
	}

	zap.L().Info("Issued upload target",
		zap.String("request_id", requestID),
		zap.String("uid", target.UID),
		zap.String("filename", req.Filename),
		zap.Int64("filesize", req.Filesize),
	)

	c.JSON(http.StatusOK, gin.H{
		"uploadURL": target.UploadURL,
		"uid":       target.UID,
	})
}

// streamError converts a Stream client failure into the matching status
// and error JSON. Secrets never end up in a response body.
func (a *API) streamError(c *gin.Context, requestID string, err error) {
	var confErr *cloudflare.ConfigError
	var upErr *cloudflare.UpstreamError
	var protoErr *cloudflare.ProtocolError

	switch {
	case errors.As(err, &confErr):
		zap.L().Error("Stream configuration is missing", zap.Error(err))

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     confErr.Error(),
			"requestID": requestID,
		})
	case errors.As(err, &upErr):
		var details any
		if json.Unmarshal([]byte(upErr.Body), &details) != nil {
			details = upErr.Body
		}

		c.AbortWithStatusJSON(upErr.Status, gin.H{
			"error":     "Could not get an upload URL from the video host",
			"details":   details,
			"requestID": requestID,
		})
	case errors.As(err, &protoErr):
		zap.L().Error("Unexpected Stream API response", zap.Error(err))

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "The video host response was missing the upload URL or UID",
			"requestID": requestID,
		})
	default:
		zap.L().Error("Failed to reach the Stream API", zap.Error(err))

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
	}
}
