package api

import (
	"blueclova/share-api/cloudflare"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) VideoInfo(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	uid := c.Param("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Video UID is required",
			"requestID": requestID,
		})
		return
	}

	meta, err := a.Stream.GetVideo(c.Request.Context(), uid)
	if err != nil {
		var upErr *cloudflare.UpstreamError
		if errors.As(err, &upErr) {
			// Upstream status passes through verbatim so a missing video
			// stays a 404 for the caller.
			c.JSON(upErr.Status, gin.H{
				"error":     "Could not fetch video information",
				"requestID": requestID,
			})
			return
		}

		zap.L().Error("Failed to fetch video information", zap.String("uid", uid), zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	c.Data(http.StatusOK, "application/json", meta)
}
