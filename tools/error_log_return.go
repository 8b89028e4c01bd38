package tools

import (
	"net/http"

	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
)

// LogError logs the error to Cloud Logging and ends the request with a 400.
func LogError(logger *logging.Logger, c *gin.Context, err error) {
	logger.Log(logging.Entry{
		Severity: logging.Error,
		Payload:  err.Error(),
		Labels:   map[string]string{"status": "error"},
	})

	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}

// LogWarning records a non-fatal condition without touching the response.
// Used for the accepted partial-failure states (a tweet without its photo,
// an orphaned image after a failed object delete).
func LogWarning(logger *logging.Logger, message string, labels map[string]string) {
	logger.Log(logging.Entry{
		Severity: logging.Warning,
		Payload:  message,
		Labels:   labels,
	})
}
