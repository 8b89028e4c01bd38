package handlers

import (
	"errors"
	"net/http"

	"nwitter_api/session"
	"nwitter_api/tools"
	"nwitter_api/types"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
)

// SetMessagingRegistrationToken stores the caller's FCM registration
// token, one document per user, so the image pipeline can notify the
// author when an attached photo finishes processing.
func SetMessagingRegistrationToken(logger *logging.Logger, db *firestore.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		var body struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
			tools.LogError(logger, c, errors.New("token is required"))
			return
		}

		err := tools.SetFirestoreDocument(c, db, types.FIREBASE_MESSAGING_TOKEN_COLLECTION, user.Id, map[string]interface{}{
			"userId": user.Id,
			"token":  body.Token,
		})
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
}
