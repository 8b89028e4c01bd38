package handlers

import (
	"errors"
	"net/http"

	"nwitter_api/session"
	"nwitter_api/tools"
	"nwitter_api/types"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
)

// GetProfileTweetsHandler returns the caller's own tweets, newest first,
// one page. This is a one-shot query, not a live one; the profile view
// refreshes only when re-requested.
func GetProfileTweetsHandler(logger *logging.Logger, db *firestore.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		query := db.Collection(types.FIREBASE_TWEETS_COLLECTION).
			Where(types.FIREBASE_TWEETS_FIELDS_USER_ID, "==", user.Id).
			OrderBy(types.FIREBASE_TWEETS_FIELDS_CREATED_AT, firestore.Desc).
			Limit(types.FEED_PAGE_SIZE)

		tweets := []types.Tweet{}

		iter := query.Documents(c)
		defer iter.Stop()

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				tools.LogError(logger, c, err)
				return
			}

			tweets = append(tweets, types.TweetFromDoc(doc.Ref.ID, doc.Data()))
		}

		c.JSON(http.StatusOK, gin.H{"tweets": tweets})
	}
}

// UploadAvatarHandler overwrites the caller's single avatar object and
// persists the new URL on the identity record.
func UploadAvatarHandler(logger *logging.Logger, gcs *storage.Client, provider *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		img, hasImage := tweetImageFromContext(c)
		if !hasImage {
			tools.LogError(logger, c, errors.New("avatar file is required"))
			return
		}
		defer closeTweetImage(img)

		avatarUrl, err := tools.UploadImageToStorage(c, logger, gcs, img.File, img.ContentType, tools.AvatarPath(user.Id))
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		if err := provider.UpdateProfile(c, user.Id, "", avatarUrl); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"avatarUrl": avatarUrl})
	}
}

// UpdateDisplayNameHandler persists a new display name on the identity
// record. Existing tweets keep the username snapshot they were created
// with.
func UpdateDisplayNameHandler(logger *logging.Logger, provider *session.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		if body.Name == "" {
			// Confirming an empty buffer is a no-op, matching the form guard.
			c.Status(http.StatusNoContent)
			return
		}

		if err := provider.UpdateProfile(c, user.Id, body.Name, ""); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"displayName": body.Name})
	}
}
