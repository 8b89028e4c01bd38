package handlers

import (
	"net/http"
	"strings"

	"nwitter_api/tools"
	"nwitter_api/types"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	gcs "cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
)

// DeleteOrphanImagesHandler sweeps the tweets/ storage prefix and removes
// objects whose tweet record no longer exists. Orphans appear when a
// record delete succeeds but the object delete afterwards fails; the hot
// path does not retry, this sweep is the cleanup.
func DeleteOrphanImagesHandler(logger *logging.Logger, db *firestore.Client, storage *gcs.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucketHandle := storage.Bucket(types.FIREBASE_STORAGE_BUCKET)

		it := bucketHandle.Objects(c, &gcs.Query{Prefix: types.FIREBASE_STORAGE_TWEETS_FOLDER})

		deleted := 0
		kept := 0

		for {
			attrs, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				tools.LogError(logger, c, err)
				return
			}

			// Object names are tweets/{userId}/{tweetId}.
			rest := strings.TrimPrefix(attrs.Name, types.FIREBASE_STORAGE_TWEETS_FOLDER)
			parts := strings.SplitN(rest, "/", 2)
			if len(parts) != 2 || parts[1] == "" {
				continue
			}
			tweetId := parts[1]

			record, err := tools.GetFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, tweetId)
			if err != nil {
				tools.LogError(logger, c, err)
				return
			}
			if record != nil {
				kept++
				continue
			}

			if err := tools.DeleteObjectFromStorage(c, attrs.Name, storage); err != nil {
				tools.LogWarning(logger, "Failed to delete orphaned image", map[string]string{
					"path":  attrs.Name,
					"error": err.Error(),
				})
				continue
			}
			deleted++
		}

		c.JSON(http.StatusOK, gin.H{
			"deleted": deleted,
			"kept":    kept,
		})
	}
}
