package tasks

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"io"
	"net/http"

	"nwitter_api/notifications"
	"nwitter_api/tools"
	"nwitter_api/types"

	_ "image/png"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/messaging"
	"github.com/gin-gonic/gin"
)

// TweetImageTaskHandler is the Cloud Tasks callback. It re-reads the
// stored tweet photo, bakes the EXIF orientation into the pixels,
// overwrites the object at the same path, refreshes the photo URL on the
// tweet record and notifies the author's device. The tweet is already
// complete before this runs; any failure here is logged and the task
// returns an error status for the queue's own retry policy.
func TweetImageTaskHandler(logger *logging.Logger, messageClient *messaging.Client, gcs *storage.Client, db *firestore.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		var task types.TweetImageTask
		if err := json.Unmarshal(body, &task); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		img, err := tools.GetImageFromStorage(c, task.StoragePath, gcs)
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		corrected := tools.CorrectImageOrientation(img, task.Orientation)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, corrected, nil); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		// Overwriting mints a new download token, so the record's photo
		// URL has to be refreshed alongside.
		photo, err := tools.UploadImageToStorage(c, logger, gcs, &buf, "image/jpeg", task.StoragePath)
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		err = tools.UpdateFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, task.TweetId, map[string]interface{}{
			types.FIREBASE_TWEETS_FIELDS_PHOTO: photo,
		})
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		err = notifications.SendNotificationToClient(c, messageClient, db, logger, task.UserId, types.NotificationMessage{
			TweetId:     task.TweetId,
			Photo:       photo,
			StoragePath: task.StoragePath,
		})
		if err != nil {
			// The image work is done; a missing device token is not a
			// reason to have the queue replay the whole task.
			tools.LogWarning(logger, "Image processed but author was not notified", map[string]string{
				"tweetId": task.TweetId,
				"error":   err.Error(),
			})
		}

		c.JSON(http.StatusOK, gin.H{types.FIREBASE_TWEETS_FIELDS_PHOTO: photo})
	}
}
