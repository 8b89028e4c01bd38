package handlers

import (
	"errors"
	"net/http"
	"sync"
	"time"
	"unicode/utf16"

	"nwitter_api/session"
	"nwitter_api/tasks"
	"nwitter_api/tools"
	"nwitter_api/types"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
)

// validateTweetText enforces the 1-180 limit, counted in UTF-16 code
// units to match what the web clients count.
func validateTweetText(text string) error {
	if text == "" {
		return errors.New("tweet text is required")
	}

	units := 0
	for _, r := range text {
		units += utf16.RuneLen(r)
	}
	if units > types.TWEET_MAX_LENGTH {
		return errors.New("tweet text exceeds 180 characters")
	}

	return nil
}

// inFlightGuard serializes submissions per user: while one submit is
// running, further attempts by the same user are silent no-ops.
type inFlightGuard struct {
	busy sync.Map
}

func (g *inFlightGuard) acquire(userId string) bool {
	_, loaded := g.busy.LoadOrStore(userId, struct{}{})
	return !loaded
}

func (g *inFlightGuard) release(userId string) {
	g.busy.Delete(userId)
}

var submitGuard inFlightGuard

// tweetImageFromContext returns the attachment the validation middleware
// stored, if any.
func tweetImageFromContext(c *gin.Context) (types.TweetImage, bool) {
	value, exists := c.Get(types.CONTEXT_TWEET_IMAGE)
	if !exists {
		return types.TweetImage{}, false
	}

	img, ok := value.(types.TweetImage)
	return img, ok
}

// closeTweetImage releases the attachment file once the handler is done
// with it.
func closeTweetImage(img types.TweetImage) {
	if img.File != nil {
		img.File.Close()
	}
}

// SubmitTweetHandler creates a tweet in two phases: the text record first,
// then, when an image was attached, the upload and a patch adding the
// photo URL. A failure after phase one leaves the record without its
// photo; that partial state is logged and kept, never rolled back.
func SubmitTweetHandler(logger *logging.Logger, db *firestore.Client, gcs *storage.Client, taskClient *cloudtasks.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		if !submitGuard.acquire(user.Id) {
			// Double submit while the first is in flight: no-op.
			c.Status(http.StatusNoContent)
			return
		}
		defer submitGuard.release(user.Id)

		text := c.PostForm(types.TWEET_TEXT_FORM_FIELD)
		if err := validateTweetText(text); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		username := user.DisplayName
		if username == "" {
			username = types.ANONYMOUS_USERNAME
		}

		id, err := tools.AddFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, map[string]interface{}{
			types.FIREBASE_TWEETS_FIELDS_TWEET:      text,
			types.FIREBASE_TWEETS_FIELDS_CREATED_AT: time.Now().UnixMilli(),
			types.FIREBASE_TWEETS_FIELDS_USERNAME:   username,
			types.FIREBASE_TWEETS_FIELDS_USER_ID:    user.Id,
		})
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}

		photo := ""
		if img, hasImage := tweetImageFromContext(c); hasImage {
			defer closeTweetImage(img)

			photo, err = attachTweetImage(c, logger, db, gcs, taskClient, user.Id, id, img)
			if err != nil {
				// The record already exists; report the failed attach and
				// leave the tweet standing without its photo.
				tools.LogWarning(logger, "Tweet created without its image", map[string]string{
					"tweetId": id,
					"error":   err.Error(),
				})
				c.JSON(http.StatusOK, gin.H{"id": id, "error": "image attach failed"})
				return
			}
		}

		response := gin.H{"id": id}
		if photo != "" {
			response[types.FIREBASE_TWEETS_FIELDS_PHOTO] = photo
		}
		c.JSON(http.StatusOK, response)
	}
}

// attachTweetImage uploads the attachment to the tweet's fixed object
// path, patches the record with the resulting URL and queues the
// orientation-fix task. Task creation is best effort.
func attachTweetImage(c *gin.Context, logger *logging.Logger, db *firestore.Client, gcs *storage.Client, taskClient *cloudtasks.Client, userId, tweetId string, img types.TweetImage) (string, error) {
	orientation, err := tools.TryFindExifOrientation(logger, img.File)
	if err != nil {
		return "", err
	}

	storagePath := tools.TweetImagePath(userId, tweetId)
	photo, err := tools.UploadImageToStorage(c, logger, gcs, img.File, img.ContentType, storagePath)
	if err != nil {
		return "", err
	}

	err = tools.UpdateFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, tweetId, map[string]interface{}{
		types.FIREBASE_TWEETS_FIELDS_PHOTO: photo,
	})
	if err != nil {
		return "", err
	}

	if orientation != 1 {
		_, err = tasks.CreateImageTask(c, taskClient, logger, &types.TweetImageTask{
			TweetId:     tweetId,
			UserId:      userId,
			StoragePath: storagePath,
			Orientation: orientation,
		})
		if err != nil {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Error creating image processing task",
				Labels:   map[string]string{"error": err.Error(), "tweetId": tweetId},
			})
		}
	}

	return photo, nil
}

// GetTweetsHandler returns the current feed window as a one-shot query,
// for clients that do not hold the live stream open.
func GetTweetsHandler(logger *logging.Logger, db *firestore.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Collection(types.FIREBASE_TWEETS_COLLECTION).
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

// ownsTweet reports whether the session identity authored the record. A
// record with a missing or malformed userId belongs to nobody.
func ownsTweet(record map[string]interface{}, user types.SessionUser) bool {
	authorId, _ := record[types.FIREBASE_TWEETS_FIELDS_USER_ID].(string)
	return authorId != "" && authorId == user.Id
}

// editTweetFields builds the merge payload for an edit. Only the text is
// rewritten; createdAt, userId, username and photo keep whatever the
// record already holds.
func editTweetFields(text string) map[string]interface{} {
	return map[string]interface{}{
		types.FIREBASE_TWEETS_FIELDS_TWEET: text,
	}
}

// loadOwnedTweet fetches the record and checks it against the session
// identity. The ownership rule is enforced here, server-side; the UI's
// hidden buttons are an affordance, not security.
func loadOwnedTweet(c *gin.Context, db *firestore.Client, user types.SessionUser, id string) (map[string]interface{}, bool, error) {
	record, err := tools.GetFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, id)
	if err != nil {
		return nil, false, err
	}
	if record == nil {
		return nil, false, nil
	}

	return record, ownsTweet(record, user), nil
}

// UpdateTweetHandler edits a tweet in place: text always, photo only when
// a replacement image is supplied. createdAt, userId and username are
// never rewritten.
func UpdateTweetHandler(logger *logging.Logger, db *firestore.Client, gcs *storage.Client, taskClient *cloudtasks.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		id := c.Query("id")
		if id == "" {
			id = c.PostForm("id")
		}
		if id == "" {
			tools.LogError(logger, c, errors.New("id parameter is required"))
			return
		}

		record, owned, err := loadOwnedTweet(c, db, user, id)
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "tweet not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this tweet"})
			return
		}

		text := c.PostForm(types.TWEET_TEXT_FORM_FIELD)
		if err := validateTweetText(text); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		if img, hasImage := tweetImageFromContext(c); hasImage {
			defer closeTweetImage(img)

			// Same fixed path as the original upload, so the replacement
			// overwrites the previous object instead of orphaning it.
			// attachTweetImage persists the photo URL itself; the outer
			// write must stay text-only or it would clobber a token the
			// orientation task refreshed in the meantime.
			if _, err := attachTweetImage(c, logger, db, gcs, taskClient, user.Id, id, img); err != nil {
				tools.LogError(logger, c, err)
				return
			}
		}

		if err := tools.UpdateFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, id, editTweetFields(text)); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// DeleteTweetHandler removes the record and then, if a photo was
// attached, the backing object. The two deletes are independent: a failed
// object delete leaves an orphan, which is logged and left for the orphan
// sweep rather than retried.
func DeleteTweetHandler(logger *logging.Logger, db *firestore.Client, gcs *storage.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session"})
			return
		}

		id, idProvided := c.GetQuery("id")
		if !idProvided {
			tools.LogError(logger, c, errors.New("id query parameter is required"))
			return
		}

		record, owned, err := loadOwnedTweet(c, db, user, id)
		if err != nil {
			tools.LogError(logger, c, err)
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "tweet not found"})
			return
		}
		if !owned {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the author of this tweet"})
			return
		}

		if err := tools.DeleteFirestoreDocument(c, db, types.FIREBASE_TWEETS_COLLECTION, id); err != nil {
			tools.LogError(logger, c, err)
			return
		}

		if photo, _ := record[types.FIREBASE_TWEETS_FIELDS_PHOTO].(string); photo != "" {
			path := tools.TweetImagePath(user.Id, id)
			if err := tools.DeleteObjectFromStorage(c, path, gcs); err != nil {
				tools.LogWarning(logger, "Tweet deleted but its image remains", map[string]string{
					"tweetId": id,
					"path":    path,
					"error":   err.Error(),
				})
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
