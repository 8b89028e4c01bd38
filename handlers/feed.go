package handlers

import (
	"io"

	"nwitter_api/feed"

	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
)

// FeedStreamHandler bridges one live feed subscription onto a server-sent
// event stream. Every event named "feed" carries the complete current
// window; "error" ends the stream. Client disconnect cancels the
// server-side listener through the request context.
func FeedStreamHandler(logger *logging.Logger, store *feed.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := store.Subscribe(c.Request.Context())
		defer sub.Unsubscribe()

		c.Writer.Header().Set("Cache-Control", "no-cache")

		c.Stream(func(w io.Writer) bool {
			select {
			case tweets, ok := <-sub.Snapshots():
				if !ok {
					return false
				}
				c.SSEvent("feed", tweets)
				return true

			case err := <-sub.Err():
				logger.Log(logging.Entry{
					Severity: logging.Error,
					Payload:  "feed stream ended: " + err.Error(),
				})
				c.SSEvent("error", gin.H{"error": err.Error()})
				return false

			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
