package middlewares

import (
	"fmt"
	"io"
	"net/http"

	"nwitter_api/types"

	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
)

// ImageValidationMiddleware validates the optional image attachment of a
// multipart request. A request without a file passes through untouched;
// when several files are selected only the first is considered. The
// accepted attachment is stored in the context as a types.TweetImage with
// the file rewound to the start; the consuming handler closes it.
func ImageValidationMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil || form == nil {
			// Not a multipart request; nothing to validate.
			c.Next()
			return
		}

		files := form.File[types.TWEET_IMAGE_FORM_FIELD]
		if len(files) == 0 {
			c.Next()
			return
		}

		header := files[0]

		if header.Size > types.TWEET_IMAGE_MAX_BYTES {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  fmt.Sprintf("Rejected upload of %d bytes", header.Size),
			})

			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file too large: maximum size 10MB"})
			return
		}

		f, err := header.Open()
		if err != nil {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Failed to open uploaded file: " + err.Error(),
			})

			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "error opening file"})
			return
		}

		// Sniff the first 512 bytes; anything image/* is allowed.
		buf := make([]byte, 512)
		n, err := f.Read(buf)
		if err != nil && err != io.EOF {
			f.Close()
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "error reading file"})
			return
		}

		contentType := http.DetectContentType(buf[:n])
		if len(contentType) < 6 || contentType[:6] != "image/" {
			logger.Log(logging.Entry{
				Severity: logging.Error,
				Payload:  "Unsupported file type: " + contentType,
			})

			f.Close()
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + contentType})
			return
		}

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "error seeking file"})
			return
		}

		c.Set(types.CONTEXT_TWEET_IMAGE, types.TweetImage{
			File:        f,
			ContentType: contentType,
			Size:        header.Size,
		})
		c.Next()
	}
}
