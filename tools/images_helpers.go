package tools

import (
	"context"
	"image"
	"io"
	"net/url"

	"nwitter_api/types"

	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
)

// TweetImagePath is the fixed object path for a tweet's photo. One object
// per tweet; a replacement image during edit overwrites it in place.
func TweetImagePath(userId, tweetId string) string {
	return types.FIREBASE_STORAGE_TWEETS_FOLDER + userId + "/" + tweetId
}

// AvatarPath is the fixed per-user avatar object. Every re-upload replaces
// the previous object at the same location.
func AvatarPath(userId string) string {
	return types.FIREBASE_STORAGE_AVATARS_FOLDER + userId
}

// DownloadUrl builds the Firebase Storage media URL for an object that
// carries the given download token.
func DownloadUrl(storagePath, token string) string {
	return "https://firebasestorage.googleapis.com/v0/b/" + types.FIREBASE_STORAGE_BUCKET +
		"/o/" + url.PathEscape(storagePath) + "?alt=media&token=" + token
}

// updateDownloadToken stores the Firebase download token in the object's
// metadata. Without it the media URL does not resolve.
func updateDownloadToken(ctx context.Context, obj *storage.ObjectHandle, token string) error {
	_, err := obj.Update(ctx, storage.ObjectAttrsToUpdate{
		Metadata: map[string]string{
			"firebaseStorageDownloadTokens": token,
		},
	})
	return err
}

// UploadImageToStorage writes the image bytes to the given object path,
// mints a fresh download token and returns the resulting media URL.
// Rewriting an existing object drops its metadata, so the token is set
// again on every upload.
func UploadImageToStorage(ctx context.Context, logger *logging.Logger, gcs *storage.Client, file io.Reader, contentType, storagePath string) (string, error) {
	obj := gcs.Bucket(types.FIREBASE_STORAGE_BUCKET).Object(storagePath)

	sw := obj.NewWriter(ctx)
	sw.ContentType = contentType

	if _, err := io.Copy(sw, file); err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error writing image to storage",
			Labels:   map[string]string{"error": err.Error(), "path": storagePath},
		})
		return "", err
	}

	if err := sw.Close(); err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error closing storage writer",
			Labels:   map[string]string{"error": err.Error(), "path": storagePath},
		})
		return "", err
	}

	token, err := GenerateRandomName()
	if err != nil {
		return "", err
	}

	if err := updateDownloadToken(ctx, obj, token); err != nil {
		return "", err
	}

	return DownloadUrl(storagePath, token), nil
}

func DeleteObjectFromStorage(c context.Context, path string, gcs *storage.Client) error {
	obj := gcs.Bucket(types.FIREBASE_STORAGE_BUCKET).Object(path)

	return obj.Delete(c)
}

// GetImageFromStorage downloads and decodes the object at the given path.
func GetImageFromStorage(c context.Context, filePath string, gcs *storage.Client) (image.Image, error) {
	rc, err := gcs.Bucket(types.FIREBASE_STORAGE_BUCKET).Object(filePath).NewReader(c)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, err
	}

	return img, nil
}
