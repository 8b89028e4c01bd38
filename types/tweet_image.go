package types

import "mime/multipart"

// TweetImage is the single validated attachment the image middleware puts
// into the request context. The file pointer is positioned at the start.
type TweetImage struct {
	File        multipart.File
	ContentType string
	Size        int64
}

// TweetImageTask is the payload handed to the Cloud Tasks queue after a
// tweet photo has been attached. StoragePath is the final object path; the
// task rewrites the object in place.
type TweetImageTask struct {
	TweetId     string `json:"tweetId"`
	UserId      string `json:"userId"`
	StoragePath string `json:"storagePath"`
	Orientation int    `json:"orientation"`
}
