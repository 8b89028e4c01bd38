package types

// NotificationMessage is the FCM data payload sent to a tweet's author
// once the attached image has been processed.
type NotificationMessage struct {
	TweetId     string `json:"tweetId"`
	Photo       string `json:"photo"`
	StoragePath string `json:"storagePath"`
}
