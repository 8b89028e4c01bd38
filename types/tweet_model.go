package types

// Tweet is one post as stored in the tweets collection. CreatedAt is
// milliseconds since epoch and is the only sort key. Username is a snapshot
// of the author's display name at creation time and is never backfilled
// after a rename. Photo is empty when no image was attached.
type Tweet struct {
	Id        string `json:"id"`
	Tweet     string `json:"tweet"`
	CreatedAt int64  `json:"createdAt"`
	Username  string `json:"username"`
	UserId    string `json:"userId"`
	Photo     string `json:"photo,omitempty"`
}

// TweetFromDoc builds a Tweet from a Firestore document's data map.
// Firestore hands numbers back as int64; fields written by older clients
// may be missing entirely, which maps to the zero value.
func TweetFromDoc(id string, data map[string]interface{}) Tweet {
	t := Tweet{Id: id}

	if v, ok := data[FIREBASE_TWEETS_FIELDS_TWEET].(string); ok {
		t.Tweet = v
	}
	if v, ok := data[FIREBASE_TWEETS_FIELDS_CREATED_AT].(int64); ok {
		t.CreatedAt = v
	}
	if v, ok := data[FIREBASE_TWEETS_FIELDS_USERNAME].(string); ok {
		t.Username = v
	}
	if v, ok := data[FIREBASE_TWEETS_FIELDS_USER_ID].(string); ok {
		t.UserId = v
	}
	if v, ok := data[FIREBASE_TWEETS_FIELDS_PHOTO].(string); ok {
		t.Photo = v
	}

	return t
}
