package types

import "testing"

func TestTweetFromDoc(t *testing.T) {
	data := map[string]interface{}{
		FIREBASE_TWEETS_FIELDS_TWEET:      "hello",
		FIREBASE_TWEETS_FIELDS_CREATED_AT: int64(1700000000000),
		FIREBASE_TWEETS_FIELDS_USERNAME:   "alice",
		FIREBASE_TWEETS_FIELDS_USER_ID:    "uid-1",
		FIREBASE_TWEETS_FIELDS_PHOTO:      "https://example.com/p.jpg",
	}

	tweet := TweetFromDoc("doc-1", data)

	if tweet.Id != "doc-1" {
		t.Errorf("Id = %q, want doc-1", tweet.Id)
	}
	if tweet.Tweet != "hello" {
		t.Errorf("Tweet = %q, want hello", tweet.Tweet)
	}
	if tweet.CreatedAt != 1700000000000 {
		t.Errorf("CreatedAt = %d, want 1700000000000", tweet.CreatedAt)
	}
	if tweet.Username != "alice" {
		t.Errorf("Username = %q, want alice", tweet.Username)
	}
	if tweet.UserId != "uid-1" {
		t.Errorf("UserId = %q, want uid-1", tweet.UserId)
	}
	if tweet.Photo != "https://example.com/p.jpg" {
		t.Errorf("Photo = %q", tweet.Photo)
	}
}

func TestTweetFromDocMissingFields(t *testing.T) {
	tweet := TweetFromDoc("doc-2", map[string]interface{}{
		FIREBASE_TWEETS_FIELDS_TWEET: "no photo here",
	})

	if tweet.Photo != "" {
		t.Errorf("Photo = %q, want empty", tweet.Photo)
	}
	if tweet.CreatedAt != 0 {
		t.Errorf("CreatedAt = %d, want 0", tweet.CreatedAt)
	}
}

func TestTweetFromDocWrongTypes(t *testing.T) {
	// A document written by hand with the wrong types should not panic.
	tweet := TweetFromDoc("doc-3", map[string]interface{}{
		FIREBASE_TWEETS_FIELDS_TWEET:      42,
		FIREBASE_TWEETS_FIELDS_CREATED_AT: "yesterday",
	})

	if tweet.Tweet != "" || tweet.CreatedAt != 0 {
		t.Errorf("unexpected tweet %+v", tweet)
	}
}
