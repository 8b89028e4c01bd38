package tools

import (
	"strings"
	"testing"

	"nwitter_api/types"
)

func TestTweetImagePath(t *testing.T) {
	got := TweetImagePath("uid-1", "tweet-1")
	want := "tweets/uid-1/tweet-1"
	if got != want {
		t.Errorf("TweetImagePath = %q, want %q", got, want)
	}
}

func TestAvatarPath(t *testing.T) {
	got := AvatarPath("uid-1")
	if got != "avatars/uid-1" {
		t.Errorf("AvatarPath = %q, want avatars/uid-1", got)
	}
}

func TestDownloadUrlEscapesPath(t *testing.T) {
	url := DownloadUrl("tweets/uid-1/tweet-1", "tok")

	if !strings.Contains(url, "tweets%2Fuid-1%2Ftweet-1") {
		t.Errorf("object path not escaped in %q", url)
	}
	if !strings.HasSuffix(url, "?alt=media&token=tok") {
		t.Errorf("unexpected query in %q", url)
	}
	if !strings.Contains(url, types.FIREBASE_STORAGE_BUCKET) {
		t.Errorf("bucket missing from %q", url)
	}
}

func TestGenerateRandomNameIsUnique(t *testing.T) {
	a, err := GenerateRandomName()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateRandomName()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated names collided")
	}
}
