package types

const (
	FIREBASE_PROJECT_ID     = "nwitter-reloaded"
	FIREBASE_LOCATION_ID    = "europe-west1"
	FIREBASE_STORAGE_BUCKET = "nwitter-reloaded.appspot.com"

	CLOUD_IMAGES_QUEUE_ID    = "tweet-images"
	CLOUD_RUN_SERVICE_URL    = "https://nwitter-api-service.a.run.app"
	CLOUD_TASKS_HANDLER_PATH = "/tasks/imageProcessing"

	FIREBASE_TWEETS_COLLECTION        = "tweets"
	FIREBASE_TWEETS_FIELDS_TWEET      = "tweet"
	FIREBASE_TWEETS_FIELDS_CREATED_AT = "createdAt"
	FIREBASE_TWEETS_FIELDS_USERNAME   = "username"
	FIREBASE_TWEETS_FIELDS_USER_ID    = "userId"
	FIREBASE_TWEETS_FIELDS_PHOTO      = "photo"

	FIREBASE_MESSAGING_TOKEN_COLLECTION = "registrationTokens"

	FIREBASE_STORAGE_TWEETS_FOLDER  = "tweets/"
	FIREBASE_STORAGE_AVATARS_FOLDER = "avatars/"

	// Context keys set by the middlewares.
	CONTEXT_SESSION_USER = "sessionUser"
	CONTEXT_TWEET_IMAGE  = "tweetImage"

	// The multipart field names the clients send.
	TWEET_TEXT_FORM_FIELD  = "tweet"
	TWEET_IMAGE_FORM_FIELD = "file"

	// Tweet text is capped at 180 UTF-16 code units, images at 10MB.
	TWEET_MAX_LENGTH      = 180
	TWEET_IMAGE_MAX_BYTES = 10 * 1024 * 1024

	// Both the live feed and the profile query load at most one page.
	FEED_PAGE_SIZE = 25

	ANONYMOUS_USERNAME = "Anonymous"
)
