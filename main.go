package main

import (
	"log"
	"os"

	"nwitter_api/feed"
	"nwitter_api/firebase"
	"nwitter_api/handlers"
	"nwitter_api/middlewares"
	"nwitter_api/session"
	"nwitter_api/tasks"
	"nwitter_api/types"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Local development reads FIREBASE_WEB_API_KEY and friends from .env;
	// in production the variables come from the runtime.
	_ = godotenv.Load()

	firebaseApp, err := firebase.InitFirebaseApp()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v\n", err)
	}

	if firebaseApp.Admin == nil {
		log.Fatalf("Failed to initialize Firebase Admin app\n")
	}
	if firebaseApp.DB == nil {
		log.Fatalf("Failed to initialize Firestore client\n")
	}
	if firebaseApp.Storage == nil {
		log.Fatalf("Failed to initialize Google Cloud Storage client\n")
	}
	if firebaseApp.Auth == nil {
		log.Fatalf("Failed to initialize Firebase Auth client\n")
	}
	if firebaseApp.Logger == nil {
		log.Fatalf("Failed to initialize Firebase Logger\n")
	}
	if firebaseApp.MessageClient == nil {
		log.Fatalf("Failed to initialize Firebase Messaging client\n")
	}
	if firebaseApp.TaskClient == nil {
		log.Fatalf("Failed to initialize Cloud Tasks client\n")
	}

	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")
	if apiKey == "" {
		log.Fatalf("FIREBASE_WEB_API_KEY is required for email/password sign-in\n")
	}

	sessionProvider := session.NewProvider(firebaseApp.Auth, firebaseApp.Logger, apiKey)
	feedStore := feed.NewStore(firebaseApp.DB, firebaseApp.Logger)

	r := gin.Default()

	// Disable TrustedProxies feature
	err = r.SetTrustedProxies(nil)
	if err != nil {
		log.Fatalf("Failed to set trusted proxies: %v\n", err)
	}

	// Cloud Tasks callback for the image pipeline
	taskGroup := r.Group(types.CLOUD_TASKS_HANDLER_PATH)
	taskGroup.POST("", tasks.TweetImageTaskHandler(firebaseApp.Logger, firebaseApp.MessageClient, firebaseApp.Storage, firebaseApp.DB))

	// Sign-in and account creation are the only unauthenticated routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/createAccount", handlers.CreateAccountHandler(firebaseApp.Logger, sessionProvider))
	authGroup.POST("/login", handlers.LoginHandler(firebaseApp.Logger, sessionProvider))

	imageValidation := middlewares.ImageValidationMiddleware(firebaseApp.Logger)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(firebaseApp.Logger, firebaseApp.Auth))

	api.GET("/feed/stream", handlers.FeedStreamHandler(firebaseApp.Logger, feedStore))
	api.GET("/tweets", handlers.GetTweetsHandler(firebaseApp.Logger, firebaseApp.DB))
	api.POST("/tweets", imageValidation, handlers.SubmitTweetHandler(firebaseApp.Logger, firebaseApp.DB, firebaseApp.Storage, firebaseApp.TaskClient))
	api.PATCH("/tweets", imageValidation, handlers.UpdateTweetHandler(firebaseApp.Logger, firebaseApp.DB, firebaseApp.Storage, firebaseApp.TaskClient))
	api.DELETE("/tweets", handlers.DeleteTweetHandler(firebaseApp.Logger, firebaseApp.DB, firebaseApp.Storage))

	api.GET("/profile/tweets", handlers.GetProfileTweetsHandler(firebaseApp.Logger, firebaseApp.DB))
	api.POST("/profile/avatar", imageValidation, handlers.UploadAvatarHandler(firebaseApp.Logger, firebaseApp.Storage, sessionProvider))
	api.POST("/profile/name", handlers.UpdateDisplayNameHandler(firebaseApp.Logger, sessionProvider))

	api.POST("/messaging", handlers.SetMessagingRegistrationToken(firebaseApp.Logger, firebaseApp.DB))
	api.DELETE("/images/orphans", handlers.DeleteOrphanImagesHandler(firebaseApp.Logger, firebaseApp.DB, firebaseApp.Storage))

	// Determine the port to listen on from the PORT environment variable
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r.Run("0.0.0.0:" + port)
}
