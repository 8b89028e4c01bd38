package firebase

import (
	"context"
	"fmt"

	"nwitter_api/types"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"cloud.google.com/go/logging"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
)

func logInitResult(logger *logging.Logger, component string, err error) {
	if err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error initializing " + component,
			Labels:   map[string]string{"error": err.Error()},
		})
		return
	}
	logger.Log(logging.Entry{
		Severity: logging.Info,
		Payload:  component + " initialized successfully",
		Labels:   map[string]string{"status": "success"},
	})
}

func InitFirebaseApp() (*types.FirebaseApp, error) {
	// The logging client comes up first so every later failure is recorded.
	ctx := context.Background()
	loggingClient, err := logging.NewClient(ctx, types.FIREBASE_PROJECT_ID)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging client: %v", err)
	}
	logger := loggingClient.Logger("nwitter-api")
	logInitResult(logger, "Logging client", nil)

	app, err := firebase.NewApp(ctx, nil)
	logInitResult(logger, "Firebase app", err)
	if err != nil {
		return nil, err
	}

	db, err := app.Firestore(ctx)
	logInitResult(logger, "Firestore client", err)
	if err != nil {
		return nil, err
	}

	gcs, err := storage.NewClient(ctx)
	logInitResult(logger, "Storage client", err)
	if err != nil {
		return nil, err
	}

	authClient, err := app.Auth(ctx)
	logInitResult(logger, "Auth client", err)
	if err != nil {
		return nil, err
	}

	messagingClient, err := app.Messaging(ctx)
	logInitResult(logger, "Messaging client", err)
	if err != nil {
		return nil, err
	}

	taskClient, err := cloudtasks.NewClient(ctx)
	logInitResult(logger, "Cloud Tasks client", err)
	if err != nil {
		return nil, err
	}

	return &types.FirebaseApp{
		Context:       ctx,
		Admin:         app,
		DB:            db,
		Storage:       gcs,
		Auth:          authClient,
		Logger:        logger,
		MessageClient: messagingClient,
		TaskClient:    taskClient,
	}, nil
}
