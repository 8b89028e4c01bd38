package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nwitter_api/tools"
	"nwitter_api/types"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/logging"
	"firebase.google.com/go/messaging"
)

// SendNotificationToClient pushes an FCM data message to the device
// registered for the given user. Users without a registered token simply
// cannot be notified; that comes back as an error for the caller to log.
func SendNotificationToClient(ctx context.Context, client *messaging.Client, db *firestore.Client, logger *logging.Logger, userId string, data types.NotificationMessage) error {
	registration, err := tools.GetFirestoreDocument(ctx, db, types.FIREBASE_MESSAGING_TOKEN_COLLECTION, userId)
	if err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error getting registration token from firestore",
			Labels:   map[string]string{"error": err.Error(), "userId": userId},
		})
		return err
	}

	var token string
	if registration != nil {
		token, _ = registration["token"].(string)
	}
	if token == "" {
		return errors.New("no registration token for user " + userId)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error converting data to JSON: %w", err)
	}

	message := &messaging.Message{
		Data:  map[string]string{"data": string(payload)},
		Token: token,
	}

	if _, err := client.Send(ctx, message); err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error sending message to client",
			Labels:   map[string]string{"error": err.Error(), "userId": userId},
		})
		return fmt.Errorf("error sending message to client: %w", err)
	}

	return nil
}
