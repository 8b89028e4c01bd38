package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"nwitter_api/types"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"cloud.google.com/go/logging"
)

// CreateImageTask queues one orientation-fix task for an attached tweet
// photo. The queue calls back into CLOUD_TASKS_HANDLER_PATH with the
// serialized payload.
func CreateImageTask(ctx context.Context, client *cloudtasks.Client, logger *logging.Logger, task *types.TweetImageTask) (*taskspb.Task, error) {
	queuePath := fmt.Sprintf("projects/%s/locations/%s/queues/%s", types.FIREBASE_PROJECT_ID, types.FIREBASE_LOCATION_ID, types.CLOUD_IMAGES_QUEUE_ID)

	payload, err := json.Marshal(task)
	if err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error serializing TweetImageTask",
			Labels:   map[string]string{"error": err.Error()},
		})
		return nil, err
	}

	req := &taskspb.CreateTaskRequest{
		Parent: queuePath,
		Task: &taskspb.Task{
			MessageType: &taskspb.Task_HttpRequest{
				HttpRequest: &taskspb.HttpRequest{
					HttpMethod: taskspb.HttpMethod_POST,
					Url:        types.CLOUD_RUN_SERVICE_URL + types.CLOUD_TASKS_HANDLER_PATH,
					Body:       payload,
				},
			},
		},
	}

	createdTask, err := client.CreateTask(ctx, req)
	if err != nil {
		logger.Log(logging.Entry{
			Severity: logging.Error,
			Payload:  "Error creating image processing task",
			Labels:   map[string]string{"error": err.Error(), "tweetId": task.TweetId},
		})
		return nil, err
	}

	return createdTask, nil
}
