package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskContactImport = "contacts.import"

type ContactImportPayload struct {
	JobID string `json:"jobId"`
}

func NewContactImportTask(payload ContactImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactImport, data), nil
}

func ParseContactImportPayload(task *asynq.Task) (ContactImportPayload, error) {
	var payload ContactImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ContactImportPayload{}, err
	}
	return payload, nil
}
