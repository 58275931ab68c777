package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskMemoryPublished is enqueued when a memory becomes public.
const TaskMemoryPublished = "memory:published"

type MemoryPublishedPayload struct {
	MemoryID string `json:"memory_id"`
	UserID   string `json:"user_id"`
	Excerpt  string `json:"excerpt"`
}

// NewMemoryPublishedTask builds the notification task for a memory that has
// just become public. The task id is derived from the memory id so a burst of
// updates sends one email.
func NewMemoryPublishedTask(memoryID, userID, excerpt string) (*asynq.Task, error) {
	payload, err := json.Marshal(MemoryPublishedPayload{
		MemoryID: memoryID,
		UserID:   userID,
		Excerpt:  excerpt,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskMemoryPublished,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
		asynq.TaskID(TaskMemoryPublished+":"+memoryID),
		asynq.Retention(time.Hour),
	), nil
}
