package core

import "github.com/google/uuid"

// TaskID uniquely identifies a task for logs, metrics and history
// records. It is assigned when the record is created, before the task
// ever starts.
type TaskID uuid.UUID

// GenerateTaskID returns a new random TaskID.
func GenerateTaskID() TaskID {
	return TaskID(uuid.New())
}

func (id TaskID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the ID is the zero value.
func (id TaskID) IsZero() bool {
	return id == TaskID(uuid.Nil)
}
