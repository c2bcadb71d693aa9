package model

import "time"

// Message is a persisted chat message: direct (RecipientID set), task-scoped (TaskID set)
// or a broadcast from an administrator.
type Message struct {
	ID          int64     `json:"id"`
	SenderID    int64     `json:"sender_id"`
	RecipientID *int64    `json:"recipient_id"`
	TaskID      *int64    `json:"task_id"`
	Content     string    `json:"content"`
	IsBroadcast bool      `json:"is_broadcast"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is a note left on a task by one of its participants.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
