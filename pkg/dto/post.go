package dto

import "time"

type CreatePostRequest struct {
	Content     string     `json:"content"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type UpdatePostRequest struct {
	Content     string     `json:"content"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type SchedulePostRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}
