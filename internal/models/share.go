package model

import (
	"time"
)

type Share struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	RunID     *string   `json:"runId,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecordShareRequest struct {
	Platform string  `json:"platform"`
	Score    *int    `json:"score,omitempty"`
	RunID    *string `json:"runId,omitempty"`
}
