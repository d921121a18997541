package model

import (
	"time"
)

type Run struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Score         int       `json:"score"`
	Distance      int       `json:"distance"`
	DurationMs    int64     `json:"durationMs"`
	ClientVersion string    `json:"clientVersion,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type FinishRunRequest struct {
	RunToken      string `json:"runToken"`
	Score         int    `json:"score"`
	Distance      int    `json:"distance"`
	DurationMs    int64  `json:"durationMs"`
	ClientVersion string `json:"clientVersion,omitempty"`
}

// RunResult est la réponse de /runs/finish : le run enregistré et les
// concours dans lesquels il a été inscrit automatiquement
type RunResult struct {
	Run             Run      `json:"run"`
	EnteredContests []string `json:"enteredContests"`
}

type RunStats struct {
	BestScore    int  `json:"bestScore"`
	BestDistance int  `json:"bestDistance"`
	Rank         *int `json:"rank"`
	TotalRuns    int  `json:"totalRuns"`
}
