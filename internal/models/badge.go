package model

import (
	"time"
)

type Badge struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Emoji            string    `json:"emoji"`
	Category         string    `json:"category"` // achievement, social, contest, skill
	Tier             string    `json:"tier"`     // bronze, silver, gold, platinum
	RequirementType  string    `json:"requirementType"`
	RequirementValue int       `json:"requirementValue"`
	CreatedAt        time.Time `json:"createdAt"`
}

type UserBadge struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	BadgeID  string    `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
	Badge    *Badge    `json:"badge,omitempty"`
}
