package models

import "time"

// SlotCandidate is a bookable start instant produced by a slot generator.
// Score is only populated by the smart generator; higher is preferred.
type SlotCandidate struct {
	Start time.Time `json:"start"`
	Score float64   `json:"score,omitempty"`
}
