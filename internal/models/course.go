package models

import "time"

// Course difficulty tags. The store accepts any string; these are the
// values the catalog actually uses.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course is a single catalog entry.
type Course struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Hours       int       `json:"hours"`
	Level       string    `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
}
